package core

const entityReservedLen = 256

const avsSize = 1 + 2*PubkeyLen + 3*8 + entityReservedLen + 1

// Avs is an actively-validated service: an admin identity, the base
// identity its address is derived from, and one counter per edge kind
// it can own. Counters are the source of each new edge's ordinal index
// and never decrement.
type Avs struct {
	admin         Pubkey
	base          Pubkey
	vaultCount    uint64
	operatorCount uint64
	slasherCount  uint64
	bump          uint8
}

// NewAvs returns an AVS record with all edge counters at zero.
func NewAvs(admin, base Pubkey, bump uint8) *Avs {
	return &Avs{admin: admin, base: base, bump: bump}
}

func (a *Avs) Admin() Pubkey {
	return a.admin
}

func (a *Avs) Base() Pubkey {
	return a.base
}

func (a *Avs) VaultCount() uint64 {
	return a.vaultCount
}

func (a *Avs) OperatorCount() uint64 {
	return a.operatorCount
}

func (a *Avs) SlasherCount() uint64 {
	return a.slasherCount
}

func (a *Avs) Bump() uint8 {
	return a.bump
}

// CheckAdmin verifies the invoking identity against the stored admin.
func (a *Avs) CheckAdmin(signer Pubkey) error {
	if a.admin != signer {
		return ErrAuthorizationFailure
	}
	return nil
}

func (a *Avs) IncrementVaultCount() error {
	if a.vaultCount == ^uint64(0) {
		return ErrCounterOverflow
	}
	a.vaultCount++
	return nil
}

func (a *Avs) IncrementOperatorCount() error {
	if a.operatorCount == ^uint64(0) {
		return ErrCounterOverflow
	}
	a.operatorCount++
	return nil
}

func (a *Avs) IncrementSlasherCount() error {
	if a.slasherCount == ^uint64(0) {
		return ErrCounterOverflow
	}
	a.slasherCount++
	return nil
}

// AvsSeeds is the seed tuple of an AVS record.
func AvsSeeds(base Pubkey) [][]byte {
	return [][]byte{[]byte("avs"), base.Bytes()}
}

// FindAvsAddress derives the canonical address of the AVS created from
// the given base identity.
func FindAvsAddress(program, base Pubkey) (Pubkey, uint8) {
	return FindRecordAddress(program, AvsSeeds(base)...)
}

// Initialize claims an empty region for this AVS record.
func (a *Avs) Initialize(program Pubkey, acct *Account) error {
	return initializeRecord(program, acct, a)
}

// SanitizeAvs validates and deserializes an AVS account.
func SanitizeAvs(program Pubkey, acct *Account, expectWritable bool) (*Validated[Avs], error) {
	return sanitizeRecord[Avs, *Avs](program, acct, expectWritable)
}

func (a *Avs) recordType() AccountType {
	return AccountTypeAvs
}

func (a *Avs) seeds() [][]byte {
	return AvsSeeds(a.base)
}

func (a *Avs) recordBump() uint8 {
	return a.bump
}

func (a *Avs) marshal() []byte {
	w := newRecordWriter(avsSize)
	w.writeType(AccountTypeAvs)
	w.writePubkey(a.admin)
	w.writePubkey(a.base)
	w.writeU64(a.vaultCount)
	w.writeU64(a.operatorCount)
	w.writeU64(a.slasherCount)
	w.writeReserved(entityReservedLen)
	w.writeU8(a.bump)
	return w.bytes()
}

func (a *Avs) unmarshal(data []byte) error {
	r := newRecordReader(data)
	if err := r.readType(AccountTypeAvs); err != nil {
		return err
	}
	var err error
	if a.admin, err = r.readPubkey(); err != nil {
		return err
	}
	if a.base, err = r.readPubkey(); err != nil {
		return err
	}
	if a.vaultCount, err = r.readU64(); err != nil {
		return err
	}
	if a.operatorCount, err = r.readU64(); err != nil {
		return err
	}
	if a.slasherCount, err = r.readU64(); err != nil {
		return err
	}
	if err = r.skipReserved(entityReservedLen); err != nil {
		return err
	}
	if a.bump, err = r.readU8(); err != nil {
		return err
	}
	return nil
}
