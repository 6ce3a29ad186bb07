package core

const operatorSize = 1 + 3*PubkeyLen + 2*8 + entityReservedLen + 1

// Operator is a node operator entity: admin identity, base identity its
// address is derived from, the voter identity it operates with, and
// counters over the vault and AVS edges it has ever created.
type Operator struct {
	admin      Pubkey
	base       Pubkey
	voter      Pubkey
	vaultCount uint64
	avsCount   uint64
	bump       uint8
}

// NewOperator returns an operator record with the admin doubling as the
// initial voter and all edge counters at zero.
func NewOperator(admin, base Pubkey, bump uint8) *Operator {
	return &Operator{admin: admin, base: base, voter: admin, bump: bump}
}

func (o *Operator) Admin() Pubkey {
	return o.admin
}

func (o *Operator) Base() Pubkey {
	return o.base
}

func (o *Operator) Voter() Pubkey {
	return o.voter
}

func (o *Operator) VaultCount() uint64 {
	return o.vaultCount
}

func (o *Operator) AvsCount() uint64 {
	return o.avsCount
}

func (o *Operator) Bump() uint8 {
	return o.bump
}

// CheckAdmin verifies the invoking identity against the stored admin.
func (o *Operator) CheckAdmin(signer Pubkey) error {
	if o.admin != signer {
		return ErrAuthorizationFailure
	}
	return nil
}

func (o *Operator) IncrementVaultCount() error {
	if o.vaultCount == ^uint64(0) {
		return ErrCounterOverflow
	}
	o.vaultCount++
	return nil
}

func (o *Operator) IncrementAvsCount() error {
	if o.avsCount == ^uint64(0) {
		return ErrCounterOverflow
	}
	o.avsCount++
	return nil
}

// OperatorSeeds is the seed tuple of an operator record.
func OperatorSeeds(base Pubkey) [][]byte {
	return [][]byte{[]byte("operator"), base.Bytes()}
}

// FindOperatorAddress derives the canonical address of the operator
// created from the given base identity.
func FindOperatorAddress(program, base Pubkey) (Pubkey, uint8) {
	return FindRecordAddress(program, OperatorSeeds(base)...)
}

// Initialize claims an empty region for this operator record.
func (o *Operator) Initialize(program Pubkey, acct *Account) error {
	return initializeRecord(program, acct, o)
}

// SanitizeOperator validates and deserializes an operator account.
func SanitizeOperator(program Pubkey, acct *Account, expectWritable bool) (*Validated[Operator], error) {
	return sanitizeRecord[Operator, *Operator](program, acct, expectWritable)
}

func (o *Operator) recordType() AccountType {
	return AccountTypeOperator
}

func (o *Operator) seeds() [][]byte {
	return OperatorSeeds(o.base)
}

func (o *Operator) recordBump() uint8 {
	return o.bump
}

func (o *Operator) marshal() []byte {
	w := newRecordWriter(operatorSize)
	w.writeType(AccountTypeOperator)
	w.writePubkey(o.admin)
	w.writePubkey(o.base)
	w.writePubkey(o.voter)
	w.writeU64(o.vaultCount)
	w.writeU64(o.avsCount)
	w.writeReserved(entityReservedLen)
	w.writeU8(o.bump)
	return w.bytes()
}

func (o *Operator) unmarshal(data []byte) error {
	r := newRecordReader(data)
	if err := r.readType(AccountTypeOperator); err != nil {
		return err
	}
	var err error
	if o.admin, err = r.readPubkey(); err != nil {
		return err
	}
	if o.base, err = r.readPubkey(); err != nil {
		return err
	}
	if o.voter, err = r.readPubkey(); err != nil {
		return err
	}
	if o.vaultCount, err = r.readU64(); err != nil {
		return err
	}
	if o.avsCount, err = r.readU64(); err != nil {
		return err
	}
	if err = r.skipReserved(entityReservedLen); err != nil {
		return err
	}
	if o.bump, err = r.readU8(); err != nil {
		return err
	}
	return nil
}
