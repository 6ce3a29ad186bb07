package core

// A ticket is a directed edge between two (or three) entities. All five
// kinds share one shape: the endpoint identities, the ordinal index
// assigned from the parent's counter at creation, and a SlotToggle
// activation history. The slasher ticket additionally carries the
// maximum slashable amount agreed at creation.

const ticketReservedLen = 64

const (
	pairTicketSize    = 1 + 2*PubkeyLen + 8 + 16 + ticketReservedLen + 1
	slasherTicketSize = 1 + 3*PubkeyLen + 8 + 8 + 16 + ticketReservedLen + 1
)

// ticketData is the per-edge state shared by every ticket kind.
type ticketData struct {
	index uint64
	state SlotToggle
	bump  uint8
}

func (t *ticketData) Index() uint64 {
	return t.index
}

// State returns the activation history for mutation by processors.
func (t *ticketData) State() *SlotToggle {
	return &t.state
}

func (t *ticketData) Bump() uint8 {
	return t.bump
}

func marshalPairTicket(kind AccountType, a, b Pubkey, t *ticketData) []byte {
	w := newRecordWriter(pairTicketSize)
	w.writeType(kind)
	w.writePubkey(a)
	w.writePubkey(b)
	w.writeU64(t.index)
	t.state.encode(w)
	w.writeReserved(ticketReservedLen)
	w.writeU8(t.bump)
	return w.bytes()
}

func unmarshalPairTicket(kind AccountType, data []byte, a, b *Pubkey, t *ticketData) error {
	r := newRecordReader(data)
	if err := r.readType(kind); err != nil {
		return err
	}
	var err error
	if *a, err = r.readPubkey(); err != nil {
		return err
	}
	if *b, err = r.readPubkey(); err != nil {
		return err
	}
	if t.index, err = r.readU64(); err != nil {
		return err
	}
	if t.state, err = decodeSlotToggle(r); err != nil {
		return err
	}
	if err = r.skipReserved(ticketReservedLen); err != nil {
		return err
	}
	if t.bump, err = r.readU8(); err != nil {
		return err
	}
	return nil
}

// AvsVaultTicket records an AVS accepting a vault.
type AvsVaultTicket struct {
	avs   Pubkey
	vault Pubkey
	ticketData
}

// NewAvsVaultTicket returns a ticket active as of the given slot, with
// the ordinal index taken from the AVS's vault counter.
func NewAvsVaultTicket(avs, vault Pubkey, index, slot uint64, bump uint8) *AvsVaultTicket {
	return &AvsVaultTicket{
		avs:        avs,
		vault:      vault,
		ticketData: ticketData{index: index, state: NewSlotToggle(slot), bump: bump},
	}
}

func (t *AvsVaultTicket) Avs() Pubkey   { return t.avs }
func (t *AvsVaultTicket) Vault() Pubkey { return t.vault }

// AvsVaultTicketSeeds is the seed tuple of an AVS-vault ticket.
func AvsVaultTicketSeeds(avs, vault Pubkey) [][]byte {
	return [][]byte{[]byte("avs_vault"), avs.Bytes(), vault.Bytes()}
}

// FindAvsVaultTicketAddress derives the canonical ticket address.
func FindAvsVaultTicketAddress(program, avs, vault Pubkey) (Pubkey, uint8) {
	return FindRecordAddress(program, AvsVaultTicketSeeds(avs, vault)...)
}

// Initialize claims an empty region for this ticket.
func (t *AvsVaultTicket) Initialize(program Pubkey, acct *Account) error {
	return initializeRecord(program, acct, t)
}

// SanitizeAvsVaultTicket validates and deserializes the ticket account.
func SanitizeAvsVaultTicket(program Pubkey, acct *Account, expectWritable bool) (*Validated[AvsVaultTicket], error) {
	return sanitizeRecord[AvsVaultTicket, *AvsVaultTicket](program, acct, expectWritable)
}

func (t *AvsVaultTicket) recordType() AccountType { return AccountTypeAvsVaultTicket }
func (t *AvsVaultTicket) seeds() [][]byte         { return AvsVaultTicketSeeds(t.avs, t.vault) }
func (t *AvsVaultTicket) recordBump() uint8       { return t.bump }

func (t *AvsVaultTicket) marshal() []byte {
	return marshalPairTicket(AccountTypeAvsVaultTicket, t.avs, t.vault, &t.ticketData)
}

func (t *AvsVaultTicket) unmarshal(data []byte) error {
	return unmarshalPairTicket(AccountTypeAvsVaultTicket, data, &t.avs, &t.vault, &t.ticketData)
}

// AvsOperatorTicket records an AVS accepting an operator.
type AvsOperatorTicket struct {
	avs      Pubkey
	operator Pubkey
	ticketData
}

// NewAvsOperatorTicket returns a ticket active as of the given slot,
// with the ordinal index taken from the AVS's operator counter.
func NewAvsOperatorTicket(avs, operator Pubkey, index, slot uint64, bump uint8) *AvsOperatorTicket {
	return &AvsOperatorTicket{
		avs:        avs,
		operator:   operator,
		ticketData: ticketData{index: index, state: NewSlotToggle(slot), bump: bump},
	}
}

func (t *AvsOperatorTicket) Avs() Pubkey      { return t.avs }
func (t *AvsOperatorTicket) Operator() Pubkey { return t.operator }

// AvsOperatorTicketSeeds is the seed tuple of an AVS-operator ticket.
func AvsOperatorTicketSeeds(avs, operator Pubkey) [][]byte {
	return [][]byte{[]byte("avs_operator"), avs.Bytes(), operator.Bytes()}
}

// FindAvsOperatorTicketAddress derives the canonical ticket address.
func FindAvsOperatorTicketAddress(program, avs, operator Pubkey) (Pubkey, uint8) {
	return FindRecordAddress(program, AvsOperatorTicketSeeds(avs, operator)...)
}

// Initialize claims an empty region for this ticket.
func (t *AvsOperatorTicket) Initialize(program Pubkey, acct *Account) error {
	return initializeRecord(program, acct, t)
}

// SanitizeAvsOperatorTicket validates and deserializes the ticket account.
func SanitizeAvsOperatorTicket(program Pubkey, acct *Account, expectWritable bool) (*Validated[AvsOperatorTicket], error) {
	return sanitizeRecord[AvsOperatorTicket, *AvsOperatorTicket](program, acct, expectWritable)
}

func (t *AvsOperatorTicket) recordType() AccountType { return AccountTypeAvsOperatorTicket }
func (t *AvsOperatorTicket) seeds() [][]byte         { return AvsOperatorTicketSeeds(t.avs, t.operator) }
func (t *AvsOperatorTicket) recordBump() uint8       { return t.bump }

func (t *AvsOperatorTicket) marshal() []byte {
	return marshalPairTicket(AccountTypeAvsOperatorTicket, t.avs, t.operator, &t.ticketData)
}

func (t *AvsOperatorTicket) unmarshal(data []byte) error {
	return unmarshalPairTicket(AccountTypeAvsOperatorTicket, data, &t.avs, &t.operator, &t.ticketData)
}

// AvsVaultSlasherTicket records an AVS granting a slasher authority
// over one of its vaults, bounded by a maximum slashable amount.
type AvsVaultSlasherTicket struct {
	avs            Pubkey
	vault          Pubkey
	slasher        Pubkey
	maxSlashAmount uint64
	ticketData
}

// NewAvsVaultSlasherTicket returns a ticket active as of the given
// slot, with the ordinal index taken from the AVS's slasher counter.
// The slash bound is fixed at creation and survives remove/re-add.
func NewAvsVaultSlasherTicket(avs, vault, slasher Pubkey, maxSlashAmount, index, slot uint64, bump uint8) *AvsVaultSlasherTicket {
	return &AvsVaultSlasherTicket{
		avs:            avs,
		vault:          vault,
		slasher:        slasher,
		maxSlashAmount: maxSlashAmount,
		ticketData:     ticketData{index: index, state: NewSlotToggle(slot), bump: bump},
	}
}

func (t *AvsVaultSlasherTicket) Avs() Pubkey            { return t.avs }
func (t *AvsVaultSlasherTicket) Vault() Pubkey          { return t.vault }
func (t *AvsVaultSlasherTicket) Slasher() Pubkey        { return t.slasher }
func (t *AvsVaultSlasherTicket) MaxSlashAmount() uint64 { return t.maxSlashAmount }

// AvsVaultSlasherTicketSeeds is the seed tuple of a slasher ticket.
func AvsVaultSlasherTicketSeeds(avs, vault, slasher Pubkey) [][]byte {
	return [][]byte{[]byte("avs_vault_slasher"), avs.Bytes(), vault.Bytes(), slasher.Bytes()}
}

// FindAvsVaultSlasherTicketAddress derives the canonical ticket address.
func FindAvsVaultSlasherTicketAddress(program, avs, vault, slasher Pubkey) (Pubkey, uint8) {
	return FindRecordAddress(program, AvsVaultSlasherTicketSeeds(avs, vault, slasher)...)
}

// Initialize claims an empty region for this ticket.
func (t *AvsVaultSlasherTicket) Initialize(program Pubkey, acct *Account) error {
	return initializeRecord(program, acct, t)
}

// SanitizeAvsVaultSlasherTicket validates and deserializes the ticket account.
func SanitizeAvsVaultSlasherTicket(program Pubkey, acct *Account, expectWritable bool) (*Validated[AvsVaultSlasherTicket], error) {
	return sanitizeRecord[AvsVaultSlasherTicket, *AvsVaultSlasherTicket](program, acct, expectWritable)
}

func (t *AvsVaultSlasherTicket) recordType() AccountType { return AccountTypeAvsVaultSlasherTicket }
func (t *AvsVaultSlasherTicket) seeds() [][]byte {
	return AvsVaultSlasherTicketSeeds(t.avs, t.vault, t.slasher)
}
func (t *AvsVaultSlasherTicket) recordBump() uint8 { return t.bump }

func (t *AvsVaultSlasherTicket) marshal() []byte {
	w := newRecordWriter(slasherTicketSize)
	w.writeType(AccountTypeAvsVaultSlasherTicket)
	w.writePubkey(t.avs)
	w.writePubkey(t.vault)
	w.writePubkey(t.slasher)
	w.writeU64(t.maxSlashAmount)
	w.writeU64(t.index)
	t.state.encode(w)
	w.writeReserved(ticketReservedLen)
	w.writeU8(t.bump)
	return w.bytes()
}

func (t *AvsVaultSlasherTicket) unmarshal(data []byte) error {
	r := newRecordReader(data)
	if err := r.readType(AccountTypeAvsVaultSlasherTicket); err != nil {
		return err
	}
	var err error
	if t.avs, err = r.readPubkey(); err != nil {
		return err
	}
	if t.vault, err = r.readPubkey(); err != nil {
		return err
	}
	if t.slasher, err = r.readPubkey(); err != nil {
		return err
	}
	if t.maxSlashAmount, err = r.readU64(); err != nil {
		return err
	}
	if t.index, err = r.readU64(); err != nil {
		return err
	}
	if t.state, err = decodeSlotToggle(r); err != nil {
		return err
	}
	if err = r.skipReserved(ticketReservedLen); err != nil {
		return err
	}
	if t.bump, err = r.readU8(); err != nil {
		return err
	}
	return nil
}

// OperatorVaultTicket records an operator opting in to stake from a
// vault.
type OperatorVaultTicket struct {
	operator Pubkey
	vault    Pubkey
	ticketData
}

// NewOperatorVaultTicket returns a ticket active as of the given slot,
// with the ordinal index taken from the operator's vault counter.
func NewOperatorVaultTicket(operator, vault Pubkey, index, slot uint64, bump uint8) *OperatorVaultTicket {
	return &OperatorVaultTicket{
		operator:   operator,
		vault:      vault,
		ticketData: ticketData{index: index, state: NewSlotToggle(slot), bump: bump},
	}
}

func (t *OperatorVaultTicket) Operator() Pubkey { return t.operator }
func (t *OperatorVaultTicket) Vault() Pubkey    { return t.vault }

// OperatorVaultTicketSeeds is the seed tuple of an operator-vault ticket.
func OperatorVaultTicketSeeds(operator, vault Pubkey) [][]byte {
	return [][]byte{[]byte("operator_vault"), operator.Bytes(), vault.Bytes()}
}

// FindOperatorVaultTicketAddress derives the canonical ticket address.
func FindOperatorVaultTicketAddress(program, operator, vault Pubkey) (Pubkey, uint8) {
	return FindRecordAddress(program, OperatorVaultTicketSeeds(operator, vault)...)
}

// Initialize claims an empty region for this ticket.
func (t *OperatorVaultTicket) Initialize(program Pubkey, acct *Account) error {
	return initializeRecord(program, acct, t)
}

// SanitizeOperatorVaultTicket validates and deserializes the ticket account.
func SanitizeOperatorVaultTicket(program Pubkey, acct *Account, expectWritable bool) (*Validated[OperatorVaultTicket], error) {
	return sanitizeRecord[OperatorVaultTicket, *OperatorVaultTicket](program, acct, expectWritable)
}

func (t *OperatorVaultTicket) recordType() AccountType { return AccountTypeOperatorVaultTicket }
func (t *OperatorVaultTicket) seeds() [][]byte {
	return OperatorVaultTicketSeeds(t.operator, t.vault)
}
func (t *OperatorVaultTicket) recordBump() uint8 { return t.bump }

func (t *OperatorVaultTicket) marshal() []byte {
	return marshalPairTicket(AccountTypeOperatorVaultTicket, t.operator, t.vault, &t.ticketData)
}

func (t *OperatorVaultTicket) unmarshal(data []byte) error {
	return unmarshalPairTicket(AccountTypeOperatorVaultTicket, data, &t.operator, &t.vault, &t.ticketData)
}

// OperatorAvsTicket records an operator opting in to service an AVS.
type OperatorAvsTicket struct {
	operator Pubkey
	avs      Pubkey
	ticketData
}

// NewOperatorAvsTicket returns a ticket active as of the given slot,
// with the ordinal index taken from the operator's AVS counter.
func NewOperatorAvsTicket(operator, avs Pubkey, index, slot uint64, bump uint8) *OperatorAvsTicket {
	return &OperatorAvsTicket{
		operator:   operator,
		avs:        avs,
		ticketData: ticketData{index: index, state: NewSlotToggle(slot), bump: bump},
	}
}

func (t *OperatorAvsTicket) Operator() Pubkey { return t.operator }
func (t *OperatorAvsTicket) Avs() Pubkey      { return t.avs }

// OperatorAvsTicketSeeds is the seed tuple of an operator-AVS ticket.
func OperatorAvsTicketSeeds(operator, avs Pubkey) [][]byte {
	return [][]byte{[]byte("operator_avs"), operator.Bytes(), avs.Bytes()}
}

// FindOperatorAvsTicketAddress derives the canonical ticket address.
func FindOperatorAvsTicketAddress(program, operator, avs Pubkey) (Pubkey, uint8) {
	return FindRecordAddress(program, OperatorAvsTicketSeeds(operator, avs)...)
}

// Initialize claims an empty region for this ticket.
func (t *OperatorAvsTicket) Initialize(program Pubkey, acct *Account) error {
	return initializeRecord(program, acct, t)
}

// SanitizeOperatorAvsTicket validates and deserializes the ticket account.
func SanitizeOperatorAvsTicket(program Pubkey, acct *Account, expectWritable bool) (*Validated[OperatorAvsTicket], error) {
	return sanitizeRecord[OperatorAvsTicket, *OperatorAvsTicket](program, acct, expectWritable)
}

func (t *OperatorAvsTicket) recordType() AccountType { return AccountTypeOperatorAvsTicket }
func (t *OperatorAvsTicket) seeds() [][]byte         { return OperatorAvsTicketSeeds(t.operator, t.avs) }
func (t *OperatorAvsTicket) recordBump() uint8       { return t.bump }

func (t *OperatorAvsTicket) marshal() []byte {
	return marshalPairTicket(AccountTypeOperatorAvsTicket, t.operator, t.avs, &t.ticketData)
}

func (t *OperatorAvsTicket) unmarshal(data []byte) error {
	return unmarshalPairTicket(AccountTypeOperatorAvsTicket, data, &t.operator, &t.avs, &t.ticketData)
}
