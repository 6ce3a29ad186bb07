package core

import "fmt"

// AccountType is the one-byte tag at the start of every record.
type AccountType uint8

const (
	AccountTypeConfig AccountType = iota
	AccountTypeAvs
	AccountTypeOperator
	AccountTypeAvsVaultTicket
	AccountTypeAvsOperatorTicket
	AccountTypeAvsVaultSlasherTicket
	AccountTypeOperatorVaultTicket
	AccountTypeOperatorAvsTicket
)

func (t AccountType) String() string {
	switch t {
	case AccountTypeConfig:
		return "config"
	case AccountTypeAvs:
		return "avs"
	case AccountTypeOperator:
		return "operator"
	case AccountTypeAvsVaultTicket:
		return "avs_vault_ticket"
	case AccountTypeAvsOperatorTicket:
		return "avs_operator_ticket"
	case AccountTypeAvsVaultSlasherTicket:
		return "avs_vault_slasher_ticket"
	case AccountTypeOperatorVaultTicket:
		return "operator_vault_ticket"
	case AccountTypeOperatorAvsTicket:
		return "operator_avs_ticket"
	default:
		return "unknown"
	}
}

// Account is one storage region as seen by a single operation: a
// snapshot of the persisted bytes plus the caller's invocation flags.
// Mutations touch only the in-memory copy; the runtime commits writable
// accounts back to the store when the whole operation succeeds.
type Account struct {
	// Key is the physical address the region was read from.
	Key Pubkey

	// Owner is the program identity that owns the region. Empty
	// regions are owned by ZeroPubkey until a processor claims them.
	Owner Pubkey

	Data []byte

	// Writable marks regions the caller asked to mutate.
	Writable bool

	// Signer marks identities that signed the operation.
	Signer bool
}

// IsEmpty reports whether the region holds no record yet.
func (a *Account) IsEmpty() bool {
	return len(a.Data) == 0
}

// SanitizeSigner returns the account if it signed the operation.
func SanitizeSigner(a *Account) (*Account, error) {
	if !a.Signer {
		return nil, fmt.Errorf("account %s: %w", a.Key, ErrMissingSignature)
	}
	return a, nil
}

// SanitizePayer returns the account if it can fund record creation:
// it must have signed and be writable.
func SanitizePayer(a *Account) (*Account, error) {
	if _, err := SanitizeSigner(a); err != nil {
		return nil, err
	}
	if !a.Writable {
		return nil, fmt.Errorf("payer %s: %w", a.Key, ErrNotWritable)
	}
	return a, nil
}
