package core

import "fmt"

// record is the contract every persisted record type fulfills. The
// seed tuple must be reconstructible from stored fields alone so that
// validation can re-derive the address without trusting the caller.
type record interface {
	recordType() AccountType
	seeds() [][]byte
	recordBump() uint8
	marshal() []byte
	unmarshal(data []byte) error
}

// rec ties a record implementation to its pointer type for generic
// sanitization.
type rec[T any] interface {
	*T
	record
}

// Validated is an exclusive, type-checked view of one record. Mutating
// the record has no effect on persisted state until Save is called.
type Validated[T any] struct {
	account *Account
	typed   *T
	impl    record
}

// sanitizeRecord runs the full checked-access protocol: the region must
// be initialized, owned by this program, tagged with the expected type,
// re-derive to its physical address from its own stored seeds and
// disambiguation byte, and be writable when the caller intends to
// mutate it.
func sanitizeRecord[T any, PT rec[T]](program Pubkey, acct *Account, expectWritable bool) (*Validated[T], error) {
	kind := PT(new(T)).recordType()
	if acct.IsEmpty() {
		return nil, fmt.Errorf("%s account %s: %w", kind, acct.Key, ErrUninitializedRecord)
	}
	if acct.Owner != program {
		return nil, fmt.Errorf("%s account %s owned by %s: %w", kind, acct.Key, acct.Owner, ErrOwnershipMismatch)
	}

	typed := new(T)
	impl := PT(typed)
	if err := impl.unmarshal(acct.Data); err != nil {
		return nil, fmt.Errorf("%s account %s: %w", kind, acct.Key, err)
	}

	expected, err := CreateRecordAddress(program, impl.seeds(), impl.recordBump())
	if err != nil {
		return nil, fmt.Errorf("%s account %s: %w", kind, acct.Key, ErrAddressMismatch)
	}
	if expected != acct.Key {
		return nil, fmt.Errorf("%s account %s, derived %s: %w", kind, acct.Key, expected, ErrAddressMismatch)
	}

	if expectWritable && !acct.Writable {
		return nil, fmt.Errorf("%s account %s: %w", kind, acct.Key, ErrNotWritable)
	}

	return &Validated[T]{account: acct, typed: typed, impl: impl}, nil
}

// Record returns the typed in-memory copy.
func (v *Validated[T]) Record() *T {
	return v.typed
}

// Account returns the underlying storage region.
func (v *Validated[T]) Account() *Account {
	return v.account
}

// Save re-serializes the record back into its region. Callers that
// sanitized read-only cannot save.
func (v *Validated[T]) Save() error {
	if !v.account.Writable {
		return fmt.Errorf("account %s: %w", v.account.Key, ErrNotWritable)
	}
	v.account.Data = v.impl.marshal()
	return nil
}

// initializeRecord claims an empty region for the program and writes
// the record's first serialization. The region's physical address must
// match the address derived from the record's seeds, and creation on
// an occupied region fails.
func initializeRecord(program Pubkey, acct *Account, r record) error {
	if !acct.IsEmpty() {
		return fmt.Errorf("%s account %s: %w", r.recordType(), acct.Key, ErrAlreadyExists)
	}
	if !acct.Writable {
		return fmt.Errorf("%s account %s: %w", r.recordType(), acct.Key, ErrNotWritable)
	}
	expected, err := CreateRecordAddress(program, r.seeds(), r.recordBump())
	if err != nil {
		return fmt.Errorf("%s account %s: %w", r.recordType(), acct.Key, ErrAddressMismatch)
	}
	if expected != acct.Key {
		return fmt.Errorf("%s account %s, derived %s: %w", r.recordType(), acct.Key, expected, ErrAddressMismatch)
	}
	acct.Owner = program
	acct.Data = r.marshal()
	return nil
}
