package core

import "errors"

// Validation and state-machine failures. Processors wrap these with
// context via fmt.Errorf("...: %w", err); callers match with errors.Is.
var (
	// ErrUninitializedRecord is returned when an account region is empty
	// where a record was expected.
	ErrUninitializedRecord = errors.New("record is not initialized")

	// ErrOwnershipMismatch is returned when an account is not owned by
	// this program.
	ErrOwnershipMismatch = errors.New("invalid record owner")

	// ErrTypeMismatch is returned when a record's stored type tag does
	// not match the reader's expected type.
	ErrTypeMismatch = errors.New("record type mismatch")

	// ErrAddressMismatch is returned when the address re-derived from a
	// record's stored seeds does not equal the account's physical
	// address. It signals tampering or caller error.
	ErrAddressMismatch = errors.New("record address mismatch")

	// ErrAuthorizationFailure is returned when the invoking signer is
	// not the admin stored on the parent entity.
	ErrAuthorizationFailure = errors.New("signer is not the admin")

	// ErrInvalidStateTransition is returned on add of an already-active
	// edge or remove of an inactive edge.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrCounterOverflow is returned when an edge counter would exceed
	// its representable range.
	ErrCounterOverflow = errors.New("counter overflow")

	// ErrAlreadyExists is returned by creation targeting an occupied
	// address.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrMissingSignature is returned when a required signer did not
	// sign the operation.
	ErrMissingSignature = errors.New("required signature missing")

	// ErrNotWritable is returned when a processor needs to mutate an
	// account the caller did not mark writable.
	ErrNotWritable = errors.New("record is not writable")

	// ErrCorruptRecord is returned when stored bytes are too short or
	// otherwise malformed for the expected layout.
	ErrCorruptRecord = errors.New("record data is malformed")

	// ErrInvalidSeeds is returned when a seed tuple plus disambiguation
	// byte does not produce a valid off-curve address.
	ErrInvalidSeeds = errors.New("seeds do not produce a valid record address")
)
