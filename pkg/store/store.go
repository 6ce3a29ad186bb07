package store

import (
	"context"

	"github.com/conr2d/restaking/pkg/core"
)

// Entry is one persisted account region: its address, owning program
// and serialized record bytes.
type Entry struct {
	Key   core.Pubkey
	Owner core.Pubkey
	Data  []byte
}

// AccountStore is the durable home of all program state. The runtime
// reads a snapshot of the accounts an operation names and commits the
// operation's writes through PutBatch; the atomicity of that batch is
// what makes operations all-or-nothing.
type AccountStore interface {
	// Get returns the stored account, or nil when the address holds
	// no record.
	Get(ctx context.Context, key core.Pubkey) (*Entry, error)

	// PutBatch persists all entries atomically: either every entry is
	// visible afterwards or none is.
	PutBatch(ctx context.Context, entries []Entry) error
}
