package runtime

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/conr2d/restaking/internal/metric"
	"github.com/conr2d/restaking/pkg/core"
	"github.com/conr2d/restaking/pkg/restaking"
	"github.com/conr2d/restaking/pkg/store"
)

// Runtime is the execution environment the program runs under. Per
// operation it locks the named account set, loads a snapshot from the
// store, reads the slot once, dispatches the processor, and commits
// every writable account in one atomic batch. A failed operation
// commits nothing. Operations naming disjoint account sets run
// concurrently; overlapping sets serialize on the per-account locks.
type Runtime struct {
	program core.Pubkey
	store   store.AccountStore
	slots   SlotSource

	mu    sync.Mutex
	locks map[core.Pubkey]*sync.Mutex
}

func New(program core.Pubkey, accounts store.AccountStore, slots SlotSource) *Runtime {
	return &Runtime{
		program: program,
		store:   accounts,
		slots:   slots,
		locks:   make(map[core.Pubkey]*sync.Mutex),
	}
}

// Program returns the program identity operations execute under.
func (r *Runtime) Program() core.Pubkey {
	return r.program
}

// Store returns the backing account store for read-only queries.
func (r *Runtime) Store() store.AccountStore {
	return r.store
}

// Submit executes one operation end to end.
func (r *Runtime) Submit(ctx context.Context, op *restaking.Operation) error {
	start := time.Now()
	err := r.submit(ctx, op)
	metric.RecordOperationDuration(op.Kind.String(), time.Since(start))
	if err != nil {
		metric.RecordOperation(op.Kind.String(), "failed")
		return err
	}
	metric.RecordOperation(op.Kind.String(), "ok")
	return nil
}

func (r *Runtime) submit(ctx context.Context, op *restaking.Operation) error {
	if len(op.Accounts) == 0 {
		return fmt.Errorf("operation %s names no accounts", op.Kind)
	}

	unlock := r.lockAccounts(op.Accounts)
	defer unlock()

	accounts, err := r.loadAccounts(ctx, op.Accounts)
	if err != nil {
		return err
	}

	slot, err := r.slots.CurrentSlot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read current slot: %w", err)
	}

	if err := restaking.Process(r.program, accounts, slot, op); err != nil {
		log.Debug().Err(err).Stringer("kind", op.Kind).Uint64("slot", slot).Msg("operation rejected")
		return err
	}

	entries := make([]store.Entry, 0, len(accounts))
	written := make(map[core.Pubkey]bool, len(accounts))
	for _, acct := range accounts {
		if acct.Writable && !acct.IsEmpty() && !written[acct.Key] {
			written[acct.Key] = true
			entries = append(entries, store.Entry{Key: acct.Key, Owner: acct.Owner, Data: acct.Data})
		}
	}
	if err := r.store.PutBatch(ctx, entries); err != nil {
		return fmt.Errorf("failed to commit operation %s: %w", op.Kind, err)
	}

	log.Info().Stringer("kind", op.Kind).Uint64("slot", slot).Int("writes", len(entries)).Msg("operation committed")
	return nil
}

// lockAccounts acquires the per-account locks in address order so two
// overlapping operations cannot deadlock.
func (r *Runtime) lockAccounts(metas []restaking.AccountMeta) func() {
	keys := make([]core.Pubkey, 0, len(metas))
	seen := make(map[core.Pubkey]bool, len(metas))
	for _, meta := range metas {
		if !seen[meta.Key] {
			seen[meta.Key] = true
			keys = append(keys, meta.Key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	locked := make([]*sync.Mutex, 0, len(keys))
	for _, key := range keys {
		r.mu.Lock()
		lock, ok := r.locks[key]
		if !ok {
			lock = &sync.Mutex{}
			r.locks[key] = lock
		}
		r.mu.Unlock()
		lock.Lock()
		locked = append(locked, lock)
	}
	return func() {
		for i := len(locked) - 1; i >= 0; i-- {
			locked[i].Unlock()
		}
	}
}

// loadAccounts snapshots the named regions. Absent addresses become
// empty accounts for processors to claim. An address named more than
// once shares a single snapshot with the union of the requested flags.
func (r *Runtime) loadAccounts(ctx context.Context, metas []restaking.AccountMeta) ([]*core.Account, error) {
	accounts := make([]*core.Account, len(metas))
	byKey := make(map[core.Pubkey]*core.Account, len(metas))
	for i, meta := range metas {
		if acct, ok := byKey[meta.Key]; ok {
			acct.Writable = acct.Writable || meta.Writable
			acct.Signer = acct.Signer || meta.Signer
			accounts[i] = acct
			continue
		}
		entry, err := r.store.Get(ctx, meta.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to load account %s: %w", meta.Key, err)
		}
		acct := &core.Account{
			Key:      meta.Key,
			Owner:    core.ZeroPubkey,
			Writable: meta.Writable,
			Signer:   meta.Signer,
		}
		if entry != nil {
			acct.Owner = entry.Owner
			acct.Data = entry.Data
		}
		byKey[meta.Key] = acct
		accounts[i] = acct
	}
	return accounts, nil
}
