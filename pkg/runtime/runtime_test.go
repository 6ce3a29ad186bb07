package runtime_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conr2d/restaking/pkg/client"
	"github.com/conr2d/restaking/pkg/core"
	"github.com/conr2d/restaking/pkg/restaking"
	"github.com/conr2d/restaking/pkg/runtime"
	"github.com/conr2d/restaking/pkg/store"
)

func pk(b byte) core.Pubkey {
	return core.Pubkey{0: b}
}

func newRuntime() (*runtime.Runtime, *client.Builder, *runtime.ManualSlots, *store.MemStore) {
	program := pk(1)
	slots := runtime.NewManualSlots(100)
	mem := store.NewMemStore()
	return runtime.New(program, mem, slots), client.New(program), slots, mem
}

func TestSubmitCommitsOnSuccess(t *testing.T) {
	rt, builder, _, mem := newRuntime()
	ctx := context.Background()

	require.NoError(t, rt.Submit(ctx, builder.InitializeConfig(pk(2), pk(200))))

	entry, err := mem.Get(ctx, builder.ConfigAddress())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, rt.Program(), entry.Owner)

	v, err := core.SanitizeConfig(rt.Program(), &core.Account{
		Key: entry.Key, Owner: entry.Owner, Data: entry.Data,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, pk(2), v.Record().Admin())
}

func TestSubmitCommitsNothingOnFailure(t *testing.T) {
	rt, builder, _, mem := newRuntime()
	ctx := context.Background()

	require.NoError(t, rt.Submit(ctx, builder.InitializeConfig(pk(2), pk(200))))
	require.NoError(t, rt.Submit(ctx, builder.InitializeAvs(pk(3), pk(4))))

	// Wrong admin: the operation fails and the graph is untouched.
	op := builder.AvsAddVault(builder.AvsAddress(pk(4)), pk(30), pk(99), pk(7))
	err := rt.Submit(ctx, op)
	assert.ErrorIs(t, err, core.ErrAuthorizationFailure)

	ticketAddr := op.Accounts[3].Key
	entry, err := mem.Get(ctx, ticketAddr)
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestSubmitReadsSlotSource(t *testing.T) {
	rt, builder, slots, mem := newRuntime()
	ctx := context.Background()
	avsAdmin := pk(3)

	require.NoError(t, rt.Submit(ctx, builder.InitializeConfig(pk(2), pk(200))))
	require.NoError(t, rt.Submit(ctx, builder.InitializeAvs(avsAdmin, pk(4))))

	slots.Advance(50) // now at 150
	avsAddr := builder.AvsAddress(pk(4))
	require.NoError(t, rt.Submit(ctx, builder.AvsAddVault(avsAddr, pk(30), avsAdmin, pk(7))))

	ticketAddr := builder.AvsAddVault(avsAddr, pk(30), avsAdmin, pk(7)).Accounts[3].Key
	entry, err := mem.Get(ctx, ticketAddr)
	require.NoError(t, err)
	require.NotNil(t, entry)
	v, err := core.SanitizeAvsVaultTicket(rt.Program(), &core.Account{
		Key: entry.Key, Owner: entry.Owner, Data: entry.Data,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), v.Record().State().SlotAdded())
}

func TestSubmitRejectsEmptyAccountList(t *testing.T) {
	rt, _, _, _ := newRuntime()
	err := rt.Submit(context.Background(), &restaking.Operation{Kind: restaking.OpInitializeConfig})
	assert.Error(t, err)
}

func TestConcurrentSubmitsOnDisjointAccounts(t *testing.T) {
	rt, builder, _, _ := newRuntime()
	ctx := context.Background()
	avsAdmin := pk(3)

	require.NoError(t, rt.Submit(ctx, builder.InitializeConfig(pk(2), pk(200))))
	require.NoError(t, rt.Submit(ctx, builder.InitializeAvs(avsAdmin, pk(4))))
	avsAddr := builder.AvsAddress(pk(4))

	// Concurrent adds against the same AVS serialize on its lock; all
	// must land with dense distinct indexes.
	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			vault := core.Pubkey{0: 30, 1: byte(i)}
			errs[i] = rt.Submit(ctx, builder.AvsAddVault(avsAddr, vault, avsAdmin, pk(7)))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "submit %d", i)
	}

	entry, err := rt.Store().Get(ctx, avsAddr)
	require.NoError(t, err)
	v, err := core.SanitizeAvs(rt.Program(), &core.Account{
		Key: entry.Key, Owner: entry.Owner, Data: entry.Data,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), v.Record().VaultCount())

	seen := make(map[uint64]bool)
	for i := 0; i < 16; i++ {
		vault := core.Pubkey{0: 30, 1: byte(i)}
		addr, _ := core.FindAvsVaultTicketAddress(rt.Program(), avsAddr, vault)
		te, err := rt.Store().Get(ctx, addr)
		require.NoError(t, err)
		tv, err := core.SanitizeAvsVaultTicket(rt.Program(), &core.Account{
			Key: te.Key, Owner: te.Owner, Data: te.Data,
		}, false)
		require.NoError(t, err)
		idx := tv.Record().Index()
		assert.False(t, seen[idx], "index %d assigned twice", idx)
		seen[idx] = true
		assert.Less(t, idx, uint64(16))
	}
}

func TestManualSlots(t *testing.T) {
	slots := runtime.NewManualSlots(5)
	got, err := slots.CurrentSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got)

	assert.Equal(t, uint64(8), slots.Advance(3))
	got, err = slots.CurrentSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(8), got)
}
