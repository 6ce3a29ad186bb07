package restaking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conr2d/restaking/pkg/client"
	"github.com/conr2d/restaking/pkg/core"
	"github.com/conr2d/restaking/pkg/restaking"
)

func pk(b byte) core.Pubkey {
	return core.Pubkey{0: b}
}

type stored struct {
	owner core.Pubkey
	data  []byte
}

// env executes operations against an in-memory account map the way the
// runtime does: snapshot per operation, commit writable accounts only
// when the processor succeeds.
type env struct {
	t       *testing.T
	program core.Pubkey
	builder *client.Builder
	state   map[core.Pubkey]stored
	slot    uint64
}

func newEnv(t *testing.T) *env {
	program := pk(1)
	return &env{
		t:       t,
		program: program,
		builder: client.New(program),
		state:   make(map[core.Pubkey]stored),
		slot:    100,
	}
}

func (e *env) exec(op *restaking.Operation) error {
	accounts := make([]*core.Account, len(op.Accounts))
	byKey := make(map[core.Pubkey]*core.Account, len(op.Accounts))
	for i, m := range op.Accounts {
		if a, ok := byKey[m.Key]; ok {
			a.Writable = a.Writable || m.Writable
			a.Signer = a.Signer || m.Signer
			accounts[i] = a
			continue
		}
		a := &core.Account{Key: m.Key, Owner: core.ZeroPubkey, Writable: m.Writable, Signer: m.Signer}
		if st, ok := e.state[m.Key]; ok {
			a.Owner = st.owner
			a.Data = append([]byte(nil), st.data...)
		}
		byKey[m.Key] = a
		accounts[i] = a
	}

	if err := restaking.Process(e.program, accounts, e.slot, op); err != nil {
		return err
	}

	for _, a := range accounts {
		if a.Writable && !a.IsEmpty() {
			e.state[a.Key] = stored{owner: a.Owner, data: append([]byte(nil), a.Data...)}
		}
	}
	return nil
}

func (e *env) mustExec(op *restaking.Operation) {
	e.t.Helper()
	require.NoError(e.t, e.exec(op))
}

func (e *env) snapshot(addr core.Pubkey) *core.Account {
	a := &core.Account{Key: addr, Owner: core.ZeroPubkey}
	if st, ok := e.state[addr]; ok {
		a.Owner = st.owner
		a.Data = append([]byte(nil), st.data...)
	}
	return a
}

func (e *env) avs(base core.Pubkey) *core.Avs {
	e.t.Helper()
	v, err := core.SanitizeAvs(e.program, e.snapshot(e.builder.AvsAddress(base)), false)
	require.NoError(e.t, err)
	return v.Record()
}

func (e *env) operator(base core.Pubkey) *core.Operator {
	e.t.Helper()
	v, err := core.SanitizeOperator(e.program, e.snapshot(e.builder.OperatorAddress(base)), false)
	require.NoError(e.t, err)
	return v.Record()
}

func (e *env) avsVaultTicket(avs, vault core.Pubkey) *core.AvsVaultTicket {
	e.t.Helper()
	addr, _ := core.FindAvsVaultTicketAddress(e.program, avs, vault)
	v, err := core.SanitizeAvsVaultTicket(e.program, e.snapshot(addr), false)
	require.NoError(e.t, err)
	return v.Record()
}

func (e *env) slasherTicket(avs, vault, slasher core.Pubkey) *core.AvsVaultSlasherTicket {
	e.t.Helper()
	addr, _ := core.FindAvsVaultSlasherTicketAddress(e.program, avs, vault, slasher)
	v, err := core.SanitizeAvsVaultSlasherTicket(e.program, e.snapshot(addr), false)
	require.NoError(e.t, err)
	return v.Record()
}

// setup creates config, one AVS and one operator with distinct admins.
func (e *env) setup(configAdmin, avsAdmin, avsBase, opAdmin, opBase core.Pubkey) (avsAddr, opAddr core.Pubkey) {
	e.t.Helper()
	e.mustExec(e.builder.InitializeConfig(configAdmin, pk(200)))
	e.mustExec(e.builder.InitializeAvs(avsAdmin, avsBase))
	e.mustExec(e.builder.InitializeOperator(opAdmin, opBase))
	return e.builder.AvsAddress(avsBase), e.builder.OperatorAddress(opBase)
}

func TestInitializeConfig(t *testing.T) {
	e := newEnv(t)
	admin := pk(2)

	e.mustExec(e.builder.InitializeConfig(admin, pk(200)))

	v, err := core.SanitizeConfig(e.program, e.snapshot(e.builder.ConfigAddress()), false)
	require.NoError(t, err)
	assert.Equal(t, admin, v.Record().Admin())
	assert.Equal(t, pk(200), v.Record().VaultProgram())

	// A second initialization must fail.
	err = e.exec(e.builder.InitializeConfig(pk(3), pk(200)))
	assert.ErrorIs(t, err, core.ErrAlreadyExists)
}

func TestInitializeConfigRequiresAdminSignature(t *testing.T) {
	e := newEnv(t)
	op := e.builder.InitializeConfig(pk(2), pk(200))
	op.Accounts[1].Signer = false

	err := e.exec(op)
	assert.ErrorIs(t, err, core.ErrMissingSignature)

	// Nothing was created.
	assert.Empty(t, e.state)
}

func TestInitializeEntities(t *testing.T) {
	e := newEnv(t)
	avsAddr, opAddr := e.setup(pk(2), pk(3), pk(4), pk(5), pk(6))

	avs := e.avs(pk(4))
	assert.Equal(t, pk(3), avs.Admin())
	assert.Equal(t, pk(4), avs.Base())

	operator := e.operator(pk(6))
	assert.Equal(t, pk(5), operator.Admin())
	// A fresh operator votes with its admin key.
	assert.Equal(t, pk(5), operator.Voter())

	assert.NotEqual(t, avsAddr, opAddr)
}

func TestInitializeAvsRequiresBaseSignature(t *testing.T) {
	e := newEnv(t)
	e.mustExec(e.builder.InitializeConfig(pk(2), pk(200)))

	op := e.builder.InitializeAvs(pk(3), pk(4))
	op.Accounts[3].Signer = false
	err := e.exec(op)
	assert.ErrorIs(t, err, core.ErrMissingSignature)
}

func TestInitializeAvsRequiresConfig(t *testing.T) {
	e := newEnv(t)
	err := e.exec(e.builder.InitializeAvs(pk(3), pk(4)))
	assert.ErrorIs(t, err, core.ErrUninitializedRecord)
}

func TestAvsAddVaultAssignsDenseIndexes(t *testing.T) {
	e := newEnv(t)
	avsAdmin := pk(3)
	avsAddr, _ := e.setup(pk(2), avsAdmin, pk(4), pk(5), pk(6))
	payer := pk(7)

	vault1 := pk(30)
	vault2 := pk(31)
	e.mustExec(e.builder.AvsAddVault(avsAddr, vault1, avsAdmin, payer))
	e.mustExec(e.builder.AvsAddVault(avsAddr, vault2, avsAdmin, payer))

	assert.Equal(t, uint64(0), e.avsVaultTicket(avsAddr, vault1).Index())
	assert.Equal(t, uint64(1), e.avsVaultTicket(avsAddr, vault2).Index())
	assert.Equal(t, uint64(2), e.avs(pk(4)).VaultCount())
}

func TestAvsAddVaultTwiceFails(t *testing.T) {
	e := newEnv(t)
	avsAdmin := pk(3)
	avsAddr, _ := e.setup(pk(2), avsAdmin, pk(4), pk(5), pk(6))
	vault := pk(30)

	e.mustExec(e.builder.AvsAddVault(avsAddr, vault, avsAdmin, pk(7)))
	err := e.exec(e.builder.AvsAddVault(avsAddr, vault, avsAdmin, pk(7)))
	assert.ErrorIs(t, err, core.ErrInvalidStateTransition)

	// Counter untouched by the failed re-add.
	assert.Equal(t, uint64(1), e.avs(pk(4)).VaultCount())
}

func TestAvsRemoveAndReAddVaultKeepsIndex(t *testing.T) {
	e := newEnv(t)
	avsAdmin := pk(3)
	avsAddr, _ := e.setup(pk(2), avsAdmin, pk(4), pk(5), pk(6))
	vault := pk(30)

	e.mustExec(e.builder.AvsAddVault(avsAddr, vault, avsAdmin, pk(7)))
	e.slot = 150
	e.mustExec(e.builder.AvsRemoveVault(avsAddr, vault, avsAdmin))

	ticket := e.avsVaultTicket(avsAddr, vault)
	assert.False(t, ticket.State().IsActive())
	assert.Equal(t, uint64(150), ticket.State().SlotRemoved())

	e.slot = 200
	e.mustExec(e.builder.AvsAddVault(avsAddr, vault, avsAdmin, pk(7)))

	ticket = e.avsVaultTicket(avsAddr, vault)
	assert.True(t, ticket.State().IsActive())
	assert.Equal(t, uint64(200), ticket.State().SlotAdded())
	// The ordinal index survives the remove/re-add cycle and the
	// counter is not incremented again.
	assert.Equal(t, uint64(0), ticket.Index())
	assert.Equal(t, uint64(1), e.avs(pk(4)).VaultCount())
}

func TestAvsRemoveVaultNeverAdded(t *testing.T) {
	e := newEnv(t)
	avsAdmin := pk(3)
	avsAddr, _ := e.setup(pk(2), avsAdmin, pk(4), pk(5), pk(6))

	err := e.exec(e.builder.AvsRemoveVault(avsAddr, pk(30), avsAdmin))
	assert.ErrorIs(t, err, core.ErrUninitializedRecord)
}

func TestAvsAddVaultRejectsWrongAdmin(t *testing.T) {
	e := newEnv(t)
	avsAddr, _ := e.setup(pk(2), pk(3), pk(4), pk(5), pk(6))

	err := e.exec(e.builder.AvsAddVault(avsAddr, pk(30), pk(99), pk(7)))
	assert.ErrorIs(t, err, core.ErrAuthorizationFailure)

	// The failed operation left no trace.
	assert.Equal(t, uint64(0), e.avs(pk(4)).VaultCount())
	addr, _ := core.FindAvsVaultTicketAddress(e.program, avsAddr, pk(30))
	assert.True(t, e.snapshot(addr).IsEmpty())
}

func TestAvsAddVaultRequiresPayerOnCreation(t *testing.T) {
	e := newEnv(t)
	avsAdmin := pk(3)
	avsAddr, _ := e.setup(pk(2), avsAdmin, pk(4), pk(5), pk(6))

	op := e.builder.AvsAddVault(avsAddr, pk(30), avsAdmin, pk(7))
	op.Accounts[5].Signer = false
	err := e.exec(op)
	assert.ErrorIs(t, err, core.ErrMissingSignature)

	// Re-activation of an existing ticket needs no payer signature.
	e.mustExec(e.builder.AvsAddVault(avsAddr, pk(30), avsAdmin, pk(7)))
	e.slot = 150
	e.mustExec(e.builder.AvsRemoveVault(avsAddr, pk(30), avsAdmin))
	e.slot = 200
	readd := e.builder.AvsAddVault(avsAddr, pk(30), avsAdmin, pk(7))
	readd.Accounts[5].Signer = false
	require.NoError(t, e.exec(readd))
}

func TestOperatorAvsHandshake(t *testing.T) {
	e := newEnv(t)
	avsAdmin := pk(3)
	opAdmin := pk(5)
	avsAddr, opAddr := e.setup(pk(2), avsAdmin, pk(4), opAdmin, pk(6))
	payer := pk(7)

	// The AVS cannot accept an operator that has not opted in.
	err := e.exec(e.builder.AvsAddOperator(avsAddr, opAddr, avsAdmin, payer))
	assert.ErrorIs(t, err, core.ErrUninitializedRecord)

	// Operator opts in first.
	e.mustExec(e.builder.OperatorAddAvs(opAddr, avsAddr, opAdmin, payer))
	assert.Equal(t, uint64(1), e.operator(pk(6)).AvsCount())

	// Now the AVS side succeeds.
	e.mustExec(e.builder.AvsAddOperator(avsAddr, opAddr, avsAdmin, payer))
	assert.Equal(t, uint64(1), e.avs(pk(4)).OperatorCount())
}

func TestAvsAddOperatorRejectsWithdrawnOperator(t *testing.T) {
	e := newEnv(t)
	avsAdmin := pk(3)
	opAdmin := pk(5)
	avsAddr, opAddr := e.setup(pk(2), avsAdmin, pk(4), opAdmin, pk(6))
	payer := pk(7)

	e.mustExec(e.builder.OperatorAddAvs(opAddr, avsAddr, opAdmin, payer))
	e.slot = 150
	e.mustExec(e.builder.OperatorRemoveAvs(opAddr, avsAddr, opAdmin))

	// The operator's half is no longer active.
	err := e.exec(e.builder.AvsAddOperator(avsAddr, opAddr, avsAdmin, payer))
	assert.ErrorIs(t, err, core.ErrInvalidStateTransition)
	assert.Equal(t, uint64(0), e.avs(pk(4)).OperatorCount())
}

func TestVaultSlasherRequiresActiveVaultEdge(t *testing.T) {
	e := newEnv(t)
	avsAdmin := pk(3)
	avsAddr, _ := e.setup(pk(2), avsAdmin, pk(4), pk(5), pk(6))
	vault := pk(30)
	slasher := pk(40)
	payer := pk(7)

	// No AVS-vault ticket at all.
	err := e.exec(e.builder.AvsAddVaultSlasher(avsAddr, vault, slasher, avsAdmin, payer, 1000))
	assert.ErrorIs(t, err, core.ErrUninitializedRecord)

	e.mustExec(e.builder.AvsAddVault(avsAddr, vault, avsAdmin, payer))
	e.slot = 150
	e.mustExec(e.builder.AvsRemoveVault(avsAddr, vault, avsAdmin))

	// Ticket exists but is inactive.
	err = e.exec(e.builder.AvsAddVaultSlasher(avsAddr, vault, slasher, avsAdmin, payer, 1000))
	assert.ErrorIs(t, err, core.ErrInvalidStateTransition)

	e.slot = 200
	e.mustExec(e.builder.AvsAddVault(avsAddr, vault, avsAdmin, payer))
	e.mustExec(e.builder.AvsAddVaultSlasher(avsAddr, vault, slasher, avsAdmin, payer, 1000))

	ticket := e.slasherTicket(avsAddr, vault, slasher)
	assert.Equal(t, uint64(1000), ticket.MaxSlashAmount())
	assert.Equal(t, uint64(0), ticket.Index())
	assert.Equal(t, uint64(1), e.avs(pk(4)).SlasherCount())
}

func TestVaultSlasherBoundIsImmutable(t *testing.T) {
	e := newEnv(t)
	avsAdmin := pk(3)
	avsAddr, _ := e.setup(pk(2), avsAdmin, pk(4), pk(5), pk(6))
	vault := pk(30)
	slasher := pk(40)
	payer := pk(7)

	e.mustExec(e.builder.AvsAddVault(avsAddr, vault, avsAdmin, payer))
	e.mustExec(e.builder.AvsAddVaultSlasher(avsAddr, vault, slasher, avsAdmin, payer, 1000))
	e.slot = 150
	e.mustExec(e.builder.AvsRemoveVaultSlasher(avsAddr, vault, slasher, avsAdmin))

	// Re-adding with a different bound keeps the original.
	e.slot = 200
	e.mustExec(e.builder.AvsAddVaultSlasher(avsAddr, vault, slasher, avsAdmin, payer, 9999))

	ticket := e.slasherTicket(avsAddr, vault, slasher)
	assert.Equal(t, uint64(1000), ticket.MaxSlashAmount())
	assert.True(t, ticket.State().IsActive())
	assert.Equal(t, uint64(1), e.avs(pk(4)).SlasherCount())
}

func TestOperatorVaultLifecycle(t *testing.T) {
	e := newEnv(t)
	opAdmin := pk(5)
	_, opAddr := e.setup(pk(2), pk(3), pk(4), opAdmin, pk(6))
	vault := pk(30)
	payer := pk(7)

	e.mustExec(e.builder.OperatorAddVault(opAddr, vault, opAdmin, payer))
	assert.Equal(t, uint64(1), e.operator(pk(6)).VaultCount())

	e.slot = 150
	e.mustExec(e.builder.OperatorRemoveVault(opAddr, vault, opAdmin))
	e.slot = 200
	e.mustExec(e.builder.OperatorAddVault(opAddr, vault, opAdmin, payer))

	addr, _ := core.FindOperatorVaultTicketAddress(e.program, opAddr, vault)
	v, err := core.SanitizeOperatorVaultTicket(e.program, e.snapshot(addr), false)
	require.NoError(t, err)
	assert.True(t, v.Record().State().IsActive())
	assert.Equal(t, uint64(0), v.Record().Index())
	assert.Equal(t, uint64(1), e.operator(pk(6)).VaultCount())
}

func TestOperatorAddAvsRequiresAvsRecord(t *testing.T) {
	e := newEnv(t)
	opAdmin := pk(5)
	_, opAddr := e.setup(pk(2), pk(3), pk(4), opAdmin, pk(6))

	// The named AVS account holds no record.
	err := e.exec(e.builder.OperatorAddAvs(opAddr, pk(99), opAdmin, pk(7)))
	assert.ErrorIs(t, err, core.ErrUninitializedRecord)
}

func TestOperationDigestCoversAccounts(t *testing.T) {
	e := newEnv(t)
	op1 := e.builder.InitializeConfig(pk(2), pk(200))
	op2 := e.builder.InitializeConfig(pk(3), pk(200))
	assert.NotEqual(t, op1.Digest(), op2.Digest())

	// Flipping a flag changes the digest too.
	op3 := e.builder.InitializeConfig(pk(2), pk(200))
	op3.Accounts[1].Signer = false
	assert.NotEqual(t, op1.Digest(), op3.Digest())
}
