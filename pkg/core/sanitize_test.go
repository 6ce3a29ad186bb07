package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conr2d/restaking/pkg/core"
)

func newAvsAccount(t *testing.T, program, admin, base core.Pubkey) *core.Account {
	t.Helper()
	addr, bump := core.FindAvsAddress(program, base)
	acct := &core.Account{Key: addr, Owner: core.ZeroPubkey, Writable: true}
	require.NoError(t, core.NewAvs(admin, base, bump).Initialize(program, acct))
	return acct
}

func TestInitializeAndSanitizeRoundtrip(t *testing.T) {
	program := pk(1)
	admin := pk(2)
	base := pk(3)

	acct := newAvsAccount(t, program, admin, base)
	assert.Equal(t, program, acct.Owner)

	validated, err := core.SanitizeAvs(program, acct, false)
	require.NoError(t, err)
	avs := validated.Record()
	assert.Equal(t, admin, avs.Admin())
	assert.Equal(t, base, avs.Base())
	assert.Zero(t, avs.VaultCount())
	assert.Zero(t, avs.OperatorCount())
	assert.Zero(t, avs.SlasherCount())
}

func TestInitializeRejectsOccupiedAccount(t *testing.T) {
	program := pk(1)
	base := pk(3)

	acct := newAvsAccount(t, program, pk(2), base)
	_, bump := core.FindAvsAddress(program, base)
	err := core.NewAvs(pk(4), base, bump).Initialize(program, acct)
	assert.ErrorIs(t, err, core.ErrAlreadyExists)
}

func TestInitializeRejectsWrongAddress(t *testing.T) {
	program := pk(1)
	base := pk(3)
	_, bump := core.FindAvsAddress(program, base)

	acct := &core.Account{Key: pk(99), Owner: core.ZeroPubkey, Writable: true}
	err := core.NewAvs(pk(2), base, bump).Initialize(program, acct)
	assert.ErrorIs(t, err, core.ErrAddressMismatch)
}

func TestSanitizeRejectsEmptyAccount(t *testing.T) {
	program := pk(1)
	addr, _ := core.FindAvsAddress(program, pk(3))
	acct := &core.Account{Key: addr, Owner: core.ZeroPubkey}

	_, err := core.SanitizeAvs(program, acct, false)
	assert.ErrorIs(t, err, core.ErrUninitializedRecord)
}

func TestSanitizeRejectsForeignOwner(t *testing.T) {
	program := pk(1)
	acct := newAvsAccount(t, program, pk(2), pk(3))
	acct.Owner = pk(50)

	_, err := core.SanitizeAvs(program, acct, false)
	assert.ErrorIs(t, err, core.ErrOwnershipMismatch)
}

func TestSanitizeRejectsWrongRecordType(t *testing.T) {
	program := pk(1)
	acct := newAvsAccount(t, program, pk(2), pk(3))

	_, err := core.SanitizeOperator(program, acct, false)
	assert.ErrorIs(t, err, core.ErrTypeMismatch)
}

func TestSanitizeRejectsRelocatedRecord(t *testing.T) {
	program := pk(1)
	acct := newAvsAccount(t, program, pk(2), pk(3))

	// Copy the record bytes to a different address.
	moved := &core.Account{Key: pk(99), Owner: program, Data: acct.Data}
	_, err := core.SanitizeAvs(program, moved, false)
	assert.ErrorIs(t, err, core.ErrAddressMismatch)
}

func TestSanitizeWritableFlag(t *testing.T) {
	program := pk(1)
	acct := newAvsAccount(t, program, pk(2), pk(3))
	acct.Writable = false

	_, err := core.SanitizeAvs(program, acct, true)
	assert.ErrorIs(t, err, core.ErrNotWritable)

	validated, err := core.SanitizeAvs(program, acct, false)
	require.NoError(t, err)
	assert.ErrorIs(t, validated.Save(), core.ErrNotWritable)
}

func TestSaveRoundtripsMutation(t *testing.T) {
	program := pk(1)
	acct := newAvsAccount(t, program, pk(2), pk(3))

	validated, err := core.SanitizeAvs(program, acct, true)
	require.NoError(t, err)
	require.NoError(t, validated.Record().IncrementVaultCount())
	require.NoError(t, validated.Save())

	reread, err := core.SanitizeAvs(program, acct, false)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), reread.Record().VaultCount())
}

func TestConfigRecordRoundtrip(t *testing.T) {
	program := pk(1)
	admin := pk(2)
	vaultProgram := pk(3)

	addr, bump := core.FindConfigAddress(program)
	acct := &core.Account{Key: addr, Owner: core.ZeroPubkey, Writable: true}
	require.NoError(t, core.NewConfig(admin, vaultProgram, bump).Initialize(program, acct))

	validated, err := core.SanitizeConfig(program, acct, false)
	require.NoError(t, err)
	cfg := validated.Record()
	assert.Equal(t, admin, cfg.Admin())
	assert.Equal(t, vaultProgram, cfg.VaultProgram())
	assert.Zero(t, cfg.NumVaults())
	assert.Equal(t, bump, cfg.Bump())
}

func TestSlasherTicketKeepsBoundAcrossRoundtrip(t *testing.T) {
	program := pk(1)
	avs := pk(2)
	vault := pk(3)
	slasher := pk(4)

	addr, bump := core.FindAvsVaultSlasherTicketAddress(program, avs, vault, slasher)
	acct := &core.Account{Key: addr, Owner: core.ZeroPubkey, Writable: true}
	ticket := core.NewAvsVaultSlasherTicket(avs, vault, slasher, 5000, 7, 100, bump)
	require.NoError(t, ticket.Initialize(program, acct))

	validated, err := core.SanitizeAvsVaultSlasherTicket(program, acct, false)
	require.NoError(t, err)
	got := validated.Record()
	assert.Equal(t, uint64(5000), got.MaxSlashAmount())
	assert.Equal(t, uint64(7), got.Index())
	assert.True(t, got.State().IsActive())
	assert.Equal(t, uint64(100), got.State().SlotAdded())
}

func TestSanitizeSignerAndPayer(t *testing.T) {
	signed := &core.Account{Key: pk(1), Signer: true, Writable: true}
	_, err := core.SanitizeSigner(signed)
	assert.NoError(t, err)
	_, err = core.SanitizePayer(signed)
	assert.NoError(t, err)

	unsigned := &core.Account{Key: pk(2), Writable: true}
	_, err = core.SanitizeSigner(unsigned)
	assert.ErrorIs(t, err, core.ErrMissingSignature)

	readonly := &core.Account{Key: pk(3), Signer: true}
	_, err = core.SanitizePayer(readonly)
	assert.ErrorIs(t, err, core.ErrNotWritable)
}
