// Package client builds well-formed operations against the restaking
// program: it derives every record address and lays out the account
// list in the exact order the processors expect, so callers only name
// the identities involved.
package client

import (
	"github.com/conr2d/restaking/pkg/core"
	"github.com/conr2d/restaking/pkg/restaking"
)

// Builder constructs operations for one program deployment.
type Builder struct {
	program core.Pubkey
}

func New(program core.Pubkey) *Builder {
	return &Builder{program: program}
}

// Program returns the program the builder targets.
func (b *Builder) Program() core.Pubkey {
	return b.program
}

// ConfigAddress returns the derived address of the program config.
func (b *Builder) ConfigAddress() core.Pubkey {
	addr, _ := core.FindConfigAddress(b.program)
	return addr
}

// AvsAddress returns the derived address of the AVS rooted at base.
func (b *Builder) AvsAddress(base core.Pubkey) core.Pubkey {
	addr, _ := core.FindAvsAddress(b.program, base)
	return addr
}

// OperatorAddress returns the derived address of the operator rooted at base.
func (b *Builder) OperatorAddress(base core.Pubkey) core.Pubkey {
	addr, _ := core.FindOperatorAddress(b.program, base)
	return addr
}

func meta(key core.Pubkey, writable, signer bool) restaking.AccountMeta {
	return restaking.AccountMeta{Key: key, Writable: writable, Signer: signer}
}

// InitializeConfig creates the one-time program config.
func (b *Builder) InitializeConfig(admin, vaultProgram core.Pubkey) *restaking.Operation {
	return &restaking.Operation{
		Kind: restaking.OpInitializeConfig,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), true, false),
			meta(admin, true, true),
			meta(vaultProgram, false, false),
		},
	}
}

// InitializeAvs creates an AVS record rooted at base.
func (b *Builder) InitializeAvs(admin, base core.Pubkey) *restaking.Operation {
	return &restaking.Operation{
		Kind: restaking.OpInitializeAvs,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(b.AvsAddress(base), true, false),
			meta(admin, true, true),
			meta(base, false, true),
		},
	}
}

// InitializeOperator creates an operator record rooted at base.
func (b *Builder) InitializeOperator(admin, base core.Pubkey) *restaking.Operation {
	return &restaking.Operation{
		Kind: restaking.OpInitializeOperator,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(b.OperatorAddress(base), true, false),
			meta(admin, true, true),
			meta(base, false, true),
		},
	}
}

// AvsAddVault opts the AVS into a vault.
func (b *Builder) AvsAddVault(avs, vault, admin, payer core.Pubkey) *restaking.Operation {
	ticket, _ := core.FindAvsVaultTicketAddress(b.program, avs, vault)
	return &restaking.Operation{
		Kind: restaking.OpAvsAddVault,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(avs, true, false),
			meta(vault, false, false),
			meta(ticket, true, false),
			meta(admin, false, true),
			meta(payer, true, true),
		},
	}
}

// AvsRemoveVault deactivates an AVS-vault edge.
func (b *Builder) AvsRemoveVault(avs, vault, admin core.Pubkey) *restaking.Operation {
	ticket, _ := core.FindAvsVaultTicketAddress(b.program, avs, vault)
	return &restaking.Operation{
		Kind: restaking.OpAvsRemoveVault,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(avs, false, false),
			meta(vault, false, false),
			meta(ticket, true, false),
			meta(admin, false, true),
		},
	}
}

// AvsAddOperator accepts an operator that has already opted in to the AVS.
func (b *Builder) AvsAddOperator(avs, operator, admin, payer core.Pubkey) *restaking.Operation {
	ticket, _ := core.FindAvsOperatorTicketAddress(b.program, avs, operator)
	operatorSide, _ := core.FindOperatorAvsTicketAddress(b.program, operator, avs)
	return &restaking.Operation{
		Kind: restaking.OpAvsAddOperator,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(avs, true, false),
			meta(operator, false, false),
			meta(ticket, true, false),
			meta(operatorSide, false, false),
			meta(admin, false, true),
			meta(payer, true, true),
		},
	}
}

// AvsRemoveOperator deactivates an AVS-operator edge.
func (b *Builder) AvsRemoveOperator(avs, operator, admin core.Pubkey) *restaking.Operation {
	ticket, _ := core.FindAvsOperatorTicketAddress(b.program, avs, operator)
	return &restaking.Operation{
		Kind: restaking.OpAvsRemoveOperator,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(avs, false, false),
			meta(operator, false, false),
			meta(ticket, true, false),
			meta(admin, false, true),
		},
	}
}

// AvsAddVaultSlasher grants a slasher authority over an AVS vault with
// the given slash bound. The bound only takes effect on first add.
func (b *Builder) AvsAddVaultSlasher(avs, vault, slasher, admin, payer core.Pubkey, maxSlashAmount uint64) *restaking.Operation {
	vaultTicket, _ := core.FindAvsVaultTicketAddress(b.program, avs, vault)
	ticket, _ := core.FindAvsVaultSlasherTicketAddress(b.program, avs, vault, slasher)
	return &restaking.Operation{
		Kind:           restaking.OpAvsAddVaultSlasher,
		MaxSlashAmount: maxSlashAmount,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(avs, true, false),
			meta(vault, false, false),
			meta(slasher, false, false),
			meta(vaultTicket, false, false),
			meta(ticket, true, false),
			meta(admin, false, true),
			meta(payer, true, true),
		},
	}
}

// AvsRemoveVaultSlasher deactivates a slasher grant.
func (b *Builder) AvsRemoveVaultSlasher(avs, vault, slasher, admin core.Pubkey) *restaking.Operation {
	ticket, _ := core.FindAvsVaultSlasherTicketAddress(b.program, avs, vault, slasher)
	return &restaking.Operation{
		Kind: restaking.OpAvsRemoveVaultSlasher,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(avs, false, false),
			meta(vault, false, false),
			meta(slasher, false, false),
			meta(ticket, true, false),
			meta(admin, false, true),
		},
	}
}

// OperatorAddVault opts the operator into a vault.
func (b *Builder) OperatorAddVault(operator, vault, admin, payer core.Pubkey) *restaking.Operation {
	ticket, _ := core.FindOperatorVaultTicketAddress(b.program, operator, vault)
	return &restaking.Operation{
		Kind: restaking.OpOperatorAddVault,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(operator, true, false),
			meta(vault, false, false),
			meta(ticket, true, false),
			meta(admin, false, true),
			meta(payer, true, true),
		},
	}
}

// OperatorRemoveVault deactivates an operator-vault edge.
func (b *Builder) OperatorRemoveVault(operator, vault, admin core.Pubkey) *restaking.Operation {
	ticket, _ := core.FindOperatorVaultTicketAddress(b.program, operator, vault)
	return &restaking.Operation{
		Kind: restaking.OpOperatorRemoveVault,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(operator, false, false),
			meta(vault, false, false),
			meta(ticket, true, false),
			meta(admin, false, true),
		},
	}
}

// OperatorAddAvs is the operator half of the AVS handshake.
func (b *Builder) OperatorAddAvs(operator, avs, admin, payer core.Pubkey) *restaking.Operation {
	ticket, _ := core.FindOperatorAvsTicketAddress(b.program, operator, avs)
	return &restaking.Operation{
		Kind: restaking.OpOperatorAddAvs,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(operator, true, false),
			meta(avs, false, false),
			meta(ticket, true, false),
			meta(admin, false, true),
			meta(payer, true, true),
		},
	}
}

// OperatorRemoveAvs deactivates an operator-AVS edge.
func (b *Builder) OperatorRemoveAvs(operator, avs, admin core.Pubkey) *restaking.Operation {
	ticket, _ := core.FindOperatorAvsTicketAddress(b.program, operator, avs)
	return &restaking.Operation{
		Kind: restaking.OpOperatorRemoveAvs,
		Accounts: []restaking.AccountMeta{
			meta(b.ConfigAddress(), false, false),
			meta(operator, false, false),
			meta(avs, false, false),
			meta(ticket, true, false),
			meta(admin, false, true),
		},
	}
}
