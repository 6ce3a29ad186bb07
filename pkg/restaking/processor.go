package restaking

import (
	"fmt"

	"github.com/conr2d/restaking/pkg/core"
)

// Process dispatches one operation to its processor. Accounts arrive in
// the order the matching builder assembled them; slot is the single
// clock reading for every transition the operation performs. Any error
// leaves persisted state untouched: the caller discards the in-memory
// account set instead of committing it.
func Process(program core.Pubkey, accounts []*core.Account, slot uint64, op *Operation) error {
	switch op.Kind {
	case OpInitializeConfig:
		return processInitializeConfig(program, accounts)
	case OpInitializeAvs:
		return processInitializeAvs(program, accounts)
	case OpInitializeOperator:
		return processInitializeOperator(program, accounts)
	case OpAvsAddVault:
		return processAvsAddVault(program, accounts, slot)
	case OpAvsRemoveVault:
		return processAvsRemoveVault(program, accounts, slot)
	case OpAvsAddOperator:
		return processAvsAddOperator(program, accounts, slot)
	case OpAvsRemoveOperator:
		return processAvsRemoveOperator(program, accounts, slot)
	case OpAvsAddVaultSlasher:
		return processAvsAddVaultSlasher(program, accounts, slot, op.MaxSlashAmount)
	case OpAvsRemoveVaultSlasher:
		return processAvsRemoveVaultSlasher(program, accounts, slot)
	case OpOperatorAddVault:
		return processOperatorAddVault(program, accounts, slot)
	case OpOperatorRemoveVault:
		return processOperatorRemoveVault(program, accounts, slot)
	case OpOperatorAddAvs:
		return processOperatorAddAvs(program, accounts, slot)
	case OpOperatorRemoveAvs:
		return processOperatorRemoveAvs(program, accounts, slot)
	default:
		return fmt.Errorf("unknown operation kind %d", op.Kind)
	}
}

// checkEndpoint verifies a ticket's stored endpoint against the account
// the caller supplied for it.
func checkEndpoint(what string, stored, given core.Pubkey) error {
	if stored != given {
		return fmt.Errorf("ticket %s endpoint is %s, account is %s: %w", what, stored, given, core.ErrAddressMismatch)
	}
	return nil
}
