package restaking

import (
	"fmt"

	"github.com/conr2d/restaking/pkg/core"
)

// processOperatorAddVault opts an operator into staking from a vault.
// Vaults belong to the companion vault program and stay opaque here.
// Accounts: [config, operator (w), vault, operator-vault ticket (w),
// admin (signer), payer (signer, w)].
func processOperatorAddVault(program core.Pubkey, accounts []*core.Account, slot uint64) error {
	if err := expectAccounts(accounts, 6); err != nil {
		return err
	}
	if _, err := core.SanitizeConfig(program, accounts[0], false); err != nil {
		return err
	}
	operator, err := core.SanitizeOperator(program, accounts[1], true)
	if err != nil {
		return err
	}
	vault := accounts[2]
	ticketAcct := accounts[3]
	admin, err := core.SanitizeSigner(accounts[4])
	if err != nil {
		return err
	}

	if err := operator.Record().CheckAdmin(admin.Key); err != nil {
		return fmt.Errorf("operator %s: %w", operator.Account().Key, err)
	}

	if ticketAcct.IsEmpty() {
		if _, err := core.SanitizePayer(accounts[5]); err != nil {
			return err
		}
		_, bump := core.FindOperatorVaultTicketAddress(program, operator.Account().Key, vault.Key)
		ticket := core.NewOperatorVaultTicket(operator.Account().Key, vault.Key, operator.Record().VaultCount(), slot, bump)
		if err := ticket.Initialize(program, ticketAcct); err != nil {
			return fmt.Errorf("create operator vault ticket: %w", err)
		}
		if err := operator.Record().IncrementVaultCount(); err != nil {
			return err
		}
		return operator.Save()
	}

	ticket, err := core.SanitizeOperatorVaultTicket(program, ticketAcct, true)
	if err != nil {
		return err
	}
	if err := checkEndpoint("operator", ticket.Record().Operator(), operator.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("vault", ticket.Record().Vault(), vault.Key); err != nil {
		return err
	}
	if err := ticket.Record().State().Activate(slot); err != nil {
		return fmt.Errorf("operator vault ticket: %w", err)
	}
	return ticket.Save()
}

// processOperatorRemoveVault removes an active operator-vault edge.
// Accounts: [config, operator, vault, operator-vault ticket (w), admin
// (signer)].
func processOperatorRemoveVault(program core.Pubkey, accounts []*core.Account, slot uint64) error {
	if err := expectAccounts(accounts, 5); err != nil {
		return err
	}
	if _, err := core.SanitizeConfig(program, accounts[0], false); err != nil {
		return err
	}
	operator, err := core.SanitizeOperator(program, accounts[1], false)
	if err != nil {
		return err
	}
	vault := accounts[2]
	admin, err := core.SanitizeSigner(accounts[4])
	if err != nil {
		return err
	}

	if err := operator.Record().CheckAdmin(admin.Key); err != nil {
		return fmt.Errorf("operator %s: %w", operator.Account().Key, err)
	}

	ticket, err := core.SanitizeOperatorVaultTicket(program, accounts[3], true)
	if err != nil {
		return err
	}
	if err := checkEndpoint("operator", ticket.Record().Operator(), operator.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("vault", ticket.Record().Vault(), vault.Key); err != nil {
		return err
	}
	if err := ticket.Record().State().Deactivate(slot); err != nil {
		return fmt.Errorf("operator vault ticket: %w", err)
	}
	return ticket.Save()
}
