package restaking

import (
	"fmt"

	"github.com/conr2d/restaking/pkg/core"
)

// processAvsAddVaultSlasher grants a slasher authority over one of the
// AVS's vaults, bounded by maxSlashAmount. The AVS-vault edge itself
// must be active. The slash bound is fixed when the ticket is first
// created; re-adds keep the original bound. Accounts: [config, avs
// (w), vault, slasher, avs-vault ticket, slasher ticket (w), admin
// (signer), payer (signer, w)].
func processAvsAddVaultSlasher(program core.Pubkey, accounts []*core.Account, slot uint64, maxSlashAmount uint64) error {
	if err := expectAccounts(accounts, 8); err != nil {
		return err
	}
	if _, err := core.SanitizeConfig(program, accounts[0], false); err != nil {
		return err
	}
	avs, err := core.SanitizeAvs(program, accounts[1], true)
	if err != nil {
		return err
	}
	vault := accounts[2]
	slasher := accounts[3]
	admin, err := core.SanitizeSigner(accounts[6])
	if err != nil {
		return err
	}

	if err := avs.Record().CheckAdmin(admin.Key); err != nil {
		return fmt.Errorf("avs %s: %w", avs.Account().Key, err)
	}

	vaultTicket, err := core.SanitizeAvsVaultTicket(program, accounts[4], false)
	if err != nil {
		return err
	}
	if err := checkEndpoint("avs", vaultTicket.Record().Avs(), avs.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("vault", vaultTicket.Record().Vault(), vault.Key); err != nil {
		return err
	}
	if !vaultTicket.Record().State().IsActive() {
		return fmt.Errorf("avs %s vault %s edge is not active: %w",
			avs.Account().Key, vault.Key, core.ErrInvalidStateTransition)
	}

	ticketAcct := accounts[5]
	if ticketAcct.IsEmpty() {
		if _, err := core.SanitizePayer(accounts[7]); err != nil {
			return err
		}
		_, bump := core.FindAvsVaultSlasherTicketAddress(program, avs.Account().Key, vault.Key, slasher.Key)
		ticket := core.NewAvsVaultSlasherTicket(
			avs.Account().Key, vault.Key, slasher.Key,
			maxSlashAmount, avs.Record().SlasherCount(), slot, bump)
		if err := ticket.Initialize(program, ticketAcct); err != nil {
			return fmt.Errorf("create avs vault slasher ticket: %w", err)
		}
		if err := avs.Record().IncrementSlasherCount(); err != nil {
			return err
		}
		return avs.Save()
	}

	ticket, err := core.SanitizeAvsVaultSlasherTicket(program, ticketAcct, true)
	if err != nil {
		return err
	}
	if err := checkEndpoint("avs", ticket.Record().Avs(), avs.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("vault", ticket.Record().Vault(), vault.Key); err != nil {
		return err
	}
	if err := checkEndpoint("slasher", ticket.Record().Slasher(), slasher.Key); err != nil {
		return err
	}
	if err := ticket.Record().State().Activate(slot); err != nil {
		return fmt.Errorf("avs vault slasher ticket: %w", err)
	}
	return ticket.Save()
}

// processAvsRemoveVaultSlasher removes an active slasher grant.
// Accounts: [config, avs, vault, slasher, slasher ticket (w), admin
// (signer)].
func processAvsRemoveVaultSlasher(program core.Pubkey, accounts []*core.Account, slot uint64) error {
	if err := expectAccounts(accounts, 6); err != nil {
		return err
	}
	if _, err := core.SanitizeConfig(program, accounts[0], false); err != nil {
		return err
	}
	avs, err := core.SanitizeAvs(program, accounts[1], false)
	if err != nil {
		return err
	}
	vault := accounts[2]
	slasher := accounts[3]
	admin, err := core.SanitizeSigner(accounts[5])
	if err != nil {
		return err
	}

	if err := avs.Record().CheckAdmin(admin.Key); err != nil {
		return fmt.Errorf("avs %s: %w", avs.Account().Key, err)
	}

	ticket, err := core.SanitizeAvsVaultSlasherTicket(program, accounts[4], true)
	if err != nil {
		return err
	}
	if err := checkEndpoint("avs", ticket.Record().Avs(), avs.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("vault", ticket.Record().Vault(), vault.Key); err != nil {
		return err
	}
	if err := checkEndpoint("slasher", ticket.Record().Slasher(), slasher.Key); err != nil {
		return err
	}
	if err := ticket.Record().State().Deactivate(slot); err != nil {
		return fmt.Errorf("avs vault slasher ticket: %w", err)
	}
	return ticket.Save()
}
