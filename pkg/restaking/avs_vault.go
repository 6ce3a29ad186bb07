package restaking

import (
	"fmt"

	"github.com/conr2d/restaking/pkg/core"
)

// processAvsAddVault opts an AVS into a vault. On first add the ticket
// record is created with the next ordinal index and the AVS's vault
// counter is incremented; on re-add the existing ticket is
// re-activated and the counter is untouched. Accounts: [config, avs
// (w), vault, avs-vault ticket (w), admin (signer), payer (signer, w)].
func processAvsAddVault(program core.Pubkey, accounts []*core.Account, slot uint64) error {
	if err := expectAccounts(accounts, 6); err != nil {
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
	ticketAcct := accounts[3]
	admin, err := core.SanitizeSigner(accounts[4])
	if err != nil {
		return err
	}

	if err := avs.Record().CheckAdmin(admin.Key); err != nil {
		return fmt.Errorf("avs %s: %w", avs.Account().Key, err)
	}

	if ticketAcct.IsEmpty() {
		if _, err := core.SanitizePayer(accounts[5]); err != nil {
			return err
		}
		_, bump := core.FindAvsVaultTicketAddress(program, avs.Account().Key, vault.Key)
		ticket := core.NewAvsVaultTicket(avs.Account().Key, vault.Key, avs.Record().VaultCount(), slot, bump)
		if err := ticket.Initialize(program, ticketAcct); err != nil {
			return fmt.Errorf("create avs vault ticket: %w", err)
		}
		if err := avs.Record().IncrementVaultCount(); err != nil {
			return err
		}
		return avs.Save()
	}

	ticket, err := core.SanitizeAvsVaultTicket(program, ticketAcct, true)
	if err != nil {
		return err
	}
	if err := checkEndpoint("avs", ticket.Record().Avs(), avs.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("vault", ticket.Record().Vault(), vault.Key); err != nil {
		return err
	}
	if err := ticket.Record().State().Activate(slot); err != nil {
		return fmt.Errorf("avs vault ticket: %w", err)
	}
	return ticket.Save()
}

// processAvsRemoveVault removes an active AVS-vault edge. Accounts:
// [config, avs, vault, avs-vault ticket (w), admin (signer)].
func processAvsRemoveVault(program core.Pubkey, accounts []*core.Account, slot uint64) error {
	if err := expectAccounts(accounts, 5); err != nil {
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
	admin, err := core.SanitizeSigner(accounts[4])
	if err != nil {
		return err
	}

	if err := avs.Record().CheckAdmin(admin.Key); err != nil {
		return fmt.Errorf("avs %s: %w", avs.Account().Key, err)
	}

	ticket, err := core.SanitizeAvsVaultTicket(program, accounts[3], true)
	if err != nil {
		return err
	}
	if err := checkEndpoint("avs", ticket.Record().Avs(), avs.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("vault", ticket.Record().Vault(), vault.Key); err != nil {
		return err
	}
	if err := ticket.Record().State().Deactivate(slot); err != nil {
		return fmt.Errorf("avs vault ticket: %w", err)
	}
	return ticket.Save()
}
