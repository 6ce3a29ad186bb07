package restaking

import (
	"fmt"

	"github.com/conr2d/restaking/pkg/core"
)

// processOperatorAddAvs opts an operator into servicing an AVS. This is
// the operator's half of the handshake; the AVS accepts separately via
// avs_add_operator. Accounts: [config, operator (w), avs,
// operator-avs ticket (w), admin (signer), payer (signer, w)].
func processOperatorAddAvs(program core.Pubkey, accounts []*core.Account, slot uint64) error {
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
	avs, err := core.SanitizeAvs(program, accounts[2], false)
	if err != nil {
		return err
	}
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
		_, bump := core.FindOperatorAvsTicketAddress(program, operator.Account().Key, avs.Account().Key)
		ticket := core.NewOperatorAvsTicket(operator.Account().Key, avs.Account().Key, operator.Record().AvsCount(), slot, bump)
		if err := ticket.Initialize(program, ticketAcct); err != nil {
			return fmt.Errorf("create operator avs ticket: %w", err)
		}
		if err := operator.Record().IncrementAvsCount(); err != nil {
			return err
		}
		return operator.Save()
	}

	ticket, err := core.SanitizeOperatorAvsTicket(program, ticketAcct, true)
	if err != nil {
		return err
	}
	if err := checkEndpoint("operator", ticket.Record().Operator(), operator.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("avs", ticket.Record().Avs(), avs.Account().Key); err != nil {
		return err
	}
	if err := ticket.Record().State().Activate(slot); err != nil {
		return fmt.Errorf("operator avs ticket: %w", err)
	}
	return ticket.Save()
}

// processOperatorRemoveAvs removes an active operator-AVS edge.
// Accounts: [config, operator, avs, operator-avs ticket (w), admin
// (signer)].
func processOperatorRemoveAvs(program core.Pubkey, accounts []*core.Account, slot uint64) error {
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
	avs := accounts[2]
	admin, err := core.SanitizeSigner(accounts[4])
	if err != nil {
		return err
	}

	if err := operator.Record().CheckAdmin(admin.Key); err != nil {
		return fmt.Errorf("operator %s: %w", operator.Account().Key, err)
	}

	ticket, err := core.SanitizeOperatorAvsTicket(program, accounts[3], true)
	if err != nil {
		return err
	}
	if err := checkEndpoint("operator", ticket.Record().Operator(), operator.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("avs", ticket.Record().Avs(), avs.Key); err != nil {
		return err
	}
	if err := ticket.Record().State().Deactivate(slot); err != nil {
		return fmt.Errorf("operator avs ticket: %w", err)
	}
	return ticket.Save()
}
