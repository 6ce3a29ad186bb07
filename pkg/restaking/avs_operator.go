package restaking

import (
	"fmt"

	"github.com/conr2d/restaking/pkg/core"
)

// processAvsAddOperator opts an AVS into an operator. The relationship
// is a handshake: the operator must already hold an active
// operator-AVS ticket before the AVS accepts it. Accounts: [config,
// avs (w), operator, avs-operator ticket (w), operator-avs ticket,
// admin (signer), payer (signer, w)].
func processAvsAddOperator(program core.Pubkey, accounts []*core.Account, slot uint64) error {
	if err := expectAccounts(accounts, 7); err != nil {
		return err
	}
	if _, err := core.SanitizeConfig(program, accounts[0], false); err != nil {
		return err
	}
	avs, err := core.SanitizeAvs(program, accounts[1], true)
	if err != nil {
		return err
	}
	operator, err := core.SanitizeOperator(program, accounts[2], false)
	if err != nil {
		return err
	}
	ticketAcct := accounts[3]
	admin, err := core.SanitizeSigner(accounts[5])
	if err != nil {
		return err
	}

	if err := avs.Record().CheckAdmin(admin.Key); err != nil {
		return fmt.Errorf("avs %s: %w", avs.Account().Key, err)
	}

	operatorSide, err := core.SanitizeOperatorAvsTicket(program, accounts[4], false)
	if err != nil {
		return err
	}
	if err := checkEndpoint("operator", operatorSide.Record().Operator(), operator.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("avs", operatorSide.Record().Avs(), avs.Account().Key); err != nil {
		return err
	}
	if !operatorSide.Record().State().IsActive() {
		return fmt.Errorf("operator %s has not opted in to avs %s: %w",
			operator.Account().Key, avs.Account().Key, core.ErrInvalidStateTransition)
	}

	if ticketAcct.IsEmpty() {
		if _, err := core.SanitizePayer(accounts[6]); err != nil {
			return err
		}
		_, bump := core.FindAvsOperatorTicketAddress(program, avs.Account().Key, operator.Account().Key)
		ticket := core.NewAvsOperatorTicket(avs.Account().Key, operator.Account().Key, avs.Record().OperatorCount(), slot, bump)
		if err := ticket.Initialize(program, ticketAcct); err != nil {
			return fmt.Errorf("create avs operator ticket: %w", err)
		}
		if err := avs.Record().IncrementOperatorCount(); err != nil {
			return err
		}
		return avs.Save()
	}

	ticket, err := core.SanitizeAvsOperatorTicket(program, ticketAcct, true)
	if err != nil {
		return err
	}
	if err := checkEndpoint("avs", ticket.Record().Avs(), avs.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("operator", ticket.Record().Operator(), operator.Account().Key); err != nil {
		return err
	}
	if err := ticket.Record().State().Activate(slot); err != nil {
		return fmt.Errorf("avs operator ticket: %w", err)
	}
	return ticket.Save()
}

// processAvsRemoveOperator removes an active AVS-operator edge.
// Accounts: [config, avs, operator, avs-operator ticket (w), admin
// (signer)].
func processAvsRemoveOperator(program core.Pubkey, accounts []*core.Account, slot uint64) error {
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
	operator := accounts[2]
	admin, err := core.SanitizeSigner(accounts[4])
	if err != nil {
		return err
	}

	if err := avs.Record().CheckAdmin(admin.Key); err != nil {
		return fmt.Errorf("avs %s: %w", avs.Account().Key, err)
	}

	ticket, err := core.SanitizeAvsOperatorTicket(program, accounts[3], true)
	if err != nil {
		return err
	}
	if err := checkEndpoint("avs", ticket.Record().Avs(), avs.Account().Key); err != nil {
		return err
	}
	if err := checkEndpoint("operator", ticket.Record().Operator(), operator.Key); err != nil {
		return err
	}
	if err := ticket.Record().State().Deactivate(slot); err != nil {
		return fmt.Errorf("avs operator ticket: %w", err)
	}
	return ticket.Save()
}
