package restaking

import (
	"fmt"

	"github.com/conr2d/restaking/pkg/core"
)

// processInitializeOperator creates an operator entity at the address
// derived from its base identity. Accounts: [config, operator (w),
// admin (signer, w), base (signer)].
func processInitializeOperator(program core.Pubkey, accounts []*core.Account) error {
	a, err := sanitizeInitializeOperator(program, accounts)
	if err != nil {
		return err
	}

	_, bump := core.FindOperatorAddress(program, a.base.Key)
	operator := core.NewOperator(a.admin.Key, a.base.Key, bump)
	if err := operator.Initialize(program, a.operator); err != nil {
		return fmt.Errorf("initialize operator: %w", err)
	}
	return nil
}

type initializeOperatorAccounts struct {
	config   *core.Validated[core.Config]
	operator *core.Account
	admin    *core.Account
	base     *core.Account
}

func sanitizeInitializeOperator(program core.Pubkey, accounts []*core.Account) (*initializeOperatorAccounts, error) {
	if err := expectAccounts(accounts, 4); err != nil {
		return nil, err
	}
	config, err := core.SanitizeConfig(program, accounts[0], false)
	if err != nil {
		return nil, err
	}
	admin, err := core.SanitizePayer(accounts[2])
	if err != nil {
		return nil, err
	}
	base, err := core.SanitizeSigner(accounts[3])
	if err != nil {
		return nil, err
	}
	return &initializeOperatorAccounts{
		config:   config,
		operator: accounts[1],
		admin:    admin,
		base:     base,
	}, nil
}
