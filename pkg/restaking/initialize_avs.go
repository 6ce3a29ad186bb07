package restaking

import (
	"fmt"

	"github.com/conr2d/restaking/pkg/core"
)

// processInitializeAvs creates an AVS entity at the address derived
// from its base identity. The base must co-sign to prove the identity
// is controlled by the caller. Accounts: [config, avs (w), admin
// (signer, w), base (signer)].
func processInitializeAvs(program core.Pubkey, accounts []*core.Account) error {
	a, err := sanitizeInitializeAvs(program, accounts)
	if err != nil {
		return err
	}

	_, bump := core.FindAvsAddress(program, a.base.Key)
	avs := core.NewAvs(a.admin.Key, a.base.Key, bump)
	if err := avs.Initialize(program, a.avs); err != nil {
		return fmt.Errorf("initialize avs: %w", err)
	}
	return nil
}

type initializeAvsAccounts struct {
	config *core.Validated[core.Config]
	avs    *core.Account
	admin  *core.Account
	base   *core.Account
}

func sanitizeInitializeAvs(program core.Pubkey, accounts []*core.Account) (*initializeAvsAccounts, error) {
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
	return &initializeAvsAccounts{
		config: config,
		avs:    accounts[1],
		admin:  admin,
		base:   base,
	}, nil
}
