package restaking

import (
	"fmt"

	"github.com/conr2d/restaking/pkg/core"
)

// processInitializeConfig creates the config singleton at its canonical
// address. Accounts: [config (w), admin (signer, w), vault program].
func processInitializeConfig(program core.Pubkey, accounts []*core.Account) error {
	a, err := sanitizeInitializeConfig(accounts)
	if err != nil {
		return err
	}

	_, bump := core.FindConfigAddress(program)
	config := core.NewConfig(a.admin.Key, a.vaultProgram.Key, bump)
	if err := config.Initialize(program, a.config); err != nil {
		return fmt.Errorf("initialize config: %w", err)
	}
	return nil
}

type initializeConfigAccounts struct {
	config       *core.Account
	admin        *core.Account
	vaultProgram *core.Account
}

func sanitizeInitializeConfig(accounts []*core.Account) (*initializeConfigAccounts, error) {
	if err := expectAccounts(accounts, 3); err != nil {
		return nil, err
	}
	admin, err := core.SanitizePayer(accounts[1])
	if err != nil {
		return nil, err
	}
	return &initializeConfigAccounts{
		config:       accounts[0],
		admin:        admin,
		vaultProgram: accounts[2],
	}, nil
}
