package restaking

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/conr2d/restaking/pkg/core"
)

// OpKind enumerates the mutating operations of the program.
type OpKind uint8

const (
	OpInitializeConfig OpKind = iota
	OpInitializeAvs
	OpInitializeOperator
	OpAvsAddVault
	OpAvsRemoveVault
	OpAvsAddOperator
	OpAvsRemoveOperator
	OpAvsAddVaultSlasher
	OpAvsRemoveVaultSlasher
	OpOperatorAddVault
	OpOperatorRemoveVault
	OpOperatorAddAvs
	OpOperatorRemoveAvs
)

func (k OpKind) String() string {
	switch k {
	case OpInitializeConfig:
		return "initialize_config"
	case OpInitializeAvs:
		return "initialize_avs"
	case OpInitializeOperator:
		return "initialize_operator"
	case OpAvsAddVault:
		return "avs_add_vault"
	case OpAvsRemoveVault:
		return "avs_remove_vault"
	case OpAvsAddOperator:
		return "avs_add_operator"
	case OpAvsRemoveOperator:
		return "avs_remove_operator"
	case OpAvsAddVaultSlasher:
		return "avs_add_vault_slasher"
	case OpAvsRemoveVaultSlasher:
		return "avs_remove_vault_slasher"
	case OpOperatorAddVault:
		return "operator_add_vault"
	case OpOperatorRemoveVault:
		return "operator_remove_vault"
	case OpOperatorAddAvs:
		return "operator_add_avs"
	case OpOperatorRemoveAvs:
		return "operator_remove_avs"
	default:
		return "unknown"
	}
}

// AccountMeta names one storage region an operation touches, with the
// caller's writable/signer intent for it.
type AccountMeta struct {
	Key      core.Pubkey `json:"key"`
	Writable bool        `json:"writable"`
	Signer   bool        `json:"signer"`
}

// Operation is one request against the program: the operation kind,
// kind-specific parameters, and the ordered account list the matching
// processor expects. Account order per kind is documented on each
// builder in pkg/client.
type Operation struct {
	Kind OpKind `json:"kind"`

	// MaxSlashAmount is the slash bound for OpAvsAddVaultSlasher;
	// ignored by every other kind.
	MaxSlashAmount uint64 `json:"max_slash_amount,omitempty"`

	Accounts []AccountMeta `json:"accounts"`
}

// Digest is the canonical hash signers commit to: kind, parameters and
// the full account list with flags, in order.
func (op *Operation) Digest() []byte {
	buf := make([]byte, 0, 1+8+len(op.Accounts)*(core.PubkeyLen+1))
	buf = append(buf, byte(op.Kind))
	buf = binary.LittleEndian.AppendUint64(buf, op.MaxSlashAmount)
	for _, meta := range op.Accounts {
		buf = append(buf, meta.Key.Bytes()...)
		var flags byte
		if meta.Writable {
			flags |= 1
		}
		if meta.Signer {
			flags |= 2
		}
		buf = append(buf, flags)
	}
	return crypto.Keccak256(buf)
}

// expectAccounts checks the processor received exactly the documented
// account count.
func expectAccounts(accounts []*core.Account, n int) error {
	if len(accounts) != n {
		return fmt.Errorf("expected %d accounts, got %d", n, len(accounts))
	}
	return nil
}
