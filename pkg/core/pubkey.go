package core

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
)

// PubkeyLen is the byte length of every identity in the system.
const PubkeyLen = 32

// Pubkey is a 32-byte identity: entity admins, bases, derived record
// addresses and program identities all share this space.
type Pubkey [PubkeyLen]byte

// ZeroPubkey is the all-zero identity. Empty accounts are owned by it.
var ZeroPubkey Pubkey

// PubkeyFromBytes converts a raw 32-byte slice to a Pubkey.
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	if len(b) != PubkeyLen {
		return Pubkey{}, fmt.Errorf("invalid pubkey length %d", len(b))
	}
	var p Pubkey
	copy(p[:], b)
	return p, nil
}

// PubkeyFromBase58 parses the base58 string form of a Pubkey.
func PubkeyFromBase58(s string) (Pubkey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("failed to decode pubkey %q: %w", s, err)
	}
	return PubkeyFromBytes(b)
}

func (p Pubkey) Bytes() []byte {
	return p[:]
}

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) IsZero() bool {
	return p == ZeroPubkey
}

// Less defines a total order over pubkeys, used for deterministic lock
// acquisition ordering.
func (p Pubkey) Less(other Pubkey) bool {
	return bytes.Compare(p[:], other[:]) < 0
}

// MarshalText implements encoding.TextMarshaler so pubkeys render as
// base58 in JSON payloads.
func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := PubkeyFromBase58(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
