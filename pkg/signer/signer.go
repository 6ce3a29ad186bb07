package signer

import (
	"crypto/ecdsa"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/conr2d/restaking/pkg/core"
)

// Signer signs operation digests on behalf of one on-graph identity.
type Signer interface {
	// Sign signs a 32-byte digest with the identity key
	Sign(digest []byte) ([]byte, error)
	// Identity returns the public identity the signatures verify against
	Identity() core.Pubkey
}

// LocalSigner implements Signer using a locally held secp256k1 key
type LocalSigner struct {
	key      *ecdsa.PrivateKey
	identity core.Pubkey
}

// NewLocalSigner creates a signer from an encrypted keystore file
func NewLocalSigner(keystorePath string, password string) (*LocalSigner, error) {
	keyJson, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file: %w", err)
	}
	key, err := keystore.DecryptKey(keyJson, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}
	return FromKey(key.PrivateKey), nil
}

// NewLocalSignerFromHex creates a signer from a hex-encoded private key
func NewLocalSignerFromHex(hexKey string) (*LocalSigner, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return FromKey(key), nil
}

// NewRandomSigner creates a signer with a freshly generated key
func NewRandomSigner() (*LocalSigner, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return FromKey(key), nil
}

// FromKey wraps an existing private key
func FromKey(key *ecdsa.PrivateKey) *LocalSigner {
	return &LocalSigner{
		key:      key,
		identity: IdentityOf(&key.PublicKey),
	}
}

// IdentityOf derives the on-graph identity of a public key: the
// Keccak-256 hash of the uncompressed point without the format prefix.
func IdentityOf(pub *ecdsa.PublicKey) core.Pubkey {
	raw := crypto.FromECDSAPub(pub)
	var identity core.Pubkey
	copy(identity[:], crypto.Keccak256(raw[1:]))
	return identity
}

// Identity implements Signer
func (s *LocalSigner) Identity() core.Pubkey {
	return s.identity
}

// Sign implements Signer
func (s *LocalSigner) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	signature, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}
	return signature, nil
}

// RecoverIdentity returns the identity that produced signature over digest
func RecoverIdentity(digest []byte, signature []byte) (core.Pubkey, error) {
	pub, err := crypto.SigToPub(digest, signature)
	if err != nil {
		return core.Pubkey{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return IdentityOf(pub), nil
}

// Verify reports whether signature over digest was produced by identity
func Verify(identity core.Pubkey, digest []byte, signature []byte) bool {
	recovered, err := RecoverIdentity(digest, signature)
	if err != nil {
		return false
	}
	return recovered == identity
}
