package signer_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conr2d/restaking/pkg/signer"
)

func TestSignAndRecover(t *testing.T) {
	s, err := signer.NewRandomSigner()
	require.NoError(t, err)

	digest := crypto.Keccak256([]byte("hello"))
	sig, err := s.Sign(digest)
	require.NoError(t, err)
	assert.Len(t, sig, 65)

	recovered, err := signer.RecoverIdentity(digest, sig)
	require.NoError(t, err)
	assert.Equal(t, s.Identity(), recovered)
	assert.True(t, signer.Verify(s.Identity(), digest, sig))
}

func TestVerifyRejectsOtherSigner(t *testing.T) {
	s1, err := signer.NewRandomSigner()
	require.NoError(t, err)
	s2, err := signer.NewRandomSigner()
	require.NoError(t, err)

	digest := crypto.Keccak256([]byte("hello"))
	sig, err := s1.Sign(digest)
	require.NoError(t, err)

	assert.False(t, signer.Verify(s2.Identity(), digest, sig))
}

func TestVerifyRejectsTamperedDigest(t *testing.T) {
	s, err := signer.NewRandomSigner()
	require.NoError(t, err)

	digest := crypto.Keccak256([]byte("hello"))
	sig, err := s.Sign(digest)
	require.NoError(t, err)

	other := crypto.Keccak256([]byte("world"))
	assert.False(t, signer.Verify(s.Identity(), other, sig))
}

func TestSignRejectsBadDigestLength(t *testing.T) {
	s, err := signer.NewRandomSigner()
	require.NoError(t, err)
	_, err = s.Sign([]byte("short"))
	assert.Error(t, err)
}

func TestHexKeyDeterministicIdentity(t *testing.T) {
	hexKey := "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	s1, err := signer.NewLocalSignerFromHex(hexKey)
	require.NoError(t, err)
	s2, err := signer.NewLocalSignerFromHex(hexKey)
	require.NoError(t, err)
	assert.Equal(t, s1.Identity(), s2.Identity())
	assert.NotEmpty(t, s1.Identity().String())
}
