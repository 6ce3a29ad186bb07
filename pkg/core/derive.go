package core

import (
	"crypto/sha256"
	"fmt"

	"filippo.io/edwards25519"
)

// derivedMarker domain-separates record addresses from every other use
// of the identity space. Changing it breaks every existing address.
const derivedMarker = "RecordDerivedAddress"

// MaxBump is the first disambiguation byte tried by FindRecordAddress.
const MaxBump = 255

// CreateRecordAddress computes the record address for a seed tuple plus
// an explicit disambiguation byte under the given program identity. It
// fails with ErrInvalidSeeds when the digest lands on the ed25519 curve:
// a valid record address must not be a usable signing key, so that the
// only way to write to it is through this program.
func CreateRecordAddress(program Pubkey, seeds [][]byte, bump uint8) (Pubkey, error) {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write([]byte{bump})
	h.Write(program[:])
	h.Write([]byte(derivedMarker))

	var addr Pubkey
	copy(addr[:], h.Sum(nil))
	if isOnCurve(addr) {
		return Pubkey{}, fmt.Errorf("bump %d: %w", bump, ErrInvalidSeeds)
	}
	return addr, nil
}

// FindRecordAddress searches disambiguation bytes from MaxBump downward
// and returns the first valid record address. It is a pure function of
// its inputs and needs no storage access, so clients can compute a
// record's address before the record exists.
func FindRecordAddress(program Pubkey, seeds ...[]byte) (Pubkey, uint8) {
	for bump := MaxBump; bump >= 0; bump-- {
		addr, err := CreateRecordAddress(program, seeds, uint8(bump))
		if err == nil {
			return addr, uint8(bump)
		}
	}
	// Every one of the 256 candidates landing on the curve is not
	// reachable in practice.
	panic(fmt.Sprintf("no valid record address for program %s", program))
}

// isOnCurve reports whether b is a canonical encoding of an ed25519
// curve point.
func isOnCurve(b Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(b[:])
	return err == nil
}
