package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conr2d/restaking/pkg/core"
)

func pk(b byte) core.Pubkey {
	return core.Pubkey{0: b}
}

func TestFindRecordAddressDeterministic(t *testing.T) {
	program := pk(1)
	base := pk(2)

	addr1, bump1 := core.FindRecordAddress(program, []byte("avs"), base.Bytes())
	addr2, bump2 := core.FindRecordAddress(program, []byte("avs"), base.Bytes())
	assert.Equal(t, addr1, addr2)
	assert.Equal(t, bump1, bump2)

	// The found bump must reproduce the same address explicitly.
	addr3, err := core.CreateRecordAddress(program, [][]byte{[]byte("avs"), base.Bytes()}, bump1)
	require.NoError(t, err)
	assert.Equal(t, addr1, addr3)
}

func TestFindRecordAddressSeparatesSeeds(t *testing.T) {
	program := pk(1)

	avsAddr, _ := core.FindRecordAddress(program, []byte("avs"), pk(2).Bytes())
	operatorAddr, _ := core.FindRecordAddress(program, []byte("operator"), pk(2).Bytes())
	otherBase, _ := core.FindRecordAddress(program, []byte("avs"), pk(3).Bytes())

	assert.NotEqual(t, avsAddr, operatorAddr)
	assert.NotEqual(t, avsAddr, otherBase)
}

func TestFindRecordAddressSeparatesPrograms(t *testing.T) {
	addr1, _ := core.FindRecordAddress(pk(1), []byte("config"))
	addr2, _ := core.FindRecordAddress(pk(2), []byte("config"))
	assert.NotEqual(t, addr1, addr2)
}

func TestCreateRecordAddressRejectsWrongBump(t *testing.T) {
	program := pk(1)
	seeds := [][]byte{[]byte("config")}
	addr, bump := core.FindRecordAddress(program, seeds...)

	// A different bump either fails or produces a different address;
	// it can never alias the canonical one.
	for b := 0; b < 256; b++ {
		if uint8(b) == bump {
			continue
		}
		other, err := core.CreateRecordAddress(program, seeds, uint8(b))
		if err == nil {
			assert.NotEqual(t, addr, other)
		}
	}
}

func TestTicketAddressesAreDirectional(t *testing.T) {
	program := pk(1)
	a := pk(10)
	b := pk(20)

	avsSide, _ := core.FindAvsOperatorTicketAddress(program, a, b)
	operatorSide, _ := core.FindOperatorAvsTicketAddress(program, b, a)
	assert.NotEqual(t, avsSide, operatorSide,
		"the two halves of the handshake must live at distinct addresses")
}
