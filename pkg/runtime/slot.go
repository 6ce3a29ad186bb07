package runtime

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/ethclient"
)

// SlotSource supplies the monotonically non-decreasing logical clock
// the ticket state machine depends on. The runtime reads it exactly
// once per operation.
type SlotSource interface {
	CurrentSlot(ctx context.Context) (uint64, error)
}

// ManualSlots is a slot source driven by its owner, used in standalone
// mode and tests.
type ManualSlots struct {
	slot atomic.Uint64
}

func NewManualSlots(start uint64) *ManualSlots {
	s := &ManualSlots{}
	s.slot.Store(start)
	return s
}

func (s *ManualSlots) CurrentSlot(context.Context) (uint64, error) {
	return s.slot.Load(), nil
}

// Advance moves the clock forward by n slots and returns the new slot.
func (s *ManualSlots) Advance(n uint64) uint64 {
	return s.slot.Add(n)
}

// ChainSlots sources slots from a chain's block height.
type ChainSlots struct {
	client *ethclient.Client
}

func NewChainSlots(ctx context.Context, rpcURL string) (*ChainSlots, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to chain rpc %s: %w", rpcURL, err)
	}
	return &ChainSlots{client: client}, nil
}

func (s *ChainSlots) CurrentSlot(ctx context.Context) (uint64, error) {
	number, err := s.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get block number: %w", err)
	}
	return number, nil
}

func (s *ChainSlots) Close() {
	s.client.Close()
}
