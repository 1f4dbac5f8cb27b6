package bridgesync

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestResolveBlocksTimestampsDistinctBlocks(t *testing.T) {
	sync, _, etherMan, _ := newTestSynchronizer(t, true)
	ctx := mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })

	decoded := []*etherman.DecodedLog{
		depositLog(&etherman.Deposit{Amount: big.NewInt(1)}, 5),
		depositLog(&etherman.Deposit{Amount: big.NewInt(2)}, 5),
		depositLog(&etherman.Deposit{Amount: big.NewInt(3)}, 7),
		// claims never need a timestamp
		{Raw: types.Log{BlockNumber: 9}, Event: &etherman.Claim{Index: 1}},
	}

	want := map[uint64]time.Time{5: time.Unix(100, 0), 7: time.Unix(200, 0)}
	etherMan.
		On("GetBlocksTimestamps", ctx, []uint64{5, 7}).
		Return(want, nil).
		Once()

	assert.Equal(t, want, sync.resolveBlocksTimestamps(decoded))
}

func TestResolveBlocksTimestampsNoDeposits(t *testing.T) {
	sync, _, _, _ := newTestSynchronizer(t, true)

	decoded := []*etherman.DecodedLog{
		{Raw: types.Log{BlockNumber: 9}, Event: &etherman.Claim{Index: 1}},
	}

	assert.Empty(t, sync.resolveBlocksTimestamps(decoded))
}

func TestResolveBlocksTimestampsStopped(t *testing.T) {
	sync, _, etherMan, _ := newTestSynchronizer(t, true)
	ctx := mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })
	sync.Stop()

	decoded := []*etherman.DecodedLog{
		depositLog(&etherman.Deposit{Amount: big.NewInt(1)}, 5),
	}

	etherMan.
		On("GetBlocksTimestamps", ctx, []uint64{5}).
		Return(nil, errors.New("node unavailable")).
		Once()

	// a stopped synchronizer reports no timestamps instead of stale ones
	assert.Empty(t, sync.resolveBlocksTimestamps(decoded))
}
