package bridgesync

import (
	"math/big"
	"testing"
	"time"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOperationsRoleMapping(t *testing.T) {
	txHash := common.HexToHash("0x29e885b6a31ff6e4d2f7fcbdb97af465a9ae60151c2a44715cbbb7237b3df4fe")
	deposit := &etherman.Deposit{
		LeafType:      etherman.LeafTypeAsset,
		OriginNetwork: 2,
		Amount:        big.NewInt(10),
		DepositCount:  42,
	}
	claim := &etherman.Claim{Index: 7, Amount: big.NewInt(5)}

	tests := []struct {
		name      string
		isL1      bool
		event     etherman.Event
		wantType  etherman.OperationType
		wantIndex uint32
	}{
		{name: "deposit seen on L1", isL1: true, event: deposit, wantType: etherman.OpDeposit, wantIndex: 42},
		{name: "deposit seen on L2", isL1: false, event: deposit, wantType: etherman.OpWithdrawal, wantIndex: 42},
		{name: "claim seen on L1", isL1: true, event: claim, wantType: etherman.OpWithdrawal, wantIndex: 7},
		{name: "claim seen on L2", isL1: false, event: claim, wantType: etherman.OpDeposit, wantIndex: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sync, _, _, _ := newTestSynchronizer(t, tt.isL1)
			decoded := []*etherman.DecodedLog{{Raw: types.Log{TxHash: txHash, BlockNumber: 99}, Event: tt.event}}

			operations := sync.buildOperations(decoded, map[common.Address]uint64{}, map[uint64]time.Time{})
			require.Len(t, operations, 1)
			operation := operations[0]

			assert.Equal(t, tt.wantType, operation.Type)
			assert.Equal(t, tt.wantIndex, operation.Index)
			if tt.isL1 {
				require.NotNil(t, operation.L1TxHash)
				assert.Equal(t, txHash, *operation.L1TxHash)
				assert.Nil(t, operation.L2TxHash)
			} else {
				require.NotNil(t, operation.L2TxHash)
				assert.Equal(t, txHash, *operation.L2TxHash)
				assert.Nil(t, operation.L1TxHash)
			}
		})
	}
}

func TestBuildDepositOperationEnrichment(t *testing.T) {
	tokenA := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	timestamp := time.Unix(1700000000, 0)

	t.Run("resolved L1 token and timestamp", func(t *testing.T) {
		sync, _, _, _ := newTestSynchronizer(t, true)
		decoded := []*etherman.DecodedLog{depositLog(&etherman.Deposit{
			LeafType:      etherman.LeafTypeAsset,
			OriginNetwork: 0,
			OriginAddress: tokenA,
			Amount:        big.NewInt(1),
		}, 99)}

		operations := sync.buildOperations(decoded, map[common.Address]uint64{tokenA: 5}, map[uint64]time.Time{99: timestamp})
		require.Len(t, operations, 1)
		operation := operations[0]

		require.NotNil(t, operation.L1TokenID)
		assert.Equal(t, uint64(5), *operation.L1TokenID)
		assert.Nil(t, operation.L2TokenAddress)
		require.NotNil(t, operation.BlockNumber)
		assert.Equal(t, uint64(99), *operation.BlockNumber)
		require.NotNil(t, operation.BlockTimestamp)
		assert.Equal(t, timestamp, *operation.BlockTimestamp)
	})

	t.Run("unresolved token id stays absent", func(t *testing.T) {
		sync, _, _, _ := newTestSynchronizer(t, true)
		decoded := []*etherman.DecodedLog{depositLog(&etherman.Deposit{
			LeafType:      etherman.LeafTypeAsset,
			OriginNetwork: 0,
			OriginAddress: tokenA,
			Amount:        big.NewInt(1),
		}, 99)}

		operations := sync.buildOperations(decoded, map[common.Address]uint64{}, map[uint64]time.Time{})
		require.Len(t, operations, 1)
		assert.Nil(t, operations[0].L1TokenID)
		assert.Nil(t, operations[0].BlockTimestamp)
	})

	t.Run("rollup origin token keeps its L2 address", func(t *testing.T) {
		sync, _, _, _ := newTestSynchronizer(t, false)
		decoded := []*etherman.DecodedLog{depositLog(&etherman.Deposit{
			LeafType:      etherman.LeafTypeAsset,
			OriginNetwork: 1,
			OriginAddress: tokenA,
			Amount:        big.NewInt(1),
		}, 99)}

		operations := sync.buildOperations(decoded, map[common.Address]uint64{}, map[uint64]time.Time{})
		require.Len(t, operations, 1)
		assert.Nil(t, operations[0].L1TokenID)
		require.NotNil(t, operations[0].L2TokenAddress)
		assert.Equal(t, tokenA, *operations[0].L2TokenAddress)
	})

	t.Run("message leaf carries no token", func(t *testing.T) {
		sync, _, _, _ := newTestSynchronizer(t, true)
		decoded := []*etherman.DecodedLog{depositLog(&etherman.Deposit{
			LeafType:      etherman.LeafTypeMessage,
			OriginNetwork: 0,
			OriginAddress: tokenA,
			Amount:        big.NewInt(1),
		}, 99)}

		operations := sync.buildOperations(decoded, map[common.Address]uint64{tokenA: 5}, map[uint64]time.Time{})
		require.Len(t, operations, 1)
		assert.Nil(t, operations[0].L1TokenID)
		assert.Nil(t, operations[0].L2TokenAddress)
	})
}

func TestBuildClaimOperationIsSparse(t *testing.T) {
	sync, _, _, _ := newTestSynchronizer(t, false)
	decoded := []*etherman.DecodedLog{{
		Raw:   types.Log{TxHash: common.HexToHash("0x01"), BlockNumber: 99},
		Event: &etherman.Claim{Index: 7, Amount: big.NewInt(5)},
	}}

	operations := sync.buildOperations(decoded, map[common.Address]uint64{}, map[uint64]time.Time{99: time.Now()})
	require.Len(t, operations, 1)
	operation := operations[0]

	assert.Equal(t, etherman.OpDeposit, operation.Type)
	assert.Equal(t, uint32(7), operation.Index)
	assert.Equal(t, big.NewInt(5), operation.Amount)
	assert.Nil(t, operation.L1TokenID)
	assert.Nil(t, operation.L2TokenAddress)
	assert.Nil(t, operation.BlockNumber)
	assert.Nil(t, operation.BlockTimestamp)
}
