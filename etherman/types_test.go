package etherman

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositToken(t *testing.T) {
	tokenAddr := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")

	tests := []struct {
		name    string
		deposit Deposit
		wantL1  *common.Address
		wantL2  *common.Address
	}{
		{
			name:    "asset from mainnet",
			deposit: Deposit{LeafType: LeafTypeAsset, OriginNetwork: 0, OriginAddress: tokenAddr},
			wantL1:  &tokenAddr,
		},
		{
			name:    "asset from rollup",
			deposit: Deposit{LeafType: LeafTypeAsset, OriginNetwork: 1, OriginAddress: tokenAddr},
			wantL2:  &tokenAddr,
		},
		{
			name:    "message transfer carries no token",
			deposit: Deposit{LeafType: LeafTypeMessage, OriginNetwork: 0, OriginAddress: tokenAddr},
		},
		{
			name:    "unknown origin network",
			deposit: Deposit{LeafType: LeafTypeAsset, OriginNetwork: 2, OriginAddress: tokenAddr},
		},
		{
			name:    "native coin uses the zero address",
			deposit: Deposit{LeafType: LeafTypeAsset, OriginNetwork: 0, OriginAddress: common.Address{}},
		},
		{
			name:    "native coin from rollup",
			deposit: Deposit{LeafType: LeafTypeAsset, OriginNetwork: 1, OriginAddress: common.Address{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := tt.deposit.Token()

			l1, okL1 := ref.L1()
			if tt.wantL1 != nil {
				require.True(t, okL1)
				assert.Equal(t, *tt.wantL1, l1)
			} else {
				assert.False(t, okL1)
			}

			l2, okL2 := ref.L2()
			if tt.wantL2 != nil {
				require.True(t, okL2)
				assert.Equal(t, *tt.wantL2, l2)
			} else {
				assert.False(t, okL2)
			}
		})
	}
}

func TestBatchStatusOrder(t *testing.T) {
	assert.Equal(t, BatchStatus("sealed"), BatchSealed)
	assert.Equal(t, BatchStatus("committed"), BatchCommitted)
	assert.Equal(t, BatchStatus("proven"), BatchProven)
	assert.Equal(t, BatchStatus("executed"), BatchExecuted)
}
