package batchtracker

import (
	"testing"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageMapping(t *testing.T) {
	commitTx := common.HexToHash("0x01")
	proveTx := common.HexToHash("0x02")
	executeTx := common.HexToHash("0x03")
	details := &etherman.BatchDetails{
		Number:        1,
		CommitTxHash:  &commitTx,
		ProveTxHash:   &proveTx,
		ExecuteTxHash: &executeTx,
	}

	testCases := []struct {
		stage   Stage
		pending etherman.BatchStatus
		target  etherman.BatchStatus
		topic   common.Hash
		marker  *common.Hash
	}{
		{StageCommit, etherman.BatchSealed, etherman.BatchCommitted, blockCommitSignatureHash, &commitTx},
		{StageProve, etherman.BatchCommitted, etherman.BatchProven, blockVerificationSignatureHash, &proveTx},
		{StageExecute, etherman.BatchProven, etherman.BatchExecuted, blockExecutionSignatureHash, &executeTx},
	}
	require.Len(t, stages, len(testCases))

	for i, tc := range testCases {
		assert.Equal(t, tc.stage, stages[i])
		assert.Equal(t, tc.pending, tc.stage.pendingStatus())
		assert.Equal(t, tc.target, tc.stage.targetStatus())
		assert.Equal(t, tc.topic, tc.stage.topic())
		assert.Equal(t, tc.marker, tc.stage.markerTx(details))
	}
}

func TestStageTopics(t *testing.T) {
	// keccak256 of the rollup contract event signatures
	assert.Equal(t, "0x8f2916b2f2d78cc5890ead36c06c0f6d5d112c7e103589947e8e2f0d6eddb763", blockCommitSignatureHash.Hex())
	assert.Equal(t, "0x534a5d16cc6812ea713a2b2dbf130981569c40e33c112c57fba8092cd881cf4e", blockVerificationSignatureHash.Hex())
	assert.Equal(t, "0x2402307311a4d6604e4e7b4c8a15a7e1213edb39c16a31efa70afb06030d3165", blockExecutionSignatureHash.Hex())
}
