package batchtracker

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	cfgTypes "github.com/Peersyst/blockscout/config/types"
	"github.com/Peersyst/blockscout/etherman"
	"github.com/Peersyst/blockscout/utils/gerror"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) (*Tracker, *storageMock, *ethermanMock, *rollupClientMock) {
	storage := newStorageMock(t)
	etherMan := newEthermanMock(t)
	rollup := newRollupClientMock(t)
	cfg := Config{
		Enabled:            true,
		SyncInterval:       cfgTypes.NewDuration(time.Second),
		ChunkSize:          100,
		InitialBatchNumber: 0,
	}
	return NewTracker(storage, etherMan, rollup, cfg), storage, etherMan, rollup
}

// stageLog builds the L1 marker log announcing one batch number.
func stageLog(topic common.Hash, batchNumber uint64) *types.Log {
	return &types.Log{
		Topics: []common.Hash{topic, common.BigToHash(new(big.Int).SetUint64(batchNumber))},
	}
}

func TestAdvanceNothingToDo(t *testing.T) {
	tracker, storage, _, _ := newTestTracker(t)
	ctx := mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })

	storage.On("GetEarliestPendingBatch", ctx, etherman.BatchSealed, nil).Return(uint64(0), gerror.ErrStorageNotFound).Once()

	result, err := tracker.Advance(context.Background(), StageCommit)
	require.NoError(t, err)
	require.Equal(t, OutcomeNothingToDo, result.Outcome)
}

func TestAdvanceSkipsBatchUnknownToRollupNode(t *testing.T) {
	tracker, storage, _, rollup := newTestTracker(t)
	ctx := mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })

	storage.On("GetEarliestPendingBatch", ctx, etherman.BatchSealed, nil).Return(uint64(10), nil).Once()
	rollup.On("GetBatchDetails", ctx, uint64(10)).Return(nil, etherman.ErrNotFound).Once()

	result, err := tracker.Advance(context.Background(), StageCommit)
	require.NoError(t, err)
	require.Equal(t, OutcomeSkip, result.Outcome)
}

func TestAdvanceSkipsUnsentStage(t *testing.T) {
	tracker, storage, _, rollup := newTestTracker(t)
	ctx := mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })

	// the batch exists but its commit transaction was not sent yet
	storage.On("GetEarliestPendingBatch", ctx, etherman.BatchSealed, nil).Return(uint64(10), nil).Once()
	rollup.On("GetBatchDetails", ctx, uint64(10)).Return(&etherman.BatchDetails{Number: 10}, nil).Once()

	result, err := tracker.Advance(context.Background(), StageCommit)
	require.NoError(t, err)
	require.Equal(t, OutcomeSkip, result.Outcome)
}

func TestAdvanceImportsSiblingBatches(t *testing.T) {
	tracker, storage, etherMan, rollup := newTestTracker(t)
	ctx := mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })
	commitTx := common.HexToHash("0x01")

	storage.On("GetEarliestPendingBatch", ctx, etherman.BatchSealed, nil).Return(uint64(10), nil).Once()
	rollup.On("GetBatchDetails", ctx, uint64(10)).Return(&etherman.BatchDetails{Number: 10, CommitTxHash: &commitTx}, nil).Once()

	// one commit transaction announcing batches 10, 11 and 12, among logs of
	// other contracts and stages
	receipt := &types.Receipt{Logs: []*types.Log{
		stageLog(blockCommitSignatureHash, 10),
		stageLog(blockVerificationSignatureHash, 9),
		{Topics: []common.Hash{blockCommitSignatureHash}},
		stageLog(blockCommitSignatureHash, 11),
		stageLog(blockCommitSignatureHash, 12),
	}}
	etherMan.On("GetTxReceipt", ctx, commitTx).Return(receipt, nil).Once()

	storage.On("GetBatchesByNumbers", ctx, []uint64{10, 11, 12}, nil).Return([]*etherman.Batch{
		{Number: 10, Status: etherman.BatchSealed},
		{Number: 11, Status: etherman.BatchSealed},
		{Number: 12, Status: etherman.BatchSealed},
	}, nil).Once()

	storage.On("BeginDBTransaction", ctx).Return(nil, nil).Once()
	storage.On("AddL1Transaction", ctx, commitTx, nil).Return(uint64(77), nil).Once()
	storage.On("UpdateBatchesStatus", ctx, []uint64{10, 11, 12}, etherman.BatchCommitted, uint64(77), nil).Return(nil).Once()
	storage.On("Commit", ctx, nil).Return(nil).Once()

	result, err := tracker.Advance(context.Background(), StageCommit)
	require.NoError(t, err)
	require.Equal(t, OutcomeImported, result.Outcome)
	require.Equal(t, []uint64{10, 11, 12}, result.Imported)
}

func TestAdvanceSignalsRecoveryWhenEarliestIsMissing(t *testing.T) {
	tracker, storage, etherMan, rollup := newTestTracker(t)
	ctx := mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })
	commitTx := common.HexToHash("0x02")

	storage.On("GetEarliestPendingBatch", ctx, etherman.BatchSealed, nil).Return(uint64(10), nil).Once()
	rollup.On("GetBatchDetails", ctx, uint64(10)).Return(&etherman.BatchDetails{Number: 10, CommitTxHash: &commitTx}, nil).Once()

	// the receipt announces 11 and 12 but not the expected batch 10
	receipt := &types.Receipt{Logs: []*types.Log{
		stageLog(blockCommitSignatureHash, 11),
		stageLog(blockCommitSignatureHash, 12),
	}}
	etherMan.On("GetTxReceipt", ctx, commitTx).Return(receipt, nil).Once()
	storage.On("GetPendingBatches", ctx, etherman.BatchSealed, nil).Return([]uint64{10, 11, 12}, nil).Once()

	result, err := tracker.Advance(context.Background(), StageCommit)
	require.NoError(t, err)
	require.Equal(t, OutcomeRecoveryRequired, result.Outcome)
	require.Equal(t, []uint64{10, 11, 12}, result.RecoverBatches)
	storage.AssertNotCalled(t, "UpdateBatchesStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAdvanceSignalsRecoveryOnLocallyUnknownBatch(t *testing.T) {
	tracker, storage, etherMan, rollup := newTestTracker(t)
	ctx := mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })
	commitTx := common.HexToHash("0x03")

	storage.On("GetEarliestPendingBatch", ctx, etherman.BatchSealed, nil).Return(uint64(10), nil).Once()
	rollup.On("GetBatchDetails", ctx, uint64(10)).Return(&etherman.BatchDetails{Number: 10, CommitTxHash: &commitTx}, nil).Once()

	receipt := &types.Receipt{Logs: []*types.Log{
		stageLog(blockCommitSignatureHash, 10),
		stageLog(blockCommitSignatureHash, 11),
	}}
	etherMan.On("GetTxReceipt", ctx, commitTx).Return(receipt, nil).Once()

	// batch 11 was never discovered locally
	storage.On("GetBatchesByNumbers", ctx, []uint64{10, 11}, nil).Return([]*etherman.Batch{
		{Number: 10, Status: etherman.BatchSealed},
	}, nil).Once()
	storage.On("GetPendingBatches", ctx, etherman.BatchSealed, nil).Return([]uint64{10}, nil).Once()

	result, err := tracker.Advance(context.Background(), StageCommit)
	require.NoError(t, err)
	require.Equal(t, OutcomeRecoveryRequired, result.Outcome)
	require.Equal(t, []uint64{10, 11}, result.RecoverBatches)
}

func TestAdvanceProveStage(t *testing.T) {
	tracker, storage, etherMan, rollup := newTestTracker(t)
	ctx := mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })
	proveTx := common.HexToHash("0x04")

	storage.On("GetEarliestPendingBatch", ctx, etherman.BatchCommitted, nil).Return(uint64(5), nil).Once()
	rollup.On("GetBatchDetails", ctx, uint64(5)).Return(&etherman.BatchDetails{Number: 5, ProveTxHash: &proveTx}, nil).Once()

	receipt := &types.Receipt{Logs: []*types.Log{
		stageLog(blockVerificationSignatureHash, 5),
	}}
	etherMan.On("GetTxReceipt", ctx, proveTx).Return(receipt, nil).Once()
	storage.On("GetBatchesByNumbers", ctx, []uint64{5}, nil).Return([]*etherman.Batch{
		{Number: 5, Status: etherman.BatchCommitted},
	}, nil).Once()

	storage.On("BeginDBTransaction", ctx).Return(nil, nil).Once()
	storage.On("AddL1Transaction", ctx, proveTx, nil).Return(uint64(3), nil).Once()
	storage.On("UpdateBatchesStatus", ctx, []uint64{5}, etherman.BatchProven, uint64(3), nil).Return(nil).Once()
	storage.On("Commit", ctx, nil).Return(nil).Once()

	result, err := tracker.Advance(context.Background(), StageProve)
	require.NoError(t, err)
	require.Equal(t, OutcomeImported, result.Outcome)
	require.Equal(t, []uint64{5}, result.Imported)
}

func TestAdvanceRollsBackFailedImport(t *testing.T) {
	tracker, storage, etherMan, rollup := newTestTracker(t)
	ctx := mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })
	commitTx := common.HexToHash("0x05")
	errDB := errors.New("connection reset")

	storage.On("GetEarliestPendingBatch", ctx, etherman.BatchSealed, nil).Return(uint64(10), nil).Once()
	rollup.On("GetBatchDetails", ctx, uint64(10)).Return(&etherman.BatchDetails{Number: 10, CommitTxHash: &commitTx}, nil).Once()
	etherMan.On("GetTxReceipt", ctx, commitTx).Return(&types.Receipt{Logs: []*types.Log{
		stageLog(blockCommitSignatureHash, 10),
	}}, nil).Once()
	storage.On("GetBatchesByNumbers", ctx, []uint64{10}, nil).Return([]*etherman.Batch{
		{Number: 10, Status: etherman.BatchSealed},
	}, nil).Once()

	storage.On("BeginDBTransaction", ctx).Return(nil, nil).Once()
	storage.On("AddL1Transaction", ctx, commitTx, nil).Return(uint64(0), errDB).Once()
	storage.On("Rollback", ctx, nil).Return(nil).Once()

	_, err := tracker.Advance(context.Background(), StageCommit)
	require.ErrorIs(t, err, errDB)
	storage.AssertNotCalled(t, "Commit", mock.Anything, mock.Anything)
}

func TestExtractBatchNumbers(t *testing.T) {
	logs := []*types.Log{
		stageLog(blockCommitSignatureHash, 7),
		nil,
		stageLog(blockExecutionSignatureHash, 7),
		{Topics: []common.Hash{blockCommitSignatureHash}},
		{},
		stageLog(blockCommitSignatureHash, 8),
	}

	require.Equal(t, []uint64{7, 8}, extractBatchNumbers(logs, blockCommitSignatureHash))
	require.Equal(t, []uint64{7}, extractBatchNumbers(logs, blockExecutionSignatureHash))
	require.Empty(t, extractBatchNumbers(logs, blockVerificationSignatureHash))
}

func TestStartRecoversAfterDrift(t *testing.T) {
	tracker, storage, etherMan, rollup := newTestTracker(t)
	ctx := mock.MatchedBy(func(ctx context.Context) bool { return ctx != nil })
	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	commitTx := common.HexToHash("0x06")

	// discovery finds nothing new
	rollup.On("GetLatestBatchNumber", ctx).Return(uint64(12), nil).Once()
	storage.On("GetLatestBatchNumber", ctx, nil).Return(uint64(12), nil).Once()

	// the commit stage detects drift: the receipt announces 11 and 12 only
	storage.On("GetEarliestPendingBatch", ctx, etherman.BatchSealed, nil).Return(uint64(10), nil).Once()
	rollup.On("GetBatchDetails", ctx, uint64(10)).Return(&etherman.BatchDetails{Number: 10, CommitTxHash: &commitTx}, nil).Once()
	etherMan.On("GetTxReceipt", ctx, commitTx).Return(&types.Receipt{Logs: []*types.Log{
		stageLog(blockCommitSignatureHash, 11),
		stageLog(blockCommitSignatureHash, 12),
	}}, nil).Once()
	storage.On("GetPendingBatches", ctx, etherman.BatchSealed, nil).Return([]uint64{10, 11, 12}, nil).Once()

	// every diverged batch is re-derived from the rollup node
	for _, number := range []uint64{10, 11, 12} {
		rollup.On("GetBatchDetails", ctx, number).Return(&etherman.BatchDetails{Number: number, CommitTxHash: &commitTx}, nil).Once()
	}
	storage.On("BeginDBTransaction", ctx).Return(nil, nil).Times(3)
	storage.On("AddL1Transaction", ctx, commitTx, nil).Return(uint64(5), nil).Times(3)
	txID := uint64(5)
	for _, number := range []uint64{10, 11, 12} {
		storage.On("UpsertBatch", ctx, &etherman.Batch{Number: number, Status: etherman.BatchCommitted, CommitTxID: &txID}, nil).Return(nil).Once()
	}
	storage.On("Commit", ctx, nil).Return(nil).Times(3)

	// the remaining stages have nothing pending, the last one stops the loop
	storage.On("GetEarliestPendingBatch", ctx, etherman.BatchCommitted, nil).Return(uint64(0), gerror.ErrStorageNotFound).Once()
	storage.
		On("GetEarliestPendingBatch", ctx, etherman.BatchProven, nil).
		Run(func(args mock.Arguments) { cancel() }).
		Return(uint64(0), gerror.ErrStorageNotFound).
		Once()

	tracker.Start(runCtx)
}
