package batchtracker

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"time"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/Peersyst/blockscout/log"
	"github.com/Peersyst/blockscout/metrics"
	"github.com/Peersyst/blockscout/utils/gerror"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jackc/pgx/v4"
)

// Outcome classifies the result of one Advance call.
type Outcome string

// Advance outcomes.
const (
	// OutcomeNothingToDo means no batch awaits the stage.
	OutcomeNothingToDo Outcome = "nothing to do"
	// OutcomeSkip means the stage marker transaction was not observed yet.
	OutcomeSkip Outcome = "skip"
	// OutcomeImported means the stage transition was persisted.
	OutcomeImported Outcome = "imported"
	// OutcomeRecoveryRequired means the local batch state diverged from the
	// chain and the listed batches must be rebuilt before advancing again.
	OutcomeRecoveryRequired Outcome = "recovery required"
)

// Result is the outcome of advancing one lifecycle stage.
type Result struct {
	Outcome        Outcome
	Imported       []uint64
	RecoverBatches []uint64
}

// Tracker reconciles the lifecycle of rollup batches against the marker
// transactions the rollup contract sends on L1.
type Tracker struct {
	storage  storageInterface
	etherMan localEtherMan
	rollup   rollupClientInterface
	cfg      Config
}

// NewTracker creates a batch status tracker.
func NewTracker(storage storageInterface, etherMan localEtherMan, rollup rollupClientInterface, cfg Config) *Tracker {
	return &Tracker{
		storage:  storage,
		etherMan: etherMan,
		rollup:   rollup,
		cfg:      cfg,
	}
}

// Start runs the tracker loop until the context is canceled.
func (t *Tracker) Start(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.SyncInterval.Duration)
	defer ticker.Stop()
	for {
		t.tick(ctx)
		select {
		case <-ctx.Done():
			log.Debug("batch tracker ctx done")
			return
		case <-ticker.C:
		}
	}
}

// tick discovers new batches and tries to advance every lifecycle stage once.
func (t *Tracker) tick(ctx context.Context) {
	if err := t.discoverBatches(ctx); err != nil {
		log.Errorf("error discovering new batches: %v", err)
	}
	for _, stage := range stages {
		result, err := t.Advance(ctx, stage)
		if err != nil {
			log.Errorf("error advancing batches through the %s stage: %v", stage, err)
			continue
		}
		switch result.Outcome {
		case OutcomeImported:
			log.Infof("%d batches advanced to %s: %v", len(result.Imported), stage.targetStatus(), result.Imported)
			metrics.RecordBatchTransitions(string(stage.targetStatus()), len(result.Imported))
		case OutcomeRecoveryRequired:
			log.Warnf("local batch state diverged at the %s stage, re-deriving batches %v", stage, result.RecoverBatches)
			metrics.RecordBatchRecovery(string(stage))
			if err := t.Recover(ctx, result.RecoverBatches); err != nil {
				log.Errorf("error re-deriving batches: %v", err)
			}
		}
	}
}

// Advance tries to move the earliest batch awaiting the given stage, together
// with every sibling batch announced by the same marker transaction, to the
// stage's target status.
func (t *Tracker) Advance(ctx context.Context, stage Stage) (Result, error) {
	earliest, err := t.storage.GetEarliestPendingBatch(ctx, stage.pendingStatus(), nil)
	if errors.Is(err, gerror.ErrStorageNotFound) {
		return Result{Outcome: OutcomeNothingToDo}, nil
	}
	if err != nil {
		return Result{}, err
	}

	details, err := t.rollup.GetBatchDetails(ctx, earliest)
	if errors.Is(err, etherman.ErrNotFound) {
		// The rollup node does not know the batch yet.
		return Result{Outcome: OutcomeSkip}, nil
	}
	if err != nil {
		return Result{}, err
	}
	markerTx := stage.markerTx(details)
	if markerTx == nil {
		return Result{Outcome: OutcomeSkip}, nil
	}

	receipt, err := t.etherMan.GetTxReceipt(ctx, *markerTx)
	if err != nil {
		return Result{}, err
	}
	extracted := extractBatchNumbers(receipt.Logs, stage.topic())

	consistent, err := t.checkExtracted(ctx, earliest, extracted, stage)
	if err != nil {
		return Result{}, err
	}
	if !consistent {
		pending, err := t.storage.GetPendingBatches(ctx, stage.pendingStatus(), nil)
		if err != nil {
			return Result{}, err
		}
		return Result{Outcome: OutcomeRecoveryRequired, RecoverBatches: mergeNumbers(pending, extracted)}, nil
	}

	if err := t.importTransition(ctx, extracted, *markerTx, stage); err != nil {
		return Result{}, err
	}
	return Result{Outcome: OutcomeImported, Imported: extracted}, nil
}

// checkExtracted reports whether the batch set announced by the receipt lines
// up with the local state. The earliest pending batch must be part of the set
// and every announced batch must be known locally, still awaiting the stage.
func (t *Tracker) checkExtracted(ctx context.Context, earliest uint64, extracted []uint64, stage Stage) (bool, error) {
	found := false
	for _, number := range extracted {
		if number == earliest {
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	batches, err := t.storage.GetBatchesByNumbers(ctx, extracted, nil)
	if err != nil {
		return false, err
	}
	statuses := make(map[uint64]etherman.BatchStatus, len(batches))
	for _, batch := range batches {
		statuses[batch.Number] = batch.Status
	}
	for _, number := range extracted {
		if statuses[number] != stage.pendingStatus() {
			return false, nil
		}
	}
	return true, nil
}

// importTransition persists the stage transition of the extracted batches and
// the marker transaction behind it in a single db transaction.
func (t *Tracker) importTransition(ctx context.Context, numbers []uint64, markerTx common.Hash, stage Stage) error {
	dbTx, err := t.storage.BeginDBTransaction(ctx)
	if err != nil {
		return err
	}
	txID, err := t.storage.AddL1Transaction(ctx, markerTx, dbTx)
	if err != nil {
		return t.rollback(ctx, dbTx, err)
	}
	if err := t.storage.UpdateBatchesStatus(ctx, numbers, stage.targetStatus(), txID, dbTx); err != nil {
		return t.rollback(ctx, dbTx, err)
	}
	if err := t.storage.Commit(ctx, dbTx); err != nil {
		return t.rollback(ctx, dbTx, err)
	}
	return nil
}

// rollback reverts dbTx and hands back the original failure, or the rollback
// failure when reverting fails too.
func (t *Tracker) rollback(ctx context.Context, dbTx pgx.Tx, err error) error {
	if rollbackErr := t.storage.Rollback(ctx, dbTx); rollbackErr != nil {
		log.Errorf("error rolling back batch import. RollbackErr: %v, err: %s", rollbackErr, err.Error())
		return rollbackErr
	}
	return err
}

// extractBatchNumbers collects the batch numbers announced by the receipt for
// one stage topic. The batch number is the first indexed topic of the marker
// event.
func extractBatchNumbers(logs []*types.Log, topic common.Hash) []uint64 {
	var numbers []uint64
	for _, vLog := range logs {
		if vLog == nil || len(vLog.Topics) < 2 || vLog.Topics[0] != topic {
			continue
		}
		numbers = append(numbers, new(big.Int).SetBytes(vLog.Topics[1].Bytes()).Uint64())
	}
	return numbers
}

// mergeNumbers unions two batch number sets into one sorted slice.
func mergeNumbers(a, b []uint64) []uint64 {
	seen := make(map[uint64]bool, len(a)+len(b))
	merged := make([]uint64, 0, len(a)+len(b))
	for _, number := range append(append([]uint64{}, a...), b...) {
		if seen[number] {
			continue
		}
		seen[number] = true
		merged = append(merged, number)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })
	return merged
}
