package batchtracker

import (
	"context"
	"errors"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/Peersyst/blockscout/log"
	"github.com/Peersyst/blockscout/metrics"
	"github.com/Peersyst/blockscout/utils/gerror"
)

// discoverBatches registers as sealed the batches the rollup node knows about
// but the local store does not.
func (t *Tracker) discoverBatches(ctx context.Context) error {
	latest, err := t.rollup.GetLatestBatchNumber(ctx)
	if err != nil {
		return err
	}
	localTip, err := t.storage.GetLatestBatchNumber(ctx, nil)
	if errors.Is(err, gerror.ErrStorageNotFound) {
		localTip = t.cfg.InitialBatchNumber
	} else if err != nil {
		return err
	}
	if latest <= localTip {
		return nil
	}

	fromBatch := localTip + 1
	toBatch := latest
	if toBatch-fromBatch+1 > t.cfg.ChunkSize {
		toBatch = fromBatch + t.cfg.ChunkSize - 1
	}
	numbers := make([]uint64, 0, toBatch-fromBatch+1)
	for number := fromBatch; number <= toBatch; number++ {
		numbers = append(numbers, number)
	}
	if err := t.storage.AddBatches(ctx, numbers, etherman.BatchSealed, nil); err != nil {
		return err
	}
	log.Infof("discovered %d new batches, %d-%d", len(numbers), fromBatch, toBatch)
	metrics.RecordDiscoveredBatches(len(numbers))
	return nil
}

// Recover rebuilds the listed batches from the rollup node's view. Each batch
// row is rewritten with the status its reported marker transactions imply.
func (t *Tracker) Recover(ctx context.Context, numbers []uint64) error {
	for _, number := range numbers {
		if err := t.recoverBatch(ctx, number); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) recoverBatch(ctx context.Context, number uint64) error {
	details, err := t.rollup.GetBatchDetails(ctx, number)
	if errors.Is(err, etherman.ErrNotFound) {
		log.Warnf("batch %d is not known by the rollup node, skipping re-derivation", number)
		return nil
	}
	if err != nil {
		return err
	}

	dbTx, err := t.storage.BeginDBTransaction(ctx)
	if err != nil {
		return err
	}
	batch := &etherman.Batch{Number: number, Status: etherman.BatchSealed}
	for _, stage := range stages {
		markerTx := stage.markerTx(details)
		if markerTx == nil {
			break
		}
		txID, err := t.storage.AddL1Transaction(ctx, *markerTx, dbTx)
		if err != nil {
			return t.rollback(ctx, dbTx, err)
		}
		id := txID
		switch stage {
		case StageCommit:
			batch.CommitTxID = &id
		case StageProve:
			batch.ProveTxID = &id
		default:
			batch.ExecuteTxID = &id
		}
		batch.Status = stage.targetStatus()
	}
	if err := t.storage.UpsertBatch(ctx, batch, dbTx); err != nil {
		return t.rollback(ctx, dbTx, err)
	}
	if err := t.storage.Commit(ctx, dbTx); err != nil {
		return t.rollback(ctx, dbTx, err)
	}
	log.Infof("batch %d re-derived with status %s", number, batch.Status)
	return nil
}
