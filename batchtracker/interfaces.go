package batchtracker

import (
	"context"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/jackc/pgx/v4"
)

// localEtherMan reads the L1 receipts of the rollup contract marker
// transactions.
type localEtherMan interface {
	GetTxReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// rollupClientInterface queries the rollup node's own view of its batches.
type rollupClientInterface interface {
	GetBatchDetails(ctx context.Context, number uint64) (*etherman.BatchDetails, error)
	GetLatestBatchNumber(ctx context.Context) (uint64, error)
}

// storageInterface gathers the methods required to interact with the state.
type storageInterface interface {
	BeginDBTransaction(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, dbTx pgx.Tx) error
	Rollback(ctx context.Context, dbTx pgx.Tx) error
	GetLatestBatchNumber(ctx context.Context, dbTx pgx.Tx) (uint64, error)
	GetEarliestPendingBatch(ctx context.Context, status etherman.BatchStatus, dbTx pgx.Tx) (uint64, error)
	GetPendingBatches(ctx context.Context, status etherman.BatchStatus, dbTx pgx.Tx) ([]uint64, error)
	GetBatchesByNumbers(ctx context.Context, numbers []uint64, dbTx pgx.Tx) ([]*etherman.Batch, error)
	AddBatches(ctx context.Context, numbers []uint64, status etherman.BatchStatus, dbTx pgx.Tx) error
	UpsertBatch(ctx context.Context, batch *etherman.Batch, dbTx pgx.Tx) error
	AddL1Transaction(ctx context.Context, hash common.Hash, dbTx pgx.Tx) (uint64, error)
	UpdateBatchesStatus(ctx context.Context, numbers []uint64, status etherman.BatchStatus, txID uint64, dbTx pgx.Tx) error
}
