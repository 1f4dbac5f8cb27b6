package db

import (
	"context"

	"github.com/Peersyst/blockscout/db/pgstorage"
	"github.com/Peersyst/blockscout/etherman"
	"github.com/Peersyst/blockscout/utils/gerror"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v4"
)

// Storage interface
type Storage interface {
	BeginDBTransaction(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, dbTx pgx.Tx) error
	Rollback(ctx context.Context, dbTx pgx.Tx) error
	GetLastProcessedBlock(ctx context.Context, networkID uint, dbTx pgx.Tx) (uint64, error)
	SetLastProcessedBlock(ctx context.Context, networkID uint, blockNumber uint64, dbTx pgx.Tx) error
	GetTokensByAddresses(ctx context.Context, addresses []common.Address, dbTx pgx.Tx) ([]*etherman.Token, error)
	AddTokens(ctx context.Context, tokens []*etherman.Token, dbTx pgx.Tx) ([]*etherman.Token, error)
	AddOperations(ctx context.Context, operations []*etherman.Operation, dbTx pgx.Tx) error
	GetLatestBatchNumber(ctx context.Context, dbTx pgx.Tx) (uint64, error)
	GetEarliestPendingBatch(ctx context.Context, status etherman.BatchStatus, dbTx pgx.Tx) (uint64, error)
	GetPendingBatches(ctx context.Context, status etherman.BatchStatus, dbTx pgx.Tx) ([]uint64, error)
	GetBatchesByNumbers(ctx context.Context, numbers []uint64, dbTx pgx.Tx) ([]*etherman.Batch, error)
	AddBatches(ctx context.Context, numbers []uint64, status etherman.BatchStatus, dbTx pgx.Tx) error
	UpsertBatch(ctx context.Context, batch *etherman.Batch, dbTx pgx.Tx) error
	AddL1Transaction(ctx context.Context, hash common.Hash, dbTx pgx.Tx) (uint64, error)
	UpdateBatchesStatus(ctx context.Context, numbers []uint64, status etherman.BatchStatus, txID uint64, dbTx pgx.Tx) error
	Close()
}

// NewStorage creates a new Storage
func NewStorage(cfg Config) (Storage, error) {
	if cfg.Database == "postgres" {
		return pgstorage.NewPostgresStorage(pgstorage.Config{
			Name:     cfg.Name,
			User:     cfg.User,
			Password: cfg.Password,
			Host:     cfg.Host,
			Port:     cfg.Port,
			MaxConns: cfg.MaxConns,
		})
	}
	return nil, gerror.ErrStorageNotRegister
}

// RunMigrations will execute pending migrations if needed to keep
// the database updated with the latest changes
func RunMigrations(cfg Config) error {
	config := pgstorage.Config{
		Name:     cfg.Name,
		User:     cfg.User,
		Password: cfg.Password,
		Host:     cfg.Host,
		Port:     cfg.Port,
	}
	return pgstorage.RunMigrations(config)
}

// InitOrReset drops all the known data and reruns the migrations from scratch
func InitOrReset(cfg Config) error {
	config := pgstorage.Config{
		Name:     cfg.Name,
		User:     cfg.User,
		Password: cfg.Password,
		Host:     cfg.Host,
		Port:     cfg.Port,
	}
	return pgstorage.InitOrReset(config)
}
