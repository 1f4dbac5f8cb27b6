package batchtracker

import (
	"context"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/mock"
)

// storageMock is a mock implementation of storageInterface.
type storageMock struct {
	mock.Mock
}

func (m *storageMock) BeginDBTransaction(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var dbTx pgx.Tx
	if args.Get(0) != nil {
		dbTx = args.Get(0).(pgx.Tx)
	}
	return dbTx, args.Error(1)
}

func (m *storageMock) Commit(ctx context.Context, dbTx pgx.Tx) error {
	args := m.Called(ctx, dbTx)
	return args.Error(0)
}

func (m *storageMock) Rollback(ctx context.Context, dbTx pgx.Tx) error {
	args := m.Called(ctx, dbTx)
	return args.Error(0)
}

func (m *storageMock) GetLatestBatchNumber(ctx context.Context, dbTx pgx.Tx) (uint64, error) {
	args := m.Called(ctx, dbTx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *storageMock) GetEarliestPendingBatch(ctx context.Context, status etherman.BatchStatus, dbTx pgx.Tx) (uint64, error) {
	args := m.Called(ctx, status, dbTx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *storageMock) GetPendingBatches(ctx context.Context, status etherman.BatchStatus, dbTx pgx.Tx) ([]uint64, error) {
	args := m.Called(ctx, status, dbTx)
	var numbers []uint64
	if args.Get(0) != nil {
		numbers = args.Get(0).([]uint64)
	}
	return numbers, args.Error(1)
}

func (m *storageMock) GetBatchesByNumbers(ctx context.Context, numbers []uint64, dbTx pgx.Tx) ([]*etherman.Batch, error) {
	args := m.Called(ctx, numbers, dbTx)
	var batches []*etherman.Batch
	if args.Get(0) != nil {
		batches = args.Get(0).([]*etherman.Batch)
	}
	return batches, args.Error(1)
}

func (m *storageMock) AddBatches(ctx context.Context, numbers []uint64, status etherman.BatchStatus, dbTx pgx.Tx) error {
	args := m.Called(ctx, numbers, status, dbTx)
	return args.Error(0)
}

func (m *storageMock) UpsertBatch(ctx context.Context, batch *etherman.Batch, dbTx pgx.Tx) error {
	args := m.Called(ctx, batch, dbTx)
	return args.Error(0)
}

func (m *storageMock) AddL1Transaction(ctx context.Context, hash common.Hash, dbTx pgx.Tx) (uint64, error) {
	args := m.Called(ctx, hash, dbTx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *storageMock) UpdateBatchesStatus(ctx context.Context, numbers []uint64, status etherman.BatchStatus, txID uint64, dbTx pgx.Tx) error {
	args := m.Called(ctx, numbers, status, txID, dbTx)
	return args.Error(0)
}

// newStorageMock creates a new instance of storageMock. It also registers a
// testing interface on the mock and a cleanup function to assert the mocks
// expectations.
func newStorageMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *storageMock {
	m := &storageMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
