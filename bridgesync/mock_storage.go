package bridgesync

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

func (m *storageMock) GetLastProcessedBlock(ctx context.Context, networkID uint, dbTx pgx.Tx) (uint64, error) {
	args := m.Called(ctx, networkID, dbTx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *storageMock) SetLastProcessedBlock(ctx context.Context, networkID uint, blockNumber uint64, dbTx pgx.Tx) error {
	args := m.Called(ctx, networkID, blockNumber, dbTx)
	return args.Error(0)
}

func (m *storageMock) GetTokensByAddresses(ctx context.Context, addresses []common.Address, dbTx pgx.Tx) ([]*etherman.Token, error) {
	args := m.Called(ctx, addresses, dbTx)
	var tokens []*etherman.Token
	if args.Get(0) != nil {
		tokens = args.Get(0).([]*etherman.Token)
	}
	return tokens, args.Error(1)
}

func (m *storageMock) AddTokens(ctx context.Context, tokens []*etherman.Token, dbTx pgx.Tx) ([]*etherman.Token, error) {
	args := m.Called(ctx, tokens, dbTx)
	var inserted []*etherman.Token
	if args.Get(0) != nil {
		inserted = args.Get(0).([]*etherman.Token)
	}
	return inserted, args.Error(1)
}

func (m *storageMock) AddOperations(ctx context.Context, operations []*etherman.Operation, dbTx pgx.Tx) error {
	args := m.Called(ctx, operations, dbTx)
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
