package bridgesync

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

// ethermanMock is a mock implementation of localEtherMan.
type ethermanMock struct {
	mock.Mock
}

func (m *ethermanMock) GetLatestBlockNumber(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *ethermanMock) GetBridgeLogs(ctx context.Context, bridgeAddr common.Address, fromBlock, toBlock uint64) ([]types.Log, error) {
	args := m.Called(ctx, bridgeAddr, fromBlock, toBlock)
	var logs []types.Log
	if args.Get(0) != nil {
		logs = args.Get(0).([]types.Log)
	}
	return logs, args.Error(1)
}

func (m *ethermanMock) GetBlocksTimestamps(ctx context.Context, blockNumbers []uint64) (map[uint64]time.Time, error) {
	args := m.Called(ctx, blockNumbers)
	var timestamps map[uint64]time.Time
	if args.Get(0) != nil {
		timestamps = args.Get(0).(map[uint64]time.Time)
	}
	return timestamps, args.Error(1)
}

// newEthermanMock creates a new instance of ethermanMock. It also registers a
// testing interface on the mock and a cleanup function to assert the mocks
// expectations.
func newEthermanMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *ethermanMock {
	m := &ethermanMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
