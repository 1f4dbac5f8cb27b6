package batchtracker

import (
	"context"

	"github.com/Peersyst/blockscout/etherman"
	"github.com/stretchr/testify/mock"
)

// rollupClientMock is a mock implementation of rollupClientInterface.
type rollupClientMock struct {
	mock.Mock
}

func (m *rollupClientMock) GetBatchDetails(ctx context.Context, number uint64) (*etherman.BatchDetails, error) {
	args := m.Called(ctx, number)
	var details *etherman.BatchDetails
	if args.Get(0) != nil {
		details = args.Get(0).(*etherman.BatchDetails)
	}
	return details, args.Error(1)
}

func (m *rollupClientMock) GetLatestBatchNumber(ctx context.Context) (uint64, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint64), args.Error(1)
}

// newRollupClientMock creates a new instance of rollupClientMock. It also
// registers a testing interface on the mock and a cleanup function to assert
// the mocks expectations.
func newRollupClientMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *rollupClientMock {
	m := &rollupClientMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
