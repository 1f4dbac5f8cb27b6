package bridgesync

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

// tokenEthermanMock is a mock implementation of tokenEtherMan.
type tokenEthermanMock struct {
	mock.Mock
}

func (m *tokenEthermanMock) TokenSymbol(ctx context.Context, tokenAddr common.Address) (string, error) {
	args := m.Called(ctx, tokenAddr)
	return args.String(0), args.Error(1)
}

func (m *tokenEthermanMock) TokenDecimals(ctx context.Context, tokenAddr common.Address) (uint8, error) {
	args := m.Called(ctx, tokenAddr)
	return args.Get(0).(uint8), args.Error(1)
}

// newTokenEthermanMock creates a new instance of tokenEthermanMock. It also
// registers a testing interface on the mock and a cleanup function to assert
// the mocks expectations.
func newTokenEthermanMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *tokenEthermanMock {
	m := &tokenEthermanMock{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
