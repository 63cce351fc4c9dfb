package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockGateway is a testify mock of database.Gateway. Query is recorded with
// its variadic arguments collapsed into a single []any.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Query(ctx context.Context, dest any, query string, args ...any) (int64, error) {
	ret := m.Called(ctx, dest, query, args)
	return ret.Get(0).(int64), ret.Error(1)
}

func (m *MockGateway) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
