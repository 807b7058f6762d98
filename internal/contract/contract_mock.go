package contract

import (
	"context"

	"github.com/huangsam/covevo/schema"
	"github.com/stretchr/testify/mock"
)

// MockMeasurementClient is a mock implementation of MeasurementClient for testing.
type MockMeasurementClient struct {
	mock.Mock
}

var _ MeasurementClient = &MockMeasurementClient{} // Compile-time check

// FetchMeasurement implements the MeasurementClient interface.
func (m *MockMeasurementClient) FetchMeasurement(ctx context.Context, key schema.MeasurementKey) (float64, bool) {
	args := m.Called(ctx, key)
	return args.Get(0).(float64), args.Bool(1)
}
