// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/covevo/schema"
)

// MeasurementClient retrieves previous measures from the remote analysis server.
// This allows the regression logic to be tested without a real server.
type MeasurementClient interface {
	// FetchMeasurement returns the value of one metric for one component.
	// The boolean is false when no value is available for any reason;
	// failures are logged by the implementation and never returned.
	FetchMeasurement(ctx context.Context, key schema.MeasurementKey) (float64, bool)
}
