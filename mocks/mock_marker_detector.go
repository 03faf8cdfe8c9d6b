package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimassist/internal/domain"
	"claimassist/internal/port"
)

// MockMarkerDetector is a mock implementation of port.MarkerDetector.
type MockMarkerDetector struct {
	mock.Mock
}

func (m *MockMarkerDetector) Detect(ctx context.Context, input port.DetectInput) (*domain.VisualMarkers, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VisualMarkers), args.Error(1)
}
