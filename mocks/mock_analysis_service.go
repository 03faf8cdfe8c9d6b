package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"claimassist/internal/domain"
	"claimassist/internal/port"
	"claimassist/internal/service"
)

// MockAnalysisService is a mock implementation of service.AnalysisService.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, input service.AnalyzeInput) (*domain.ClaimAnalysis, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimAnalysis), args.Error(1)
}

func (m *MockAnalysisService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClaimAnalysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimAnalysis), args.Error(1)
}

func (m *MockAnalysisService) List(ctx context.Context, filter port.AnalysisFilter, offset, limit int) ([]domain.ClaimAnalysis, int, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ClaimAnalysis), args.Int(1), args.Error(2)
}

func (m *MockAnalysisService) Stats(ctx context.Context) (*domain.AnalysisStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisStats), args.Error(1)
}

func (m *MockAnalysisService) GetDownloadURL(ctx context.Context, analysis *domain.ClaimAnalysis) (string, error) {
	args := m.Called(ctx, analysis)
	return args.String(0), args.Error(1)
}

func (m *MockAnalysisService) Reanalyze(ctx context.Context, id uuid.UUID) (*domain.ClaimAnalysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClaimAnalysis), args.Error(1)
}

func (m *MockAnalysisService) ExportXLSX(ctx context.Context, w io.Writer, filter port.AnalysisFilter) error {
	args := m.Called(ctx, w, filter)
	return args.Error(0)
}

func (m *MockAnalysisService) ExportCSV(ctx context.Context, w io.Writer, filter port.AnalysisFilter) error {
	args := m.Called(ctx, w, filter)
	return args.Error(0)
}
