package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"claimassist/internal/domain"
)

// MockDocumentAnalyzer is a mock implementation of service.DocumentAnalyzer.
type MockDocumentAnalyzer struct {
	mock.Mock
}

func (m *MockDocumentAnalyzer) Analyze(ctx context.Context, doc domain.SubmittedDocument) *domain.PipelineResult {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.PipelineResult)
}
