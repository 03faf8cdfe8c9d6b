package port

import (
	"context"

	"github.com/google/uuid"

	"claimassist/internal/domain"
)

// AnalysisFilter narrows analysis listings.
type AnalysisFilter struct {
	InsuranceType domain.InsuranceType
	Status        domain.ClaimStatus
}

// AnalysisRepository defines the contract for pipeline result persistence.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.ClaimAnalysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ClaimAnalysis, error)
	List(ctx context.Context, filter AnalysisFilter, offset, limit int) ([]domain.ClaimAnalysis, int, error)
	Stats(ctx context.Context) (*domain.AnalysisStats, error)
}
