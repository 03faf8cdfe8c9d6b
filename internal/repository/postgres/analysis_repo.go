package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"claimassist/internal/domain"
	"claimassist/internal/port"
)

type analysisRepo struct {
	db *sqlx.DB
}

// NewAnalysisRepo creates a new PostgreSQL-backed AnalysisRepository.
func NewAnalysisRepo(db *sqlx.DB) port.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, a *domain.ClaimAnalysis) error {
	a.CreatedAt = time.Now().UTC()

	query := `INSERT INTO claim_analyses
		(id, claim_reference, insurance_type, document_type, file_name, original_name,
		 content_type, file_size, page_count, storage_bucket, storage_key, action, status,
		 requires_human, rejection_probability, health_score, claim_amount, result,
		 processed_at, created_at)
		VALUES (:id, :claim_reference, :insurance_type, :document_type, :file_name, :original_name,
		 :content_type, :file_size, :page_count, :storage_bucket, :storage_key, :action, :status,
		 :requires_human, :rejection_probability, :health_score, :claim_amount, :result,
		 :processed_at, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("analysisRepo.Create: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ClaimAnalysis, error) {
	var a domain.ClaimAnalysis
	err := r.db.GetContext(ctx, &a, "SELECT * FROM claim_analyses WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("analysisRepo.GetByID: %w", err)
	}
	return &a, nil
}

// filterClause builds the WHERE clause for a listing filter. Placeholders
// start at $1; the returned args line up with them.
func filterClause(filter port.AnalysisFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if filter.InsuranceType != "" {
		args = append(args, filter.InsuranceType)
		conds = append(conds, fmt.Sprintf("insurance_type = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *analysisRepo) List(ctx context.Context, filter port.AnalysisFilter, offset, limit int) ([]domain.ClaimAnalysis, int, error) {
	where, args := filterClause(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM claim_analyses"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List count: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM claim_analyses%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	analyses := []domain.ClaimAnalysis{}
	if err := r.db.SelectContext(ctx, &analyses, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List: %w", err)
	}
	return analyses, total, nil
}

const analysisStatsQuery = `SELECT
	COUNT(*) AS total,
	COUNT(CASE WHEN status = 'approved' THEN 1 END) AS approved,
	COUNT(CASE WHEN status = 'pending' THEN 1 END) AS pending,
	COUNT(CASE WHEN status = 'under_review' THEN 1 END) AS under_review,
	COALESCE(SUM(claim_amount), 0) AS total_amount
FROM claim_analyses`

func (r *analysisRepo) Stats(ctx context.Context) (*domain.AnalysisStats, error) {
	var stats domain.AnalysisStats
	if err := r.db.GetContext(ctx, &stats, analysisStatsQuery); err != nil {
		return nil, fmt.Errorf("analysisRepo.Stats: %w", err)
	}
	return &stats, nil
}
