package port

import (
	"context"

	"claimassist/internal/domain"
)

// ExtractInput carries the data an external extraction capability needs.
type ExtractInput struct {
	FileBytes     []byte
	ContentType   string
	InsuranceType domain.InsuranceType
}

// FieldExtractor abstracts vision/LLM based field extraction. Implementations
// return an error for any transport failure or malformed response; they never
// return partially decoded data.
type FieldExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*domain.ExtractedFields, error)
}
