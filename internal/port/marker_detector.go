package port

import (
	"context"

	"claimassist/internal/domain"
)

// DetectInput carries the image handed to a visual marker detector.
type DetectInput struct {
	FileBytes   []byte
	ContentType string
}

// MarkerDetector finds signatures and stamps on a document image.
type MarkerDetector interface {
	Detect(ctx context.Context, input DetectInput) (*domain.VisualMarkers, error)
}
