// Package decision maps a rejection probability onto a human-in-the-loop disposition.
package decision

import "claimassist/internal/domain"

// Confidence thresholds, inclusive.
const (
	AutoApproveThreshold  = 0.90
	ConfirmationThreshold = 0.70
)

// Disposition messages.
const (
	MessageAutoApproved = "Auto-approved: High confidence score"
	MessageConfirmation = "Requires your confirmation before processing"
	MessageManualReview = "Flagged for manual review by claims officer"
)

// Route decides the disposition for rejection probability p.
func Route(p float64) domain.Disposition {
	return RouteConfidence(1 - p)
}

// boundaryEpsilon absorbs float noise such as 1-0.1 so that 0.90 and 0.70
// land in the upper bracket.
const boundaryEpsilon = 1e-9

// RouteConfidence decides the disposition for a confidence value.
func RouteConfidence(confidence float64) domain.Disposition {
	switch {
	case confidence >= AutoApproveThreshold-boundaryEpsilon:
		return domain.Disposition{
			Action:        domain.ActionAutoApprove,
			Status:        domain.ClaimStatusApproved,
			RequiresHuman: false,
			Message:       MessageAutoApproved,
		}
	case confidence >= ConfirmationThreshold-boundaryEpsilon:
		return domain.Disposition{
			Action:        domain.ActionNeedsConfirmation,
			Status:        domain.ClaimStatusPending,
			RequiresHuman: true,
			Message:       MessageConfirmation,
		}
	default:
		return domain.Disposition{
			Action:        domain.ActionManualReview,
			Status:        domain.ClaimStatusUnderReview,
			RequiresHuman: true,
			Message:       MessageManualReview,
		}
	}
}
