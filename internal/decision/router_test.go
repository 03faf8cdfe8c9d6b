package decision_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"claimassist/internal/decision"
	"claimassist/internal/domain"
)

func TestRouteConfidence(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		action     domain.DecisionAction
		status     domain.ClaimStatus
		human      bool
	}{
		{"high", 0.95, domain.ActionAutoApprove, domain.ClaimStatusApproved, false},
		{"upper boundary", 0.90, domain.ActionAutoApprove, domain.ClaimStatusApproved, false},
		{"half a point below upper", 0.895, domain.ActionNeedsConfirmation, domain.ClaimStatusPending, true},
		{"float noise below upper", 0.8999999999999999, domain.ActionAutoApprove, domain.ClaimStatusApproved, false},
		{"just below upper", 0.89, domain.ActionNeedsConfirmation, domain.ClaimStatusPending, true},
		{"middle", 0.80, domain.ActionNeedsConfirmation, domain.ClaimStatusPending, true},
		{"lower boundary", 0.70, domain.ActionNeedsConfirmation, domain.ClaimStatusPending, true},
		{"half a point below lower", 0.695, domain.ActionManualReview, domain.ClaimStatusUnderReview, true},
		{"just below lower", 0.69, domain.ActionManualReview, domain.ClaimStatusUnderReview, true},
		{"low", 0.50, domain.ActionManualReview, domain.ClaimStatusUnderReview, true},
		{"floor", 0.05, domain.ActionManualReview, domain.ClaimStatusUnderReview, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decision.RouteConfidence(tt.confidence)
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.status, d.Status)
			assert.Equal(t, tt.human, d.RequiresHuman)
		})
	}
}

func TestRoute_FromProbability(t *testing.T) {
	assert.Equal(t, domain.ActionAutoApprove, decision.Route(0.10).Action)
	assert.Equal(t, domain.ActionAutoApprove, decision.Route(0.02).Action)
	assert.Equal(t, domain.ActionNeedsConfirmation, decision.Route(0.20).Action)
	assert.Equal(t, domain.ActionNeedsConfirmation, decision.Route(0.30).Action)
	assert.Equal(t, domain.ActionManualReview, decision.Route(0.31).Action)
	assert.Equal(t, domain.ActionManualReview, decision.Route(0.95).Action)
}

func TestRoute_FloatNoiseAtBoundaries(t *testing.T) {
	// 1 - 0.1 and 1 - 0.3 are not exactly 0.90 and 0.70 in binary floating point.
	assert.Equal(t, domain.ActionAutoApprove, decision.Route(0.1).Action)
	assert.Equal(t, domain.ActionNeedsConfirmation, decision.Route(0.3).Action)
}

func TestRoute_Messages(t *testing.T) {
	assert.Equal(t, "Auto-approved: High confidence score", decision.Route(0.05).Message)
	assert.Equal(t, "Requires your confirmation before processing", decision.Route(0.25).Message)
	assert.Equal(t, "Flagged for manual review by claims officer", decision.Route(0.60).Message)
}
