package pipeline

import (
	"fmt"
	"strings"

	"claimassist/internal/domain"
)

// Reason messages.
const (
	msgUnreadable       = "Document image could not be read. Please upload a clearer image."
	msgMissingSignature = "Required signature not detected on the document"
	msgMissingStamp     = "Official stamp/seal not found, may require verification"
	msgPoorText         = "Partial text detected. Some fields may be unclear."
)

// buildReasons annotates a result in a fixed order: quality, signature,
// stamp, date issues, text clarity, extraction failure.
func buildReasons(q domain.QualityAssessment, f *domain.ExtractedFields, issues []domain.ValidationIssue) []domain.Reason {
	reasons := []domain.Reason{}

	if q.IsBlurry {
		msg := fmt.Sprintf("Document image is blurry (variance: %.2f). Please upload a clearer image.", q.Variance)
		if q.Quality == domain.QualityUnreadable {
			msg = msgUnreadable
		}
		reasons = append(reasons, domain.Reason{Type: domain.ReasonQuality, Severity: domain.SeverityHigh, Message: msg})
	}

	if !f.HasSignature {
		reasons = append(reasons, domain.Reason{
			Type: domain.ReasonMissingSignature, Severity: domain.SeverityHigh,
			Message: msgMissingSignature, Field: "has_signature",
		})
	}

	if !f.HasStamp {
		reasons = append(reasons, domain.Reason{
			Type: domain.ReasonMissingStamp, Severity: domain.SeverityMedium,
			Message: msgMissingStamp, Field: "has_stamp",
		})
	}

	for _, issue := range issues {
		reasons = append(reasons, domain.Reason{
			Type:     domain.ReasonType(issue.Type),
			Severity: issue.Severity,
			Message:  issue.Message,
			Field:    issue.Field,
		})
	}

	if strings.EqualFold(f.TextClarity, "poor") {
		reasons = append(reasons, domain.Reason{
			Type: domain.ReasonTextQuality, Severity: domain.SeverityMedium,
			Message: msgPoorText, Field: "text_clarity",
		})
	}

	if f.Failed() {
		reasons = append(reasons, domain.Reason{
			Type: domain.ReasonExtractionFailed, Severity: domain.SeverityHigh,
			Message: fmt.Sprintf("Automatic field extraction failed: %s. Manual review required.", f.Error),
		})
	}

	return reasons
}
