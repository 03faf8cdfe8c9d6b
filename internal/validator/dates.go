package validator

import (
	"strings"
	"time"

	"claimassist/internal/domain"
)

// DateLayout is the normalized date format the extractor is asked to produce.
const DateLayout = "2006-01-02"

// parseDate returns false for empty or malformed values; those are skipped.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// before reports whether a is strictly before b when both parse.
func before(a, b string) bool {
	ta, okA := parseDate(a)
	tb, okB := parseDate(b)
	return okA && okB && ta.Before(tb)
}

func dateIssue(field, message string) []domain.ValidationIssue {
	return []domain.ValidationIssue{{
		Type:     domain.IssueDateMismatch,
		Severity: domain.SeverityHigh,
		Message:  message,
		Field:    field,
	}}
}

// DateValidators returns the date-ordering rules in evaluation order.
func DateValidators() []Validator {
	return []Validator{
		&rule{
			key: "date.claim_after_admission", name: "Claim date on or after admission date",
			severity: domain.SeverityHigh,
			check: func(f *domain.ExtractedFields) []domain.ValidationIssue {
				if before(f.ClaimDate, f.AdmissionDate) {
					return dateIssue("claim_date", "Claim date is before admission date, possible fraud indicator")
				}
				return nil
			},
		},
		&rule{
			key: "date.discharge_after_admission", name: "Discharge date on or after admission date",
			severity: domain.SeverityHigh,
			check: func(f *domain.ExtractedFields) []domain.ValidationIssue {
				if before(f.DischargeDate, f.AdmissionDate) {
					return dateIssue("discharge_date", "Discharge date is before admission date")
				}
				return nil
			},
		},
		&rule{
			key: "date.claim_after_incident", name: "Claim date on or after accident or incident date",
			severity: domain.SeverityHigh,
			check: func(f *domain.ExtractedFields) []domain.ValidationIssue {
				switch {
				case before(f.ClaimDate, f.AccidentDate):
					return dateIssue("claim_date", "Claim date is before accident date")
				case before(f.ClaimDate, f.IncidentDate):
					return dateIssue("claim_date", "Claim date is before incident date")
				}
				return nil
			},
		},
	}
}
