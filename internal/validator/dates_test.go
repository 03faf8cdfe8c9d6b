package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimassist/internal/domain"
	"claimassist/internal/validator"
)

func validate(f *domain.ExtractedFields) []domain.ValidationIssue {
	return validator.NewEngine(nil).Validate(context.Background(), f)
}

func TestValidate_ClaimBeforeAdmission(t *testing.T) {
	issues := validate(&domain.ExtractedFields{AdmissionDate: "2024-01-10", ClaimDate: "2024-01-05"})

	require.Len(t, issues, 1)
	assert.Equal(t, domain.IssueDateMismatch, issues[0].Type)
	assert.Equal(t, domain.SeverityHigh, issues[0].Severity)
	assert.Equal(t, "claim_date", issues[0].Field)
	assert.Contains(t, issues[0].Message, "Claim date is before admission date")
}

func TestValidate_ClaimAfterAdmission(t *testing.T) {
	issues := validate(&domain.ExtractedFields{AdmissionDate: "2024-01-05", ClaimDate: "2024-01-10"})

	assert.Empty(t, issues)
	assert.NotNil(t, issues)
}

func TestValidate_SameDayIsNotAnIssue(t *testing.T) {
	issues := validate(&domain.ExtractedFields{AdmissionDate: "2024-01-05", DischargeDate: "2024-01-05", ClaimDate: "2024-01-05"})

	assert.Empty(t, issues)
}

func TestValidate_DischargeBeforeAdmission(t *testing.T) {
	issues := validate(&domain.ExtractedFields{AdmissionDate: "2024-01-10", DischargeDate: "2024-01-08"})

	require.Len(t, issues, 1)
	assert.Equal(t, "discharge_date", issues[0].Field)
	assert.Equal(t, "Discharge date is before admission date", issues[0].Message)
}

func TestValidate_MultipleIssuesInRuleOrder(t *testing.T) {
	issues := validate(&domain.ExtractedFields{
		AdmissionDate: "2024-01-10",
		DischargeDate: "2024-01-08",
		ClaimDate:     "2024-01-05",
		AccidentDate:  "2024-01-07",
	})

	require.Len(t, issues, 3)
	assert.Contains(t, issues[0].Message, "admission date")
	assert.Equal(t, "claim_date", issues[0].Field)
	assert.Equal(t, "discharge_date", issues[1].Field)
	assert.Contains(t, issues[2].Message, "accident date")
}

func TestValidate_ClaimBeforeIncident(t *testing.T) {
	issues := validate(&domain.ExtractedFields{IncidentDate: "2024-06-02", ClaimDate: "2024-06-01"})

	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "incident date")
}

func TestValidate_MalformedDatesSkipped(t *testing.T) {
	tests := []struct {
		name      string
		admission string
		claim     string
	}{
		{"empty claim", "2024-01-10", ""},
		{"empty admission", "", "2024-01-05"},
		{"day first", "10-01-2024", "2024-01-05"},
		{"garbage", "2024-01-10", "yesterday"},
		{"impossible date", "2024-02-30", "2024-01-05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := validate(&domain.ExtractedFields{AdmissionDate: tt.admission, ClaimDate: tt.claim})
			assert.Empty(t, issues)
		})
	}
}

func TestValidate_FailedExtractionYieldsNoIssues(t *testing.T) {
	issues := validate(domain.ExtractionFailure("timeout"))

	assert.Empty(t, issues)
}

func TestRegistry_OrderAndReplace(t *testing.T) {
	r := validator.NewDefaultRegistry()
	keys := func() []string {
		var out []string
		for _, v := range r.All() {
			out = append(out, v.RuleKey())
		}
		return out
	}

	assert.Equal(t, []string{"date.claim_after_admission", "date.discharge_after_admission", "date.claim_after_incident"}, keys())

	r.Register(validator.DateValidators()[0])
	assert.Len(t, r.All(), 3)
	assert.NotNil(t, r.Get("date.discharge_after_admission"))
	assert.Nil(t, r.Get("missing"))
}
