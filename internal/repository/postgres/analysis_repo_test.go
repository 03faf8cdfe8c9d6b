package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"claimassist/internal/domain"
	"claimassist/internal/port"
)

func TestFilterClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    port.AnalysisFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{"empty", port.AnalysisFilter{}, "", nil},
		{
			"insurance type only",
			port.AnalysisFilter{InsuranceType: domain.InsuranceTravel},
			" WHERE insurance_type = $1",
			[]interface{}{domain.InsuranceTravel},
		},
		{
			"status only",
			port.AnalysisFilter{Status: domain.ClaimStatusPending},
			" WHERE status = $1",
			[]interface{}{domain.ClaimStatusPending},
		},
		{
			"both",
			port.AnalysisFilter{InsuranceType: domain.InsuranceHealth, Status: domain.ClaimStatusApproved},
			" WHERE insurance_type = $1 AND status = $2",
			[]interface{}{domain.InsuranceHealth, domain.ClaimStatusApproved},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := filterClause(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
