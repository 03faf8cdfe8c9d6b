package validator

import (
	"context"

	"claimassist/internal/domain"
)

// Validator is the interface for a single cross-field rule.
type Validator interface {
	Validate(ctx context.Context, fields *domain.ExtractedFields) []domain.ValidationIssue
	RuleKey() string
	RuleName() string
	Severity() domain.Severity
}

// rule adapts a plain check function to Validator.
type rule struct {
	key      string
	name     string
	severity domain.Severity
	check    func(*domain.ExtractedFields) []domain.ValidationIssue
}

func (r *rule) RuleKey() string           { return r.key }
func (r *rule) RuleName() string          { return r.name }
func (r *rule) Severity() domain.Severity { return r.severity }

func (r *rule) Validate(_ context.Context, fields *domain.ExtractedFields) []domain.ValidationIssue {
	return r.check(fields)
}
