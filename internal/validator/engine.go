package validator

import (
	"context"

	"claimassist/internal/domain"
)

// Engine runs every registered rule against extracted fields.
type Engine struct {
	registry *Registry
}

// NewEngine creates a new validation engine.
func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	return &Engine{registry: registry}
}

// Validate returns the issues found, ordered by rule registration order.
// Failed extractions carry no fields and yield no issues.
func (e *Engine) Validate(ctx context.Context, fields *domain.ExtractedFields) []domain.ValidationIssue {
	issues := []domain.ValidationIssue{}
	if fields == nil || fields.Failed() {
		return issues
	}
	for _, v := range e.registry.All() {
		issues = append(issues, v.Validate(ctx, fields)...)
	}
	return issues
}
