package extractor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"claimassist/internal/domain"
	"claimassist/internal/port"
)

// Failure reasons reported alongside the extraction sentinel.
const (
	FailureTimeout     = "timeout"
	FailureCanceled    = "canceled"
	FailureRateLimited = "rate_limited"
	FailureMalformed   = "malformed"
	FailureProvider    = "provider_error"
	FailurePanic       = "panic"
)

// ErrPanicked wraps a recovered panic from an extractor implementation.
var ErrPanicked = errors.New("extractor panicked")

// Boundary is the pipeline's only door to the external extractor. It enforces
// a deadline and turns every failure into domain.ExtractionFailure.
type Boundary struct {
	inner   port.FieldExtractor
	timeout time.Duration
}

// NewBoundary wraps inner with an enforced per-call timeout.
func NewBoundary(inner port.FieldExtractor, timeout time.Duration) *Boundary {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Boundary{inner: inner, timeout: timeout}
}

// Timeout returns the enforced per-call deadline.
func (b *Boundary) Timeout() time.Duration {
	return b.timeout
}

type extractResult struct {
	fields *domain.ExtractedFields
	err    error
}

// Extract never fails: the returned reason is empty on success and one of the
// Failure* constants when the sentinel was substituted.
func (b *Boundary) Extract(ctx context.Context, input port.ExtractInput) (*domain.ExtractedFields, string) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	done := make(chan extractResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- extractResult{err: fmt.Errorf("%w: %v", ErrPanicked, r)}
			}
		}()
		fields, err := b.inner.Extract(ctx, input)
		done <- extractResult{fields: fields, err: err}
	}()

	var res extractResult
	select {
	case res = <-done:
	case <-ctx.Done():
		res = extractResult{err: ctx.Err()}
	}

	if res.err == nil && res.fields == nil {
		res.err = fmt.Errorf("%w: empty result", ErrMalformedResponse)
	}
	if res.err != nil {
		reason := Classify(res.err)
		log.Printf("extractor.Boundary: extraction failed (%s): %v", reason, res.err)
		return domain.ExtractionFailure(failureMessage(reason, b.timeout)), reason
	}

	fields := *res.fields
	fields.Error = ""
	if fields.ExtractionConfidence < 0 {
		fields.ExtractionConfidence = 0
	}
	if fields.ExtractionConfidence > 1 {
		fields.ExtractionConfidence = 1
	}
	return &fields, ""
}

// Classify maps an extraction error onto a failure reason.
func Classify(err error) string {
	var rlErr *RateLimitError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, context.Canceled):
		return FailureCanceled
	case errors.As(err, &rlErr):
		return FailureRateLimited
	case errors.Is(err, ErrMalformedResponse):
		return FailureMalformed
	case errors.Is(err, ErrPanicked):
		return FailurePanic
	default:
		return FailureProvider
	}
}

func failureMessage(reason string, timeout time.Duration) string {
	switch reason {
	case FailureTimeout:
		return fmt.Sprintf("extraction timed out after %s", timeout)
	case FailureCanceled:
		return "extraction canceled"
	case FailureRateLimited:
		return "extraction provider rate limited"
	case FailureMalformed:
		return "extraction returned a malformed response"
	case FailurePanic:
		return "extraction failed unexpectedly"
	default:
		return "extraction provider error"
	}
}
