// Package pipeline sequences the document-intake stages into a single,
// always-complete PipelineResult.
package pipeline

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"claimassist/internal/decision"
	"claimassist/internal/detector"
	"claimassist/internal/domain"
	"claimassist/internal/extractor"
	"claimassist/internal/metrics"
	"claimassist/internal/port"
	"claimassist/internal/quality"
	"claimassist/internal/risk"
	"claimassist/internal/validator"
)

// Stage names used for timing metrics.
const (
	StageQuality    = "quality"
	StageExtraction = "extraction"
	StageDetection  = "detection"
	StageValidation = "validation"
	StageScoring    = "scoring"
)

// Pipeline runs quality, extraction, optional visual detection, validation,
// scoring and routing for one document per call. It holds no per-call state.
type Pipeline struct {
	analyzer  *quality.Analyzer
	extractor *extractor.Boundary
	detector  port.MarkerDetector
	validator *validator.Engine
	scorer    *risk.Scorer
	metrics   *metrics.Metrics
	now       func() time.Time
}

// New creates a Pipeline. detector and m may be nil; nil analyzer, engine or
// scorer fall back to the defaults (scoring without jitter).
func New(
	analyzer *quality.Analyzer,
	boundary *extractor.Boundary,
	markerDetector port.MarkerDetector,
	engine *validator.Engine,
	scorer *risk.Scorer,
	m *metrics.Metrics,
) *Pipeline {
	if analyzer == nil {
		analyzer = quality.NewAnalyzer()
	}
	if engine == nil {
		engine = validator.NewEngine(nil)
	}
	if scorer == nil {
		scorer = risk.NewScorer(nil)
	}
	return &Pipeline{
		analyzer:  analyzer,
		extractor: boundary,
		detector:  markerDetector,
		validator: engine,
		scorer:    scorer,
		metrics:   m,
		now:       time.Now,
	}
}

// WithClock overrides the processing timestamp source.
func (p *Pipeline) WithClock(now func() time.Time) *Pipeline {
	p.now = now
	return p
}

// Analyze never fails: every degraded stage has a fallback value, and the
// degradation shows up in the score and reasons instead.
func (p *Pipeline) Analyze(ctx context.Context, doc domain.SubmittedDocument) *domain.PipelineResult {
	start := time.Now()

	q := p.assessQuality(doc)
	fields := p.extract(ctx, doc)
	p.detect(ctx, doc, fields)

	t := time.Now()
	issues := p.validator.Validate(ctx, fields)
	p.metrics.ObserveStage(StageValidation, time.Since(t))

	reasons := buildReasons(q, fields, issues)

	t = time.Now()
	assessment := p.scorer.Score(risk.Features{
		HasSignature:         fields.HasSignature,
		IsBlurry:             q.IsBlurry,
		DateIssueCount:       countDateIssues(issues),
		ExtractionConfidence: fields.ExtractionConfidence,
	})
	disposition := decision.Route(assessment.RejectionProbability)
	p.metrics.ObserveStage(StageScoring, time.Since(t))

	result := &domain.PipelineResult{
		ID:                   uuid.New(),
		InsuranceType:        doc.InsuranceType,
		Quality:              q,
		Extracted:            *fields,
		ValidationIssues:     issues,
		Reasons:              reasons,
		RejectionProbability: assessment.RejectionProbability,
		HealthScore:          assessment.HealthScore,
		ClaimAmount:          fields.ClaimAmount,
		Decision:             disposition,
		ProcessedAt:          p.now().UTC(),
	}

	p.metrics.RecordOutcome(string(disposition.Action), string(doc.InsuranceType), assessment.RejectionProbability)
	log.Printf("pipeline.Analyze: %s type=%s quality=%s issues=%d p=%.2f action=%s in %s",
		result.ID, doc.InsuranceType, q.Quality, len(issues), assessment.RejectionProbability,
		disposition.Action, time.Since(start).Round(time.Millisecond))

	return result
}

func (p *Pipeline) assessQuality(doc domain.SubmittedDocument) domain.QualityAssessment {
	t := time.Now()
	q := p.analyzer.Assess(doc.Bytes)
	p.metrics.ObserveStage(StageQuality, time.Since(t))
	p.metrics.RecordQuality(string(q.Quality))
	return q
}

func (p *Pipeline) extract(ctx context.Context, doc domain.SubmittedDocument) *domain.ExtractedFields {
	if p.extractor == nil {
		p.metrics.RecordExtractionFailure("not_configured")
		return domain.ExtractionFailure("no extractor configured")
	}
	t := time.Now()
	fields, reason := p.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:     doc.Bytes,
		ContentType:   doc.ContentType,
		InsuranceType: doc.InsuranceType,
	})
	p.metrics.ObserveStage(StageExtraction, time.Since(t))
	if reason != "" {
		p.metrics.RecordExtractionFailure(reason)
	}
	return fields
}

// detect overwrites the extractor's signature and stamp booleans with the
// visual detector's when it succeeds. Failures leave the fields untouched.
func (p *Pipeline) detect(ctx context.Context, doc domain.SubmittedDocument, fields *domain.ExtractedFields) {
	if p.detector == nil || !strings.HasPrefix(doc.ContentType, "image/") {
		return
	}
	t := time.Now()
	markers, err := p.detector.Detect(ctx, port.DetectInput{FileBytes: doc.Bytes, ContentType: doc.ContentType})
	p.metrics.ObserveStage(StageDetection, time.Since(t))
	switch {
	case errors.Is(err, detector.ErrUnavailable):
		p.metrics.RecordDetector("unavailable")
		return
	case err != nil:
		log.Printf("pipeline.detect: marker detection failed, keeping extractor values: %v", err)
		p.metrics.RecordDetector("error")
		return
	case markers == nil:
		p.metrics.RecordDetector("empty")
		return
	}
	p.metrics.RecordDetector("ok")
	fields.HasSignature = markers.HasSignature
	fields.HasStamp = markers.HasStamp
	fields.Markers = markers
}

func countDateIssues(issues []domain.ValidationIssue) int {
	n := 0
	for _, issue := range issues {
		if issue.Type == domain.IssueDateMismatch {
			n++
		}
	}
	return n
}
