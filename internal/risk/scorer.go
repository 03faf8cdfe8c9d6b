// Package risk turns pipeline signals into a bounded rejection probability.
//
// The score is an additive heuristic, not a trained model:
//
//	p = 0.10 + 0.35[no signature] + 0.25[blurry] + 0.30[date issues] + 0.15[confidence < 0.70] + jitter
//
// clamped to [0.02, 0.95] and rounded to two decimals.
package risk

import (
	"math"
	"math/rand/v2"

	"claimassist/internal/domain"
)

// Scoring weights.
const (
	BaseProbability        = 0.10
	MissingSignatureWeight = 0.35
	BlurryWeight           = 0.25
	DateIssueWeight        = 0.30
	LowConfidenceWeight    = 0.15

	LowConfidenceThreshold = 0.70

	MinProbability = 0.02
	MaxProbability = 0.95

	MaxJitter = 0.02
)

// Features are the signals the scorer consumes.
type Features struct {
	HasSignature         bool
	IsBlurry             bool
	DateIssueCount       int
	ExtractionConfidence float64
}

// JitterSource supplies the bounded noise added before clamping.
// Implementations must be safe for concurrent use.
type JitterSource interface {
	Jitter() float64
}

// UniformJitter draws from [-MaxJitter, MaxJitter].
type UniformJitter struct{}

func (UniformJitter) Jitter() float64 {
	return rand.Float64()*2*MaxJitter - MaxJitter
}

// NoJitter makes scoring deterministic.
type NoJitter struct{}

func (NoJitter) Jitter() float64 { return 0 }

// FixedJitter always returns its value, bounded to [-MaxJitter, MaxJitter].
type FixedJitter float64

func (f FixedJitter) Jitter() float64 {
	return math.Max(-MaxJitter, math.Min(MaxJitter, float64(f)))
}

// Scorer computes risk assessments.
type Scorer struct {
	jitter JitterSource
}

// NewScorer creates a Scorer. A nil source means no jitter.
func NewScorer(jitter JitterSource) *Scorer {
	if jitter == nil {
		jitter = NoJitter{}
	}
	return &Scorer{jitter: jitter}
}

// Raw returns the unclamped weighted sum without jitter.
func Raw(f Features) float64 {
	p := BaseProbability
	if !f.HasSignature {
		p += MissingSignatureWeight
	}
	if f.IsBlurry {
		p += BlurryWeight
	}
	if f.DateIssueCount > 0 {
		p += DateIssueWeight
	}
	if f.ExtractionConfidence < LowConfidenceThreshold {
		p += LowConfidenceWeight
	}
	return p
}

// Score returns the clamped rejection probability and its health score.
func (s *Scorer) Score(f Features) domain.RiskAssessment {
	p := Clamp(Raw(f) + s.jitter.Jitter())
	return domain.RiskAssessment{
		RejectionProbability: p,
		HealthScore:          HealthScore(p),
	}
}

// Clamp bounds p to [MinProbability, MaxProbability] and rounds to 2 decimals.
func Clamp(p float64) float64 {
	if math.IsNaN(p) {
		return MaxProbability
	}
	p = math.Max(MinProbability, math.Min(MaxProbability, p))
	return math.Round(p*100) / 100
}

// HealthScore is the complement of p as a percentage with one decimal.
func HealthScore(p float64) float64 {
	return math.Round((1-p)*1000) / 10
}
