package pipeline

import (
	"fmt"
	"log"

	"claimassist/internal/config"
	"claimassist/internal/detector"
	"claimassist/internal/extractor"
	"claimassist/internal/metrics"
	"claimassist/internal/port"
	"claimassist/internal/quality"
	"claimassist/internal/risk"
	"claimassist/internal/validator"
)

// FromConfig assembles a Pipeline from configuration. Extraction providers
// must already be registered with the extractor package.
func FromConfig(cfg *config.Config, m *metrics.Metrics) (*Pipeline, error) {
	fieldExtractor, err := extractor.NewFromConfig(&cfg.Extractor)
	if err != nil {
		return nil, fmt.Errorf("building field extractor: %w", err)
	}
	if cfg.Extractor.PrimaryConfig().APIKey == "" {
		log.Printf("pipeline.FromConfig: primary extractor %q has no API key; extraction calls will fail",
			cfg.Extractor.PrimaryConfig().Provider)
	}
	boundary := extractor.NewBoundary(fieldExtractor, cfg.Pipeline.ExtractionTimeout)

	var markerDetector port.MarkerDetector
	if cfg.Detector.Enabled {
		markerDetector = detector.NewHTTPDetector(&cfg.Detector)
		log.Printf("pipeline.FromConfig: visual marker detector enabled at %s", cfg.Detector.Endpoint)
	}

	var jitter risk.JitterSource = risk.NoJitter{}
	if cfg.Pipeline.Jitter {
		jitter = risk.UniformJitter{}
	}

	return New(
		quality.NewAnalyzer(),
		boundary,
		markerDetector,
		validator.NewEngine(validator.NewDefaultRegistry()),
		risk.NewScorer(jitter),
		m,
	), nil
}
