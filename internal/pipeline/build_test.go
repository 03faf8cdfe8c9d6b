package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claimassist/internal/config"
	"claimassist/internal/domain"
	"claimassist/internal/extractor"
	"claimassist/internal/metrics"
	"claimassist/internal/pipeline"
	"claimassist/internal/port"
	"claimassist/mocks"
)

func buildConfig(provider string) *config.Config {
	return &config.Config{
		Extractor: config.ExtractorConfig{Provider: provider, APIKey: "test-key"},
		Pipeline:  config.PipelineConfig{ExtractionTimeout: time.Second},
	}
}

func TestFromConfig_UsesRegisteredProvider(t *testing.T) {
	ext := new(mocks.MockFieldExtractor)
	ext.On("Extract", mock.Anything, mock.Anything).Return(cleanFields(), nil)
	extractor.RegisterProvider("pipeline-build-test", func(*config.ExtractorProviderConfig) (port.FieldExtractor, error) {
		return ext, nil
	})

	p, err := pipeline.FromConfig(buildConfig("pipeline-build-test"), metrics.New())
	require.NoError(t, err)

	result := p.Analyze(context.Background(), doc(sharpPNG(t), "image/png"))

	assert.Equal(t, 0.10, result.RejectionProbability)
	assert.Equal(t, domain.ActionAutoApprove, result.Decision.Action)
	ext.AssertExpectations(t)
}

func TestFromConfig_UnknownProvider(t *testing.T) {
	p, err := pipeline.FromConfig(buildConfig("no-such-provider"), nil)

	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extractor provider")
}
