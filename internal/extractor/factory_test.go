package extractor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimassist/internal/config"
	"claimassist/internal/domain"
	"claimassist/internal/extractor"
	"claimassist/internal/port"
)

// stubExtractor is a minimal FieldExtractor for testing the factory.
type stubExtractor struct {
	model string
}

func (s *stubExtractor) Extract(_ context.Context, _ port.ExtractInput) (*domain.ExtractedFields, error) {
	return &domain.ExtractedFields{ModelUsed: s.model, ExtractionConfidence: 0.9}, nil
}

func registerStub(name string) {
	extractor.RegisterProvider(name, func(cfg *config.ExtractorProviderConfig) (port.FieldExtractor, error) {
		return &stubExtractor{model: cfg.DefaultModel}, nil
	})
}

func TestFactory_RegisterAndCreate(t *testing.T) {
	registerStub("test-provider")

	ext, err := extractor.NewExtractor(&config.ExtractorProviderConfig{
		Provider:     "test-provider",
		DefaultModel: "test-model",
	})

	require.NoError(t, err)
	out, err := ext.Extract(context.Background(), port.ExtractInput{})
	require.NoError(t, err)
	assert.Equal(t, "test-model", out.ModelUsed)
	assert.Contains(t, extractor.Providers(), "test-provider")
}

func TestFactory_UnknownProvider(t *testing.T) {
	ext, err := extractor.NewExtractor(&config.ExtractorProviderConfig{
		Provider: "nonexistent-provider-xyz",
	})

	assert.Nil(t, ext)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown extractor provider")
}

func TestNewFromConfig_SingleProvider(t *testing.T) {
	registerStub("stub-single")

	ext, err := extractor.NewFromConfig(&config.ExtractorConfig{Provider: "stub-single", DefaultModel: "m1"})

	require.NoError(t, err)
	_, isFallback := ext.(*extractor.FallbackExtractor)
	assert.False(t, isFallback)
}

func TestNewFromConfig_Chain(t *testing.T) {
	registerStub("stub-primary")
	registerStub("stub-secondary")

	ext, err := extractor.NewFromConfig(&config.ExtractorConfig{
		Primary:   config.ExtractorProviderConfig{Provider: "stub-primary", DefaultModel: "first"},
		Secondary: config.ExtractorProviderConfig{Provider: "stub-secondary", DefaultModel: "second"},
	})

	require.NoError(t, err)
	_, isFallback := ext.(*extractor.FallbackExtractor)
	assert.True(t, isFallback)

	out, err := ext.Extract(context.Background(), port.ExtractInput{})
	require.NoError(t, err)
	assert.Equal(t, "first", out.ModelUsed)
}

func TestNewFromConfig_UnknownTier(t *testing.T) {
	registerStub("stub-ok")

	_, err := extractor.NewFromConfig(&config.ExtractorConfig{
		Primary:  config.ExtractorProviderConfig{Provider: "stub-ok"},
		Tertiary: config.ExtractorProviderConfig{Provider: "missing"},
	})

	assert.Error(t, err)
}
