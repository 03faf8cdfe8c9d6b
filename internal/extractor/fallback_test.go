package extractor_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"claimassist/internal/domain"
	"claimassist/internal/extractor"
	"claimassist/internal/port"
	"claimassist/mocks"
)

func fallbackOutput(model string) *domain.ExtractedFields {
	return &domain.ExtractedFields{PatientName: "Asha Rao", ExtractionConfidence: 0.9, ModelUsed: model}
}

var fallbackInput = port.ExtractInput{FileBytes: []byte("test"), ContentType: "image/png", InsuranceType: domain.InsuranceHealth}

func TestFallbackExtractor_FirstSucceeds(t *testing.T) {
	e1 := new(mocks.MockFieldExtractor)
	e2 := new(mocks.MockFieldExtractor)
	e1.On("Extract", mock.Anything, fallbackInput).Return(fallbackOutput("gemini"), nil)

	fe := extractor.NewFallbackExtractor([]port.FieldExtractor{e1, e2}, []string{"gemini", "claude"})

	result, err := fe.Extract(context.Background(), fallbackInput)

	require.NoError(t, err)
	assert.Equal(t, "gemini", result.ModelUsed)
	e2.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestFallbackExtractor_FirstFails_SecondSucceeds(t *testing.T) {
	e1 := new(mocks.MockFieldExtractor)
	e2 := new(mocks.MockFieldExtractor)
	e1.On("Extract", mock.Anything, fallbackInput).Return(nil, errors.New("generic error"))
	e2.On("Extract", mock.Anything, fallbackInput).Return(fallbackOutput("claude"), nil)

	fe := extractor.NewFallbackExtractor([]port.FieldExtractor{e1, e2}, []string{"gemini", "claude"})

	result, err := fe.Extract(context.Background(), fallbackInput)

	require.NoError(t, err)
	assert.Equal(t, "claude", result.ModelUsed)
}

func TestFallbackExtractor_RateLimitedProviderIsSkippedNextCall(t *testing.T) {
	e1 := new(mocks.MockFieldExtractor)
	e2 := new(mocks.MockFieldExtractor)
	e1.On("Extract", mock.Anything, fallbackInput).Return(nil, extractor.NewRateLimitError("gemini", errors.New("429"), 60)).Once()
	e2.On("Extract", mock.Anything, fallbackInput).Return(fallbackOutput("groq"), nil).Twice()

	fe := extractor.NewFallbackExtractor([]port.FieldExtractor{e1, e2}, []string{"gemini", "groq"})

	for i := 0; i < 2; i++ {
		result, err := fe.Extract(context.Background(), fallbackInput)
		require.NoError(t, err)
		assert.Equal(t, "groq", result.ModelUsed)
	}
	e1.AssertNumberOfCalls(t, "Extract", 1)
	e2.AssertExpectations(t)
}

func TestFallbackExtractor_AllRateLimited(t *testing.T) {
	e1 := new(mocks.MockFieldExtractor)
	e2 := new(mocks.MockFieldExtractor)
	e1.On("Extract", mock.Anything, fallbackInput).Return(nil, extractor.NewRateLimitError("gemini", errors.New("429"), 60))
	e2.On("Extract", mock.Anything, fallbackInput).Return(nil, extractor.NewRateLimitError("claude", errors.New("429"), 30))

	fe := extractor.NewFallbackExtractor([]port.FieldExtractor{e1, e2}, []string{"gemini", "claude"})

	result, err := fe.Extract(context.Background(), fallbackInput)

	assert.Nil(t, result)
	var rlErr *extractor.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "all", rlErr.Provider)
}

func TestFallbackExtractor_AllFail_NonRateLimit(t *testing.T) {
	e1 := new(mocks.MockFieldExtractor)
	e2 := new(mocks.MockFieldExtractor)
	e1.On("Extract", mock.Anything, fallbackInput).Return(nil, errors.New("error 1"))
	e2.On("Extract", mock.Anything, fallbackInput).Return(nil, errors.New("error 2"))

	fe := extractor.NewFallbackExtractor([]port.FieldExtractor{e1, e2}, []string{"gemini", "claude"})

	result, err := fe.Extract(context.Background(), fallbackInput)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all extractors failed")
	var rlErr *extractor.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestFallbackExtractor_StopsOnCanceledContext(t *testing.T) {
	e1 := new(mocks.MockFieldExtractor)
	fe := extractor.NewFallbackExtractor([]port.FieldExtractor{e1}, []string{"gemini"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fe.Extract(ctx, fallbackInput)

	assert.ErrorIs(t, err, context.Canceled)
	e1.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestFallbackExtractor_ConcurrentSafety(t *testing.T) {
	e1 := new(mocks.MockFieldExtractor)
	e2 := new(mocks.MockFieldExtractor)
	e1.On("Extract", mock.Anything, fallbackInput).Return(nil, extractor.NewRateLimitError("gemini", errors.New("429"), 5)).Maybe()
	e2.On("Extract", mock.Anything, fallbackInput).Return(fallbackOutput("claude"), nil).Maybe()

	fe := extractor.NewFallbackExtractor([]port.FieldExtractor{e1, e2}, []string{"gemini", "claude"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := fe.Extract(context.Background(), fallbackInput)
			assert.NoError(t, err)
			assert.NotNil(t, result)
		}()
	}
	wg.Wait()
}
