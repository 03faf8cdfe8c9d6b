package gemini_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimassist/internal/config"
	"claimassist/internal/domain"
	"claimassist/internal/extractor"
	"claimassist/internal/extractor/gemini"
	"claimassist/internal/port"
)

func newTestExtractor(serverURL string) *gemini.Extractor {
	cfg := &config.ExtractorProviderConfig{
		Provider:     "gemini",
		APIKey:       "test-gemini-key",
		DefaultModel: "gemini-2.5-flash",
		TimeoutSecs:  30,
	}
	return gemini.NewExtractorWithEndpoint(cfg, serverURL)
}

func successResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"role": "model",
					"parts": []map[string]interface{}{
						{"text": text},
					},
				},
				"finishReason": "STOP",
			},
		},
	}
}

func TestGeminiExtractor_Extract_PNG_Success(t *testing.T) {
	llmJSON := `{"patient_name":"Asha Rao","policy_number":"POL-1","claim_amount":1200,"has_signature":true,"has_stamp":true,"text_clarity":"good","admission_date":"2024-01-05","claim_date":"2024-01-10","extraction_confidence":0.88}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-gemini-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))

		contents := reqBody["contents"].([]interface{})
		assert.Len(t, contents, 1)
		parts := contents[0].(map[string]interface{})["parts"].([]interface{})
		assert.Len(t, parts, 2)

		inlineData := parts[0].(map[string]interface{})["inline_data"].(map[string]interface{})
		assert.Equal(t, "image/png", inlineData["mime_type"])
		assert.NotEmpty(t, inlineData["data"])

		prompt := parts[1].(map[string]interface{})["text"].(string)
		assert.Contains(t, prompt, "health insurance claim")
		assert.Contains(t, prompt, "DO NOT guess")

		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genConfig["responseMimeType"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(successResponse(llmJSON))
	}))
	defer server.Close()

	result, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:     []byte("\x89PNG fake"),
		ContentType:   "image/png",
		InsuranceType: domain.InsuranceHealth,
	})

	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", result.PatientName)
	assert.InDelta(t, 1200.0, result.ClaimAmount, 1e-9)
	assert.True(t, result.HasSignature)
	assert.InDelta(t, 0.88, result.ExtractionConfidence, 1e-9)
	assert.Equal(t, "gemini-2.5-flash", result.ModelUsed)
}

func TestGeminiExtractor_Extract_UnsupportedContentType(t *testing.T) {
	_, err := newTestExtractor("http://unused").Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("GIF89a"),
		ContentType: "image/gif",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestGeminiExtractor_Extract_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429}}`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("x"),
		ContentType: "image/jpeg",
	})

	var rlErr *extractor.RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, "gemini", rlErr.Provider)
}

func TestGeminiExtractor_Extract_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`internal`))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("x"),
		ContentType: "application/pdf",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestGeminiExtractor_Extract_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("x"),
		ContentType: "image/png",
	})

	assert.ErrorIs(t, err, extractor.ErrMalformedResponse)
}

func TestGeminiExtractor_Extract_NonJSONText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(successResponse("Sorry, I cannot read this image."))
	}))
	defer server.Close()

	_, err := newTestExtractor(server.URL).Extract(context.Background(), port.ExtractInput{
		FileBytes:   []byte("x"),
		ContentType: "image/png",
	})

	assert.ErrorIs(t, err, extractor.ErrMalformedResponse)
}

func TestGeminiProvider_Registered(t *testing.T) {
	assert.Contains(t, extractor.Providers(), "gemini")
}
