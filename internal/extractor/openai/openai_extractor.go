package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"claimassist/internal/config"
	"claimassist/internal/domain"
	"claimassist/internal/extractor"
	"claimassist/internal/port"
)

const (
	apiBaseURL  = "https://api.openai.com/v1"
	groqBaseURL = "https://api.groq.com/openai/v1"
)

func init() {
	extractor.RegisterProvider("openai", func(cfg *config.ExtractorProviderConfig) (port.FieldExtractor, error) {
		return NewExtractor(cfg), nil
	})
	extractor.RegisterProvider("groq", func(cfg *config.ExtractorProviderConfig) (port.FieldExtractor, error) {
		return NewGroqExtractor(cfg), nil
	})
}

// Extractor implements port.FieldExtractor using the OpenAI Chat Completions API.
// Any OpenAI-compatible endpoint can be targeted through the provider base URL.
type Extractor struct {
	name     string
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewExtractor creates an OpenAI-based field extractor from a provider config.
func NewExtractor(cfg *config.ExtractorProviderConfig) *Extractor {
	return newExtractor("openai", cfg, completionsURL(cfg.BaseURL, apiBaseURL), "gpt-4o")
}

// NewGroqExtractor creates an extractor for Groq's OpenAI-compatible endpoint.
func NewGroqExtractor(cfg *config.ExtractorProviderConfig) *Extractor {
	return newExtractor("groq", cfg, completionsURL(cfg.BaseURL, groqBaseURL), "meta-llama/llama-4-scout-17b-16e-instruct")
}

// NewExtractorWithEndpoint creates an extractor pointing at a custom API endpoint (for testing).
func NewExtractorWithEndpoint(cfg *config.ExtractorProviderConfig, endpoint string) *Extractor {
	return newExtractor("openai", cfg, endpoint, "gpt-4o")
}

func completionsURL(baseURL, fallback string) string {
	if baseURL == "" {
		baseURL = fallback
	}
	return strings.TrimRight(baseURL, "/") + "/chat/completions"
}

func newExtractor(name string, cfg *config.ExtractorProviderConfig, endpoint, defaultModel string) *Extractor {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		name:     name,
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, input port.ExtractInput) (*domain.ExtractedFields, error) {
	prompt := extractor.BuildClaimPrompt(input.InsuranceType)

	contentBlocks, err := buildContentBlocks(input, prompt)
	if err != nil {
		return nil, fmt.Errorf("building content blocks: %w", err)
	}

	reqBody := map[string]interface{}{
		"model":                 e.model,
		"max_completion_tokens": 2048,
		"temperature":           0,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": contentBlocks,
			},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling %s API: %w", e.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, extractor.StatusError(e.name, resp.StatusCode, respBody, resp.Header.Get("Retry-After"))
	}

	return parseResponse(respBody, e.model)
}

func buildContentBlocks(input port.ExtractInput, prompt string) ([]map[string]interface{}, error) {
	encoded := base64.StdEncoding.EncodeToString(input.FileBytes)
	dataURI := fmt.Sprintf("data:%s;base64,%s", input.ContentType, encoded)
	var blocks []map[string]interface{}

	switch input.ContentType {
	case "application/pdf":
		blocks = append(blocks, map[string]interface{}{
			"type": "file",
			"file": map[string]interface{}{
				"filename":  "claim.pdf",
				"file_data": dataURI,
			},
		})
	case "image/jpeg", "image/png", "image/webp":
		blocks = append(blocks, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]interface{}{
				"url": dataURI,
			},
		})
	default:
		return nil, fmt.Errorf("unsupported content type for extraction: %s", input.ContentType)
	}

	blocks = append(blocks, map[string]interface{}{
		"type": "text",
		"text": prompt,
	})

	return blocks, nil
}

// apiResponse models the OpenAI Chat Completions API response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func parseResponse(body []byte, model string) (*domain.ExtractedFields, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling response: %v", extractor.ErrMalformedResponse, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", extractor.ErrMalformedResponse)
	}

	if resp.Choices[0].FinishReason == "length" {
		return nil, fmt.Errorf("%w: output truncated (finish_reason: length)", extractor.ErrMalformedResponse)
	}

	return extractor.DecodeFields(resp.Choices[0].Message.Content, model)
}
