// Package detector talks to an external object-detection service that locates
// signatures and stamps on claim document images.
package detector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"claimassist/internal/config"
	"claimassist/internal/domain"
	"claimassist/internal/port"
)

// ErrUnavailable is returned while the detector circuit is open.
var ErrUnavailable = errors.New("marker detector unavailable")

// Labels the detector reports for the markers the pipeline cares about.
var (
	signatureLabels = map[string]bool{"signature": true, "handwritten_signature": true}
	stampLabels     = map[string]bool{"stamp": true, "seal": true, "official_stamp": true}
)

// HTTPDetector implements port.MarkerDetector against a YOLO-style HTTP service.
type HTTPDetector struct {
	endpoint      string
	apiKey        string
	minConfidence float64
	client        *http.Client
	breaker       *gobreaker.CircuitBreaker[*domain.VisualMarkers]
}

// NewHTTPDetector creates a detector from config.
func NewHTTPDetector(cfg *config.DetectorConfig) *HTTPDetector {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	minRequests := cfg.BreakerMinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	failureRatio := cfg.BreakerFailureRatio
	if failureRatio <= 0 {
		failureRatio = 0.5
	}
	openFor := time.Duration(cfg.BreakerOpenSecs) * time.Second
	if openFor <= 0 {
		openFor = 30 * time.Second
	}

	settings := gobreaker.Settings{
		Name:        "marker-detector",
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= failureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("detector.HTTPDetector: circuit %s changed from %s to %s", name, from, to)
		},
	}

	return &HTTPDetector{
		endpoint:      cfg.Endpoint,
		apiKey:        cfg.APIKey,
		minConfidence: cfg.MinConfidence,
		client:        &http.Client{Timeout: timeout},
		breaker:       gobreaker.NewCircuitBreaker[*domain.VisualMarkers](settings),
	}
}

// Timeout returns the per-request HTTP timeout.
func (d *HTTPDetector) Timeout() time.Duration {
	return d.client.Timeout
}

// State reports the current circuit breaker state.
func (d *HTTPDetector) State() gobreaker.State {
	return d.breaker.State()
}

func (d *HTTPDetector) Detect(ctx context.Context, input port.DetectInput) (*domain.VisualMarkers, error) {
	markers, err := d.breaker.Execute(func() (*domain.VisualMarkers, error) {
		return d.detect(ctx, input)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return markers, err
}

type detectRequest struct {
	Image         string  `json:"image"`
	ContentType   string  `json:"content_type"`
	MinConfidence float64 `json:"min_confidence,omitempty"`
}

type detectResponse struct {
	Model      string `json:"model"`
	Detections []struct {
		Label      string    `json:"label"`
		Confidence float64   `json:"confidence"`
		Box        []float64 `json:"box"`
	} `json:"detections"`
}

func (d *HTTPDetector) detect(ctx context.Context, input port.DetectInput) (*domain.VisualMarkers, error) {
	body, err := json.Marshal(detectRequest{
		Image:         base64.StdEncoding.EncodeToString(input.FileBytes),
		ContentType:   input.ContentType,
		MinConfidence: d.minConfidence,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.apiKey)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling detector: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detector error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed detectResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	return d.toMarkers(&parsed), nil
}

func (d *HTTPDetector) toMarkers(resp *detectResponse) *domain.VisualMarkers {
	markers := &domain.VisualMarkers{Model: resp.Model, Detections: []domain.Detection{}}
	for _, det := range resp.Detections {
		if det.Confidence < d.minConfidence {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(det.Label))
		detection := domain.Detection{Label: label, Confidence: det.Confidence}
		if len(det.Box) == 4 {
			detection.Box = domain.BoundingBox{X1: det.Box[0], Y1: det.Box[1], X2: det.Box[2], Y2: det.Box[3]}
		}
		markers.Detections = append(markers.Detections, detection)

		switch {
		case signatureLabels[label]:
			markers.HasSignature = true
		case stampLabels[label]:
			markers.HasStamp = true
		}
	}
	return markers
}
