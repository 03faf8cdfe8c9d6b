package handler

import (
	"claimassist/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// AnalysisWithDownloadURL represents an analysis with a link to the original document.
type AnalysisWithDownloadURL struct {
	Analysis    domain.ClaimAnalysis `json:"analysis"`
	DownloadURL string               `json:"download_url,omitempty" example:"https://s3.amazonaws.com/claimassist-uploads/...?X-Amz-Signature=..."`
}

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
