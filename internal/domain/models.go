package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SubmittedDocument is the immutable input to the intake pipeline.
type SubmittedDocument struct {
	Bytes         []byte
	ContentType   string
	FileName      string
	InsuranceType InsuranceType
}

// QualityAssessment describes the sharpness of a document image.
type QualityAssessment struct {
	Variance float64     `json:"variance"`
	IsBlurry bool        `json:"is_blurry"`
	Quality  QualityTier `json:"quality"`
	Score    int         `json:"score"`
}

// BoundingBox is a detector box in pixel coordinates.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Detection is a single labelled object found by the visual detector.
type Detection struct {
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"box"`
}

// VisualMarkers is the output of the visual signature/stamp detector.
type VisualMarkers struct {
	HasSignature bool        `json:"has_signature"`
	HasStamp     bool        `json:"has_stamp"`
	Detections   []Detection `json:"detections"`
	Model        string      `json:"model,omitempty"`
}

// ExtractedFields holds the structured fields read from a document.
// Fields not visible in the source stay empty rather than guessed.
type ExtractedFields struct {
	PatientName          string         `json:"patient_name"`
	PolicyNumber         string         `json:"policy_number"`
	ClaimAmount          float64        `json:"claim_amount"`
	HasSignature         bool           `json:"has_signature"`
	HasStamp             bool           `json:"has_stamp"`
	TextClarity          string         `json:"text_clarity"`
	AdmissionDate        string         `json:"admission_date"`
	DischargeDate        string         `json:"discharge_date"`
	ClaimDate            string         `json:"claim_date"`
	AccidentDate         string         `json:"accident_date"`
	TravelDate           string         `json:"travel_date"`
	IncidentDate         string         `json:"incident_date"`
	HospitalGSTNumber    string         `json:"hospital_gst_number"`
	ExtractionConfidence float64        `json:"extraction_confidence"`
	Error                string         `json:"error,omitempty"`
	ModelUsed            string         `json:"model_used,omitempty"`
	Markers              *VisualMarkers `json:"visual_markers,omitempty"`
}

// Failed reports whether the fields are the extraction-failure sentinel.
func (f *ExtractedFields) Failed() bool {
	return f.Error != ""
}

// ExtractionFailure returns the sentinel substituted for any extraction error.
func ExtractionFailure(reason string) *ExtractedFields {
	if reason == "" {
		reason = "extraction failed"
	}
	return &ExtractedFields{Error: reason, ExtractionConfidence: 0}
}

// ValidationIssue is a cross-field inconsistency found in extracted data.
type ValidationIssue struct {
	Type     IssueKind `json:"type"`
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Field    string    `json:"field,omitempty"`
}

// Reason is a human-readable annotation explaining the risk outcome.
type Reason struct {
	Type     ReasonType `json:"type"`
	Severity Severity   `json:"severity"`
	Message  string     `json:"message"`
	Field    string     `json:"field,omitempty"`
}

// RiskAssessment is the scored rejection estimate for a document.
type RiskAssessment struct {
	RejectionProbability float64 `json:"rejection_probability"`
	HealthScore          float64 `json:"health_score"`
}

// Disposition is the HITL routing decision.
type Disposition struct {
	Action        DecisionAction `json:"action"`
	Status        ClaimStatus    `json:"status"`
	RequiresHuman bool           `json:"requires_human"`
	Message       string         `json:"message"`
}

// PipelineResult is the complete, auditable outcome of one pipeline run.
type PipelineResult struct {
	ID                   uuid.UUID         `json:"id"`
	InsuranceType        InsuranceType     `json:"insurance_type"`
	Quality              QualityAssessment `json:"blur_analysis"`
	Extracted            ExtractedFields   `json:"extracted_data"`
	ValidationIssues     []ValidationIssue `json:"date_issues"`
	Reasons              []Reason          `json:"ai_reasons"`
	RejectionProbability float64           `json:"rejection_probability"`
	HealthScore          float64           `json:"health_score"`
	ClaimAmount          float64           `json:"claim_amount"`
	Decision             Disposition       `json:"hitl"`
	ProcessedAt          time.Time         `json:"processed_at"`
}

// Risk returns the risk assessment portion of the result.
func (r *PipelineResult) Risk() RiskAssessment {
	return RiskAssessment{
		RejectionProbability: r.RejectionProbability,
		HealthScore:          r.HealthScore,
	}
}

// ClaimAnalysis is a persisted pipeline run for an uploaded claim document.
type ClaimAnalysis struct {
	ID                   uuid.UUID       `db:"id" json:"id"`
	ClaimReference       string          `db:"claim_reference" json:"claim_reference"`
	InsuranceType        InsuranceType   `db:"insurance_type" json:"insurance_type"`
	DocumentType         string          `db:"document_type" json:"document_type"`
	FileName             string          `db:"file_name" json:"file_name"`
	OriginalName         string          `db:"original_name" json:"original_name"`
	ContentType          string          `db:"content_type" json:"content_type"`
	FileSize             int64           `db:"file_size" json:"file_size"`
	PageCount            int             `db:"page_count" json:"page_count"`
	StorageBucket        string          `db:"storage_bucket" json:"storage_bucket"`
	StorageKey           string          `db:"storage_key" json:"storage_key"`
	Action               DecisionAction  `db:"action" json:"action"`
	Status               ClaimStatus     `db:"status" json:"status"`
	RequiresHuman        bool            `db:"requires_human" json:"requires_human"`
	RejectionProbability float64         `db:"rejection_probability" json:"rejection_probability"`
	HealthScore          float64         `db:"health_score" json:"health_score"`
	ClaimAmount          float64         `db:"claim_amount" json:"claim_amount"`
	Result               json.RawMessage `db:"result" json:"result"`
	ProcessedAt          time.Time       `db:"processed_at" json:"processed_at"`
	CreatedAt            time.Time       `db:"created_at" json:"created_at"`
}

// AnalysisStats aggregates persisted analyses for the claims dashboard.
type AnalysisStats struct {
	Total       int     `db:"total" json:"total"`
	Approved    int     `db:"approved" json:"approved"`
	Pending     int     `db:"pending" json:"pending"`
	UnderReview int     `db:"under_review" json:"under_review"`
	TotalAmount float64 `db:"total_amount" json:"total_amount"`
}
