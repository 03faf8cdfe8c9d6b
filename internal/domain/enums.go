package domain

// InsuranceType classifies the claim a submitted document belongs to.
type InsuranceType string

const (
	InsuranceHealth   InsuranceType = "health"
	InsuranceLife     InsuranceType = "life"
	InsuranceVehicle  InsuranceType = "vehicle"
	InsuranceTravel   InsuranceType = "travel"
	InsuranceProperty InsuranceType = "property"
)

// ValidInsuranceTypes is the fixed set of accepted insurance types.
var ValidInsuranceTypes = map[InsuranceType]bool{
	InsuranceHealth:   true,
	InsuranceLife:     true,
	InsuranceVehicle:  true,
	InsuranceTravel:   true,
	InsuranceProperty: true,
}

// ParseInsuranceType validates a raw insurance type tag.
func ParseInsuranceType(s string) (InsuranceType, error) {
	t := InsuranceType(s)
	if !ValidInsuranceTypes[t] {
		return "", ErrUnsupportedInsuranceType
	}
	return t, nil
}

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPG  FileType = "jpg"
	FileTypePNG  FileType = "png"
	FileTypeWEBP FileType = "webp"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF:  "application/pdf",
	FileTypeJPG:  "image/jpeg",
	FileTypePNG:  "image/png",
	FileTypeWEBP: "image/webp",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
	"image/webp":      FileTypeWEBP,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
	"webp": FileTypeWEBP,
}

// QualityTier is a monotonic bucketing of image sharpness.
type QualityTier string

const (
	QualityUnreadable QualityTier = "unreadable"
	QualityPoor       QualityTier = "poor"
	QualityAcceptable QualityTier = "acceptable"
	QualityGood       QualityTier = "good"
)

// Severity grades validation issues and reasons.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// IssueKind identifies the cross-field check that produced an issue.
type IssueKind string

const (
	IssueDateMismatch IssueKind = "date_mismatch"
)

// ReasonType identifies a reason annotation attached to a result.
type ReasonType string

const (
	ReasonQuality          ReasonType = "quality_issue"
	ReasonMissingSignature ReasonType = "missing_signature"
	ReasonMissingStamp     ReasonType = "missing_stamp"
	ReasonDateMismatch     ReasonType = "date_mismatch"
	ReasonTextQuality      ReasonType = "text_quality"
	ReasonExtractionFailed ReasonType = "extraction_failed"
)

// DecisionAction is the HITL routing outcome.
type DecisionAction string

const (
	ActionAutoApprove       DecisionAction = "auto_approve"
	ActionNeedsConfirmation DecisionAction = "needs_confirmation"
	ActionManualReview      DecisionAction = "manual_review"
)

// ClaimStatus is the status handed to the claim-lifecycle collaborator.
type ClaimStatus string

const (
	ClaimStatusApproved    ClaimStatus = "approved"
	ClaimStatusPending     ClaimStatus = "pending"
	ClaimStatusUnderReview ClaimStatus = "under_review"
)
