package extractor

import "claimassist/internal/domain"

// BuildClaimPrompt returns the extraction prompt for an insurance claim document.
func BuildClaimPrompt(insuranceType domain.InsuranceType) string {
	kind := string(insuranceType)
	if kind == "" {
		kind = "insurance"
	}
	return `You are a strict OCR extraction engine for ` + kind + ` insurance claim documents.
Read ONLY what is printed or handwritten on the provided document and return it as JSON.

RULES:
- DO NOT guess, infer, or invent values. If a field is not clearly visible, use an empty string (or null).
- Dates must be normalized to YYYY-MM-DD. If a date cannot be read completely, use an empty string.
- claim_amount is the total amount claimed as a plain number without currency symbols or separators. Use 0 if not visible.
- has_signature is true only if a handwritten signature is visible. has_stamp is true only if an official stamp or seal is visible.
- text_clarity is one of "good", "partial" or "poor".
- extraction_confidence is your overall confidence in the extracted values, between 0.0 and 1.0.

Return ONLY valid JSON with no markdown formatting, no code fences and no explanation, using exactly these keys:
{
  "patient_name": "",
  "policy_number": "",
  "claim_amount": 0,
  "has_signature": false,
  "has_stamp": false,
  "text_clarity": "",
  "admission_date": "",
  "discharge_date": "",
  "claim_date": "",
  "accident_date": "",
  "travel_date": "",
  "incident_date": "",
  "hospital_gst_number": "",
  "extraction_confidence": 0.0
}`
}
