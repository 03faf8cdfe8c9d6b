// Package export renders persisted claim analyses as CSV or XLSX.
package export

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"claimassist/internal/domain"
)

// columns defines the header row shared by CSV and XLSX exports.
var columns = []string{
	"Claim Reference",
	"Insurance Type",
	"File Name",
	"Pages",
	"Patient Name",
	"Policy Number",
	"Claim Amount",
	"Admission Date",
	"Claim Date",
	"Image Quality",
	"Blur Variance",
	"Signature",
	"Stamp",
	"Extraction Confidence",
	"Date Issues",
	"Reasons",
	"Rejection Probability",
	"Health Score",
	"Action",
	"Status",
	"Processed At",
}

// Columns returns a copy of the export header row.
func Columns() []string {
	return append([]string(nil), columns...)
}

// analysisToRow converts one analysis to a row. Columns that come from the
// stored pipeline result stay empty when the result cannot be decoded.
func analysisToRow(a *domain.ClaimAnalysis) []string {
	row := make([]string, len(columns))

	row[0] = a.ClaimReference
	row[1] = string(a.InsuranceType)
	row[2] = a.OriginalName
	row[3] = strconv.Itoa(a.PageCount)
	row[6] = formatMoney(a.ClaimAmount)
	row[16] = strconv.FormatFloat(a.RejectionProbability, 'f', 2, 64)
	row[17] = strconv.FormatFloat(a.HealthScore, 'f', 1, 64)
	row[18] = string(a.Action)
	row[19] = string(a.Status)
	row[20] = a.ProcessedAt.Format(time.RFC3339)

	if len(a.Result) == 0 {
		return row
	}
	var res domain.PipelineResult
	if err := json.Unmarshal(a.Result, &res); err != nil {
		return row
	}

	row[4] = res.Extracted.PatientName
	row[5] = res.Extracted.PolicyNumber
	row[7] = res.Extracted.AdmissionDate
	row[8] = res.Extracted.ClaimDate
	row[9] = string(res.Quality.Quality)
	row[10] = strconv.FormatFloat(res.Quality.Variance, 'f', 2, 64)
	row[11] = formatBool(res.Extracted.HasSignature)
	row[12] = formatBool(res.Extracted.HasStamp)
	row[13] = strconv.FormatFloat(res.Extracted.ExtractionConfidence, 'f', 2, 64)
	row[14] = strconv.Itoa(len(res.ValidationIssues))
	row[15] = joinReasons(res.Reasons)

	return row
}

func joinReasons(reasons []domain.Reason) string {
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, string(r.Type))
	}
	return strings.Join(parts, "; ")
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{ext}.
func BuildFilename(name, ext string, now time.Time) string {
	sanitized := SanitizeFilename(name)
	if sanitized == "" {
		sanitized = "claims"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, now.Format("2006-01-02"), ext)
}
