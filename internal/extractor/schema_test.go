package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimassist/internal/extractor"
)

const completeReply = `{
  "patient_name": "Asha Rao",
  "policy_number": "POL-77812",
  "claim_amount": 45000.5,
  "has_signature": true,
  "has_stamp": false,
  "text_clarity": "Good",
  "admission_date": "2024-01-05",
  "discharge_date": "2024-01-08",
  "claim_date": "2024-01-10",
  "extraction_confidence": 0.92
}`

func TestDecodeFields_Complete(t *testing.T) {
	fields, err := extractor.DecodeFields(completeReply, "gemini-2.5-flash")

	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", fields.PatientName)
	assert.Equal(t, "POL-77812", fields.PolicyNumber)
	assert.InDelta(t, 45000.5, fields.ClaimAmount, 1e-9)
	assert.True(t, fields.HasSignature)
	assert.False(t, fields.HasStamp)
	assert.Equal(t, "good", fields.TextClarity)
	assert.Equal(t, "2024-01-05", fields.AdmissionDate)
	assert.Equal(t, "2024-01-08", fields.DischargeDate)
	assert.Equal(t, "2024-01-10", fields.ClaimDate)
	assert.Empty(t, fields.AccidentDate)
	assert.InDelta(t, 0.92, fields.ExtractionConfidence, 1e-9)
	assert.Equal(t, "gemini-2.5-flash", fields.ModelUsed)
	assert.False(t, fields.Failed())
}

func TestDecodeFields_StripsFencesAndProse(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"json fence", "```json\n" + completeReply + "\n```"},
		{"bare fence", "```\n" + completeReply + "\n```"},
		{"leading prose", "Here is the extraction:\n" + completeReply + "\nLet me know if you need more."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := extractor.DecodeFields(tt.text, "m")
			require.NoError(t, err)
			assert.Equal(t, "Asha Rao", fields.PatientName)
		})
	}
}

func TestDecodeFields_NullsBecomeEmpty(t *testing.T) {
	fields, err := extractor.DecodeFields(`{"patient_name": null, "claim_amount": null, "has_signature": null, "extraction_confidence": null}`, "m")

	require.NoError(t, err)
	assert.Empty(t, fields.PatientName)
	assert.Zero(t, fields.ClaimAmount)
	assert.False(t, fields.HasSignature)
	assert.Zero(t, fields.ExtractionConfidence)
}

func TestDecodeFields_ClaimAmountAsString(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{`"45,000"`, 45000},
		{`"Rs. 12,500.75"`, 12500.75},
		{`"$ 300"`, 300},
		{`"not visible"`, 0},
		{`""`, 0},
		{`-20`, 0},
		{`"Rs. 45000 / Policy 9876543210123"`, 0},
		{`"Admitted 2024-01-10, amount 5000"`, 0},
		{`"1,000,000,000,000"`, 0},
		{`1e13`, 0},
		{`999999999999.99`, 999999999999.99},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			fields, err := extractor.DecodeFields(`{"claim_amount": `+tt.in+`}`, "m")
			require.NoError(t, err)
			assert.InDelta(t, tt.want, fields.ClaimAmount, 1e-9)
		})
	}
}

func TestDecodeFields_ClampsConfidence(t *testing.T) {
	high, err := extractor.DecodeFields(`{"extraction_confidence": 1.7}`, "m")
	require.NoError(t, err)
	assert.Equal(t, 1.0, high.ExtractionConfidence)

	low, err := extractor.DecodeFields(`{"extraction_confidence": -0.3}`, "m")
	require.NoError(t, err)
	assert.Equal(t, 0.0, low.ExtractionConfidence)
}

func TestDecodeFields_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"no object", "I could not read this document."},
		{"array", `[1, 2, 3]`},
		{"broken json", `{"patient_name": }`},
		{"signature as string", `{"has_signature": "yes"}`},
		{"confidence as string", `{"extraction_confidence": "high"}`},
		{"name as number", `{"patient_name": 42}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, err := extractor.DecodeFields(tt.text, "m")
			assert.Nil(t, fields)
			assert.ErrorIs(t, err, extractor.ErrMalformedResponse)
		})
	}
}
