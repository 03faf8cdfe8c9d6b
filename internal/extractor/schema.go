package extractor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"claimassist/internal/domain"
)

// ErrMalformedResponse is returned when a provider reply cannot be decoded into fields.
var ErrMalformedResponse = errors.New("malformed extraction response")

var (
	nullableString = map[string]any{"type": []string{"string", "null"}}
	nullableBool   = map[string]any{"type": []string{"boolean", "null"}}
)

// fieldsSchema is the JSON Schema every provider reply must satisfy.
var fieldsSchema = map[string]any{
	"type":    "object",
	"properties": map[string]any{
		"patient_name":          nullableString,
		"policy_number":         nullableString,
		"claim_amount":          map[string]any{"type": []string{"number", "string", "null"}},
		"has_signature":         nullableBool,
		"has_stamp":             nullableBool,
		"text_clarity":          nullableString,
		"admission_date":        nullableString,
		"discharge_date":        nullableString,
		"claim_date":            nullableString,
		"accident_date":         nullableString,
		"travel_date":           nullableString,
		"incident_date":         nullableString,
		"hospital_gst_number":   nullableString,
		"extraction_confidence": map[string]any{"type": []string{"number", "null"}},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(fieldsSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("claim_fields.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("claim_fields.json")
	})
	return compiledSchema, compileErr
}

// CleanResponse strips markdown code fences and isolates the outermost JSON object.
func CleanResponse(text string) (string, error) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}
	return s[start : end+1], nil
}

// DecodeFields turns a raw provider reply into ExtractedFields. The reply must
// contain a JSON object satisfying fieldsSchema; anything else is an error.
func DecodeFields(text, model string) (*domain.ExtractedFields, error) {
	cleaned, err := CleanResponse(text)
	if err != nil {
		return nil, err
	}

	var raw any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %s)", ErrMalformedResponse, err, Truncate(cleaned, 200))
	}

	sch, err := schema()
	if err != nil {
		return nil, fmt.Errorf("compiling field schema: %w", err)
	}
	if err := sch.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	obj, _ := raw.(map[string]any)
	fields := &domain.ExtractedFields{
		PatientName:          str(obj, "patient_name"),
		PolicyNumber:         str(obj, "policy_number"),
		ClaimAmount:          amount(obj["claim_amount"]),
		HasSignature:         boolean(obj, "has_signature"),
		HasStamp:             boolean(obj, "has_stamp"),
		TextClarity:          strings.ToLower(str(obj, "text_clarity")),
		AdmissionDate:        str(obj, "admission_date"),
		DischargeDate:        str(obj, "discharge_date"),
		ClaimDate:            str(obj, "claim_date"),
		AccidentDate:         str(obj, "accident_date"),
		TravelDate:           str(obj, "travel_date"),
		IncidentDate:         str(obj, "incident_date"),
		HospitalGSTNumber:    str(obj, "hospital_gst_number"),
		ExtractionConfidence: clampConfidence(obj["extraction_confidence"]),
		ModelUsed:            model,
	}
	return fields, nil
}

func str(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func boolean(obj map[string]any, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

// amount accepts numbers or strings such as "Rs. 45,000.50". Unparseable values are 0.
// maxClaimAmount bounds amounts to what the claim_amount column can hold.
const maxClaimAmount = 1e12

var amountToken = regexp.MustCompile(`[0-9][0-9,]*(\.[0-9]+)?`)

// amount reads a claim amount. Strings must hold exactly one number; text
// such as "45000 / Policy 98765" is ambiguous and yields 0.
func amount(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		tokens := amountToken.FindAllString(t, -1)
		if len(tokens) != 1 {
			return 0
		}
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(tokens[0], ",", ""), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if f < 0 || f >= maxClaimAmount || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func clampConfidence(v any) float64 {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) {
		return 0
	}
	return math.Max(0, math.Min(1, f))
}
