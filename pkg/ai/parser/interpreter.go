// Package parser turns raw reasoning-provider text into typed results.
// Everything here is pure; callers decide what to log.
package parser

import (
	"encoding/json"
	"strings"

	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/pkg/apperror"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SummarySections lists the JSON keys of a structured summary reply, in order.
var SummarySections = []string{"subjective", "objective", "assessment", "plan"}

const riskKey = "risk_score"

// Only the top-level shape is enforced. Section values of any other type are
// coerced to text rather than rejected.
const summarySchema = `{"type": "object"}`

var compiledSummarySchema = jsonschema.MustCompileString("summary.json", summarySchema)

type TurnReply struct {
	Message    string
	IsComplete bool
}

type SummaryFields struct {
	Subjective string
	Objective  string
	Assessment string
	Plan       string
	// RiskScore is the provider's value as sent, trimmed. Empty when omitted.
	RiskScore string
	// Missing names the sections that were absent or null.
	Missing []string
	// Extraction is the decoded object, kept for provenance.
	Extraction map[string]interface{}
}

// InterpretTurn detects the completion sentinel anywhere in the reply.
func InterpretTurn(raw string) TurnReply {
	text := strings.TrimSpace(raw)
	if strings.Contains(text, constant.InterviewCompleteSentinel) {
		return TurnReply{Message: constant.InterviewCompleteNotice, IsComplete: true}
	}
	return TurnReply{Message: text}
}

// StripCodeFence removes a leading ``` line (with optional language tag) and a
// trailing ``` from raw. It never searches for JSON elsewhere in the text.
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// InterpretStructured decodes a summary reply. Absent or null sections become
// empty strings and non-string values are kept as their JSON text. Only input
// that is not a JSON object is a Parse error carrying the raw text.
func InterpretStructured(raw string) (*SummaryFields, error) {
	body := StripCodeFence(raw)

	var decoded interface{}
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return nil, apperror.Parse("summary reply is not valid JSON", raw, err)
	}
	err := compiledSummarySchema.Validate(decoded)
	obj, isObject := decoded.(map[string]interface{})
	if err != nil || !isObject {
		return nil, apperror.Parse("summary reply is not a JSON object", raw, err)
	}

	fields := &SummaryFields{Extraction: obj}
	targets := []*string{&fields.Subjective, &fields.Objective, &fields.Assessment, &fields.Plan}
	for i, key := range SummarySections {
		val, present := obj[key]
		if !present || val == nil {
			fields.Missing = append(fields.Missing, key)
			continue
		}
		*targets[i] = asText(val)
	}
	if v, present := obj[riskKey]; present && v != nil {
		// A non-string risk fails NormalizeRisk and takes the default path.
		fields.RiskScore = strings.TrimSpace(asText(v))
	}
	return fields, nil
}

// asText returns strings unchanged and any other decoded value as compact JSON.
func asText(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// NormalizeRisk upper-cases s and reports whether it is one of the three
// recognised levels.
func NormalizeRisk(s string) (string, bool) {
	v := strings.ToUpper(strings.TrimSpace(s))
	switch v {
	case constant.RiskScoreHigh, constant.RiskScoreMedium, constant.RiskScoreLow:
		return v, true
	}
	return "", false
}
