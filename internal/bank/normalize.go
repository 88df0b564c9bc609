// Package bank implements the question bank pipeline: normalization,
// filtering, pagination and rendering of display records.
package bank

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rahulpattadi/toppers/internal/domain"
)

// RawQuestion is a question record as it appears in the data file.
// Every field is kept raw so that a record with an unexpected shape
// still decodes and can be normalized or rejected on its own.
type RawQuestion struct {
	ID         json.RawMessage `json:"id"`
	Text       json.RawMessage `json:"text"`
	Difficulty json.RawMessage `json:"difficulty"`
	Type       json.RawMessage `json:"type"`
	Tags       json.RawMessage `json:"tags"`
	Image      json.RawMessage `json:"image"`
	Solution   json.RawMessage `json:"solution"`
}

type rawSolution struct {
	Approach json.RawMessage `json:"approach"`
	Steps    json.RawMessage `json:"steps"`
	Formula  json.RawMessage `json:"formula"`
	Answer   json.RawMessage `json:"answer"`
}

type rawStep struct {
	Description json.RawMessage `json:"description"`
	Calculation json.RawMessage `json:"calculation"`
	Equation    json.RawMessage `json:"equation"`
}

// Normalize converts a raw record into a Question. It never fails; missing
// solution parts fall back to their defaults. Callers check the result
// with Question.Validate.
func Normalize(raw RawQuestion) domain.Question {
	q := domain.Question{
		ID:         parseID(raw.ID),
		Text:       stringValue(raw.Text),
		Difficulty: domain.Difficulty(strings.ToLower(strings.TrimSpace(stringValue(raw.Difficulty)))),
		Type:       domain.QuestionType(strings.ToLower(strings.TrimSpace(stringValue(raw.Type)))),
		Tags:       stringList(raw.Tags),
		Image:      strings.TrimSpace(stringValue(raw.Image)),
		Solution:   domain.DefaultSolution,
		Steps:      []string{},
		Formula:    domain.DefaultFormula,
		Answer:     domain.DefaultAnswer,
	}

	var sol rawSolution
	if !isObject(raw.Solution) || json.Unmarshal(raw.Solution, &sol) != nil {
		return q
	}

	if s := stringValue(sol.Approach); s != "" {
		q.Solution = s
	}
	if s := stringValue(sol.Formula); s != "" {
		q.Formula = s
	}
	if s := stringValue(sol.Answer); s != "" {
		q.Answer = s
	}
	q.Steps = flattenSteps(sol.Steps)
	return q
}

// NormalizeAll normalizes records in order, dropping those that fail
// validation. The returned errors describe each dropped record.
func NormalizeAll(raws []RawQuestion) ([]domain.Question, []error) {
	questions := make([]domain.Question, 0, len(raws))
	var rejected []error
	for _, raw := range raws {
		q := Normalize(raw)
		if err := q.Validate(); err != nil {
			rejected = append(rejected, err)
			continue
		}
		questions = append(questions, q)
	}
	return questions, rejected
}

// flattenSteps turns the steps array into display strings. A plain string
// step is kept as is. A structured step becomes its description followed by
// the calculation lines and the equation, each on its own line.
func flattenSteps(raw json.RawMessage) []string {
	var items []json.RawMessage
	if !isArray(raw) || json.Unmarshal(raw, &items) != nil {
		return []string{}
	}

	steps := make([]string, 0, len(items))
	for _, item := range items {
		if isString(item) {
			steps = append(steps, stringValue(item))
			continue
		}

		var st rawStep
		if !isObject(item) || json.Unmarshal(item, &st) != nil {
			steps = append(steps, "")
			continue
		}

		text := stringValue(st.Description)
		if isArray(st.Calculation) {
			var lines []json.RawMessage
			if json.Unmarshal(st.Calculation, &lines) == nil {
				parts := make([]string, len(lines))
				for i, line := range lines {
					parts[i] = scalarText(line)
				}
				text += "\n" + strings.Join(parts, "\n")
			}
		}
		if eq := stringValue(st.Equation); eq != "" {
			text += "\n" + eq
		}
		steps = append(steps, text)
	}
	return steps
}

// parseID accepts a JSON number or a numeric string. Anything else maps to
// zero, which Validate rejects.
func parseID(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	if isString(raw) {
		n, err := strconv.Atoi(strings.TrimSpace(stringValue(raw)))
		if err != nil {
			return 0
		}
		return n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f != math.Trunc(f) {
		return 0
	}
	return int(f)
}

func stringValue(raw json.RawMessage) string {
	if !isString(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// scalarText renders a calculation line. Strings are used verbatim, null
// becomes empty and other values keep their JSON text.
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	switch {
	case isString(raw):
		return stringValue(raw)
	case len(raw) == 0 || string(raw) == "null":
		return ""
	default:
		return string(raw)
	}
}

func stringList(raw json.RawMessage) []string {
	var items []json.RawMessage
	if !isArray(raw) || json.Unmarshal(raw, &items) != nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := stringValue(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isString(raw json.RawMessage) bool { return leading(raw) == '"' }
func isObject(raw json.RawMessage) bool { return leading(raw) == '{' }
func isArray(raw json.RawMessage) bool  { return leading(raw) == '[' }

func leading(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
