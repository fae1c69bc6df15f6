package aiextract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperifyio/surveygen/internal/question"
)

var (
	// ErrNotConfigured means no client or model is set, or a cache-only run
	// found nothing cached.
	ErrNotConfigured = errors.New("extractor not configured")
	// ErrTransport wraps transport failures and non-success responses.
	ErrTransport = errors.New("completion request failed")
	// ErrNoContent means the response carried no choices or empty content.
	ErrNoContent = errors.New("completion returned no content")
	// ErrNoJSON means the content has no {...} span.
	ErrNoJSON = errors.New("completion contains no JSON object")
	// ErrParse means the {...} span is not a JSON object.
	ErrParse = errors.New("parse completion json")
)

// Fields is the six-field record the model is asked to return, after
// normalization. Type is passed through unvalidated.
type Fields struct {
	Label          string   `json:"label"`
	SecondaryLabel string   `json:"secondaryLabel"`
	Title          string   `json:"title"`
	Type           string   `json:"type"`
	Rows           []string `json:"rows"`
	Cols           []string `json:"cols"`
}

// Question converts f into a new question record with a fresh ID.
func (f Fields) Question() *question.Question {
	return question.New(question.Question{
		Label:          f.Label,
		SecondaryLabel: f.SecondaryLabel,
		Title:          f.Title,
		Type:           question.Type(f.Type),
		Rows:           append([]string{}, f.Rows...),
		Cols:           append([]string{}, f.Cols...),
	})
}

// Normalize locates the outermost {...} span in content, parses it as a JSON
// object and coerces it into Fields:
//   - missing or non-string scalars become ""; a missing or empty type becomes "radio"
//   - a list given as a single scalar becomes a one-element list
//   - missing or null lists become empty lists
func Normalize(content string) (Fields, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return Fields{}, ErrNoJSON
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content[start:end+1]), &obj); err != nil {
		return Fields{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	f := Fields{
		Label:          stringField(obj["label"]),
		SecondaryLabel: stringField(obj["secondaryLabel"]),
		Title:          stringField(obj["title"]),
		Type:           stringField(obj["type"]),
		Rows:           listField(obj["rows"]),
		Cols:           listField(obj["cols"]),
	}
	if f.Type == "" {
		f.Type = string(question.Radio)
	}
	return f, nil
}

func stringField(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func listField(raw json.RawMessage) []string {
	out := []string{}
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// single scalar
		if s, ok := scalarText(raw); ok && s != "" {
			out = append(out, s)
		}
		return out
	}
	for _, it := range items {
		if s, ok := scalarText(it); ok {
			out = append(out, s)
		}
	}
	return out
}

// scalarText renders strings, numbers and booleans as text. Null, objects and
// arrays are rejected.
func scalarText(raw json.RawMessage) (string, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case float64, bool:
		return strings.TrimSpace(string(raw)), true
	}
	return "", false
}
