package question

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Type is the question variant. Values double as the wire names used by the
// extraction prompt and the workspace file.
type Type string

const (
	Radio      Type = "radio"
	RadioAtm1d Type = "radio-atm1d"
	Checkbox   Type = "checkbox"
	Select     Type = "select"
	Number     Type = "number"
	Text       Type = "text"
	Textarea   Type = "textarea"
	Rating     Type = "rating"
	Pipe       Type = "pipe"
)

// Types lists every supported variant in display order.
var Types = []Type{Radio, RadioAtm1d, Checkbox, Select, Number, Text, Textarea, Rating, Pipe}

// Valid reports whether t is one of the supported variants.
func (t Type) Valid() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// ParseType accepts a wire name, case-insensitively.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown question type %q", s)
	}
	return t, nil
}

// Question is one survey question as extracted from a document.
type Question struct {
	ID             string   `yaml:"id" json:"id"`
	Label          string   `yaml:"label" json:"label"`
	SecondaryLabel string   `yaml:"secondaryLabel,omitempty" json:"secondaryLabel,omitempty"`
	// Title may carry inline markup and is written to the survey unescaped.
	Title   string   `yaml:"title" json:"title"`
	Type    Type     `yaml:"type" json:"type"`
	Rows    []string `yaml:"rows" json:"rows"`
	Cols    []string `yaml:"cols" json:"cols"`
	Comment string   `yaml:"comment,omitempty" json:"comment,omitempty"`
}

// NewID returns a fresh opaque question identifier.
func NewID() string {
	return "q" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// New builds a question with a fresh ID from the given fields. Missing type
// defaults to Radio and nil lists become empty.
func New(q Question) *Question {
	q.ID = NewID()
	if q.Type == "" {
		q.Type = Radio
	}
	if q.Rows == nil {
		q.Rows = []string{}
	}
	if q.Cols == nil {
		q.Cols = []string{}
	}
	return &q
}

// Blank returns an empty single-choice question.
func Blank() *Question {
	return New(Question{})
}
