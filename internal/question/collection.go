package question

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an operation names an ID that is not in the
// collection.
var ErrNotFound = errors.New("question not found")

// Collection is the single ordered list of questions being edited. It is not
// safe for concurrent use; one control flow owns it.
type Collection struct {
	items []*Question
}

// NewCollection wraps existing questions, preserving their order.
func NewCollection(qs ...*Question) *Collection {
	c := &Collection{}
	for _, q := range qs {
		if q != nil {
			c.items = append(c.items, q)
		}
	}
	return c
}

// Len returns the number of questions.
func (c *Collection) Len() int { return len(c.items) }

// All returns the questions in order. The slice is a copy; the records are
// shared.
func (c *Collection) All() []*Question {
	out := make([]*Question, len(c.items))
	copy(out, c.items)
	return out
}

// Append adds q at the end of the collection.
func (c *Collection) Append(q *Question) {
	c.items = append(c.items, q)
}

// Index returns the position of id, or -1.
func (c *Collection) Index(id string) int {
	for i, q := range c.items {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the question with the given id.
func (c *Collection) Get(id string) (*Question, error) {
	i := c.Index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.items[i], nil
}

// At returns the question at position i (0-based).
func (c *Collection) At(i int) (*Question, error) {
	if i < 0 || i >= len(c.items) {
		return nil, fmt.Errorf("%w: index %d", ErrNotFound, i)
	}
	return c.items[i], nil
}

// MoveUp swaps the question with its predecessor. Moving the first question
// is a no-op.
func (c *Collection) MoveUp(id string) error {
	i := c.Index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if i == 0 {
		return nil
	}
	c.items[i-1], c.items[i] = c.items[i], c.items[i-1]
	return nil
}

// MoveDown swaps the question with its successor. Moving the last question
// is a no-op.
func (c *Collection) MoveDown(id string) error {
	i := c.Index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if i >= len(c.items)-1 {
		return nil
	}
	c.items[i+1], c.items[i] = c.items[i], c.items[i+1]
	return nil
}

// Delete removes the question with the given id.
func (c *Collection) Delete(id string) error {
	i := c.Index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

// Edit carries the fields to change; nil fields are left untouched.
type Edit struct {
	Label          *string
	SecondaryLabel *string
	Title          *string
	Comment        *string
	Type           *string
	// Rows and Cols are given one entry per line, as typed in an editor.
	Rows *string
	Cols *string
}

// Edit applies e to the question with the given id in place.
func (c *Collection) Edit(id string, e Edit) error {
	q, err := c.Get(id)
	if err != nil {
		return err
	}
	var typ Type
	if e.Type != nil {
		if typ, err = ParseType(*e.Type); err != nil {
			return err
		}
	}
	if e.Label != nil {
		q.Label = strings.TrimSpace(*e.Label)
	}
	if e.SecondaryLabel != nil {
		q.SecondaryLabel = strings.TrimSpace(*e.SecondaryLabel)
	}
	if e.Title != nil {
		q.Title = *e.Title
	}
	if e.Comment != nil {
		q.Comment = strings.TrimSpace(*e.Comment)
	}
	if e.Type != nil {
		q.Type = typ
	}
	if e.Rows != nil {
		q.Rows = SplitLines(*e.Rows)
	}
	if e.Cols != nil {
		q.Cols = SplitLines(*e.Cols)
	}
	return nil
}

// SplitLines turns editor text into trimmed, non-empty entries.
func SplitLines(s string) []string {
	out := []string{}
	for _, l := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if v := strings.TrimSpace(l); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SyntheticLabelPrefix starts every generated label.
const SyntheticLabelPrefix = "Q"

// AssignSyntheticLabels gives every unlabeled question a label made of
// SyntheticLabelPrefix and a four digit number drawn from intn, which must
// behave like rand.IntN. Collisions with existing labels are not checked.
// It returns the number of labels assigned.
func (c *Collection) AssignSyntheticLabels(intn func(n int) int) int {
	n := 0
	for _, q := range c.items {
		if q.Label != "" {
			continue
		}
		q.Label = fmt.Sprintf("%s%d", SyntheticLabelPrefix, intn(9000)+1000)
		n++
	}
	return n
}
