package question

import (
	"errors"
	"strings"
	"testing"
)

func labels(c *Collection) string {
	var parts []string
	for _, q := range c.All() {
		parts = append(parts, q.Label)
	}
	return strings.Join(parts, ",")
}

func threeQuestions() (*Collection, []*Question) {
	qs := []*Question{New(Question{Label: "A"}), New(Question{Label: "B"}), New(Question{Label: "C"})}
	return NewCollection(qs...), qs
}

func TestNew_AssignsUniqueIDsAndDefaults(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		q := Blank()
		if q.ID == "" || seen[q.ID] {
			t.Fatalf("expected fresh unique id, got %q", q.ID)
		}
		seen[q.ID] = true
		if q.Type != Radio {
			t.Fatalf("default type: %q", q.Type)
		}
		if q.Rows == nil || q.Cols == nil {
			t.Fatalf("lists must be non-nil")
		}
	}
}

func TestMoveUpDown_AdjacentSwap(t *testing.T) {
	c, qs := threeQuestions()
	if err := c.MoveUp(qs[2].ID); err != nil {
		t.Fatal(err)
	}
	if got := labels(c); got != "A,C,B" {
		t.Fatalf("after move up: %s", got)
	}
	if err := c.MoveDown(qs[0].ID); err != nil {
		t.Fatal(err)
	}
	if got := labels(c); got != "C,A,B" {
		t.Fatalf("after move down: %s", got)
	}
	// boundaries are no-ops
	_ = c.MoveUp(qs[2].ID)
	_ = c.MoveDown(qs[1].ID)
	if got := labels(c); got != "C,A,B" {
		t.Fatalf("boundary moves changed order: %s", got)
	}
}

func TestDelete(t *testing.T) {
	c, qs := threeQuestions()
	if err := c.Delete(qs[1].ID); err != nil {
		t.Fatal(err)
	}
	if got := labels(c); got != "A,C" {
		t.Fatalf("got %s", got)
	}
	if err := c.Delete(qs[1].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEdit_AppliesOnlyGivenFields(t *testing.T) {
	c, qs := threeQuestions()
	qs[0].Title = "old"
	label := "  S1 "
	rows := "Yes\r\n\n  No \n"
	typ := "Checkbox"
	if err := c.Edit(qs[0].ID, Edit{Label: &label, Rows: &rows, Type: &typ}); err != nil {
		t.Fatal(err)
	}
	q, _ := c.Get(qs[0].ID)
	if q.Label != "S1" || q.Title != "old" || q.Type != Checkbox {
		t.Fatalf("unexpected: %+v", q)
	}
	if strings.Join(q.Rows, "|") != "Yes|No" {
		t.Fatalf("rows: %q", q.Rows)
	}
	bad := "matrix"
	if err := c.Edit(qs[0].ID, Edit{Type: &bad, Label: &bad}); err == nil {
		t.Fatalf("expected type error")
	}
	if q.Label != "S1" {
		t.Fatalf("failed edit must not mutate, label=%q", q.Label)
	}
}

func TestAssignSyntheticLabels(t *testing.T) {
	c := NewCollection(New(Question{Label: "S1"}), Blank(), Blank())
	calls := 0
	n := c.AssignSyntheticLabels(func(n int) int {
		if n != 9000 {
			t.Fatalf("unexpected bound %d", n)
		}
		calls++
		return 233
	})
	if n != 2 || calls != 2 {
		t.Fatalf("assigned %d, calls %d", n, calls)
	}
	// collisions are left as-is
	if got := labels(c); got != "S1,Q1233,Q1233" {
		t.Fatalf("got %s", got)
	}
}

func TestPlainTitle(t *testing.T) {
	got := PlainTitle("<b>How</b> satisfied   are you<br/> with &amp; <i>X</i>?", 0)
	if got != "How satisfied are you with & X ?" {
		t.Fatalf("got %q", got)
	}
	if got := PlainTitle("abcdef", 3); got != "abc" {
		t.Fatalf("truncate: %q", got)
	}
}
