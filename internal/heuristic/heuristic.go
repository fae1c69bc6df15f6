// Package heuristic parses one text block into a question using line
// patterns only. It is deterministic and is the fallback whenever model
// extraction is unavailable or fails.
package heuristic

import (
	"regexp"
	"strings"

	"github.com/hyperifyio/surveygen/internal/question"
)

var (
	// firstLine captures a label token and any text following it. The token
	// must end at a period, whitespace or the end of the line.
	firstLine = regexp.MustCompile(`^([A-Za-z]{1,5}[0-9]{0,4}[A-Za-z]?)(?:\.\s*|\s+|$)(.*)$`)
	// instruction matches programmer notes such as "SHOW ALL:" or "PN: RANDOMIZE".
	instruction = regexp.MustCompile(`^[A-Z\s:]+$`)
	// bullet strips one bullet glyph and/or one short enumerator.
	bullet = regexp.MustCompile(`^[-\x{2022}*]?\s*(?:[A-Za-z0-9]{1,3}[.)]\s*)?(.+)$`)
	// cellSep separates cells of a flattened table line.
	cellSep = regexp.MustCompile(`\t|\|`)
)

// Parse converts a block into a question. Blocks whose first line carries no
// label produce a question with an empty label; the caller assigns one later.
func Parse(block string) *question.Question {
	var lines []string
	for _, l := range strings.Split(block, "\n") {
		if s := strings.TrimSpace(l); s != "" {
			lines = append(lines, s)
		}
	}

	var label, secondary, title string
	i := 0
	if len(lines) > 0 {
		if m := firstLine.FindStringSubmatch(lines[0]); m != nil {
			label = m[1]
			title = m[2]
			i = 1
		}
	}
	if i < len(lines) && lines[i] == label {
		secondary = lines[i]
		i++
	}
	for i < len(lines) && IsInstructionLine(lines[i]) {
		i++
	}
	if title == "" && i < len(lines) {
		title = lines[i]
		i++
	}

	rows := make([]string, 0, len(lines)-i)
	for _, l := range lines[i:] {
		if strings.ContainsAny(l, "\t|") {
			rows = append(rows, FlattenCells(l))
			continue
		}
		rows = append(rows, StripBullet(l))
	}

	return question.New(question.Question{
		Label:          label,
		SecondaryLabel: secondary,
		Title:          title,
		Type:           GuessType(block),
		Rows:           rows,
	})
}

// IsInstructionLine reports whether a line is metadata rather than question
// content: all caps (with spaces and colons) or ending in a colon.
func IsInstructionLine(l string) bool {
	return instruction.MatchString(l) || strings.HasSuffix(l, ":")
}

// StripBullet removes a leading bullet or enumerator ("-", "*", "•", "1.",
// "a)") and trims the rest.
func StripBullet(l string) string {
	if m := bullet.FindStringSubmatch(l); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(l)
}

// FlattenCells turns a tab or bar separated table line into one row value. The
// first cell is taken to be the row label and dropped; the remaining cells are
// joined with " | ". This is lossy on purpose: prose that happens to contain a
// bar is treated the same way.
func FlattenCells(l string) string {
	var cells []string
	for _, c := range cellSep.Split(l, -1) {
		if s := strings.TrimSpace(c); s != "" {
			cells = append(cells, s)
		}
	}
	if len(cells) > 1 {
		return strings.Join(cells[1:], " | ")
	}
	return strings.TrimSpace(l)
}

// GuessType picks a question type from keywords anywhere in the block. The
// first matching rule wins.
func GuessType(block string) question.Type {
	s := strings.ToLower(block)
	switch {
	case strings.Contains(s, "select all"), strings.Contains(s, "multiple"):
		return question.Checkbox
	case strings.Contains(s, "select one"), strings.Contains(s, "choose one"), strings.Contains(s, "single"):
		return question.Radio
	case strings.Contains(s, "%"), strings.Contains(s, "percentage"):
		return question.Number
	}
	return question.Radio
}
