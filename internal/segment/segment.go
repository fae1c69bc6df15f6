// Package segment splits raw survey text into blocks that each hypothetically
// describe one question.
package segment

import (
	"regexp"
	"strings"
	"unicode"
)

// labelToken matches short question labels such as "S1", "Q10a" or "A3.".
var labelToken = regexp.MustCompile(`^[A-Za-z]{1,5}[0-9]{0,4}[A-Za-z]?\.?$`)

// paragraphBreak matches a blank (or whitespace-only) line.
var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// IsLabelToken reports whether tok looks like a question label.
func IsLabelToken(tok string) bool {
	return labelToken.MatchString(tok)
}

// firstToken returns the part of a trimmed line before the first whitespace.
func firstToken(line string) string {
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		return line[:i]
	}
	return line
}

// Lines segments text line by line. Blank lines close the current block and a
// line starting with a label token opens a new one. Lines inside a block are
// trimmed and joined with "\n".
func Lines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	var blocks []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, raw := range lines {
		l := strings.TrimSpace(raw)
		if l == "" {
			flush()
			continue
		}
		if len(cur) > 0 && IsLabelToken(firstToken(l)) {
			flush()
		}
		cur = append(cur, l)
	}
	flush()
	return blocks
}

// Paragraphs splits text on blank lines only. It is coarser than Lines and is
// used when blocks are handed to a model that copes with loose boundaries.
func Paragraphs(text string) []string {
	var blocks []string
	for _, p := range paragraphBreak.Split(strings.ReplaceAll(text, "\r", ""), -1) {
		if s := strings.TrimSpace(p); s != "" {
			blocks = append(blocks, s)
		}
	}
	return blocks
}
