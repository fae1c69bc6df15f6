// Package surveyxml renders questions as survey XML: one element per
// question, shaped by its type, each followed by a <suspend/> page break.
package surveyxml

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperifyio/surveygen/internal/question"
)

// ErrEmpty is returned when there is nothing to render.
var ErrEmpty = errors.New("no questions to render")

const (
	rootOpen  = `<survey name="Survey" alt="" autosave="0">`
	rootClose = `</survey>`
	sentinel  = "<suspend/>"
	// textareaComment is the fixed helper text under every long-text question.
	textareaComment = "Please be as specific as possible"
)

var (
	otherWord   = regexp.MustCompile(`\bother\b`)
	specifyWord = regexp.MustCompile(`\bspecify\b`)
	escaper     = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
)

// Escape replaces the five XML special characters with named entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// IsOpenEnded reports whether a row asks for free text, i.e. mentions the
// whole word "other" or "specify" in any case.
func IsOpenEnded(row string) bool {
	lower := strings.ToLower(row)
	return otherWord.MatchString(lower) || specifyWord.MatchString(lower)
}

// Render writes all questions into one survey document. Every question must
// already carry a label. Titles are written verbatim so they may contain
// markup; everything else is escaped.
func Render(qs []*question.Question) (string, error) {
	if len(qs) == 0 {
		return "", ErrEmpty
	}
	var b strings.Builder
	b.WriteString(rootOpen)
	b.WriteString("\n\n")
	for _, q := range qs {
		writeQuestion(&b, q)
		b.WriteString("\n")
	}
	b.WriteString(rootClose)
	return b.String(), nil
}

func writeQuestion(b *strings.Builder, q *question.Question) {
	label := Escape(q.Label)
	switch q.Type {
	case question.RadioAtm1d:
		b.WriteString("<radio\n  label=\"" + label + "\"\n  atm1d:showInput=\"0\"\n  uses=\"atm1d.10\">\n")
		writeTitle(b, q.Title)
		writeRows(b, q.Rows)
		writeCols(b, q.Cols)
		closeElement(b, "radio")
	case question.Checkbox:
		b.WriteString("<checkbox\n  label=\"" + label + "\"\n  atleast=\"1\">\n")
		writeTitle(b, q.Title)
		writeRows(b, q.Rows)
		writeCols(b, q.Cols)
		closeElement(b, "checkbox")
	case question.Select:
		b.WriteString("<select\n  label=\"" + label + "\" optional=\"0\">\n")
		writeTitle(b, q.Title)
		for i, r := range q.Rows {
			b.WriteString("  <choice label=\"ch" + strconv.Itoa(i+1) + "\">" + Escape(r) + "</choice>\n")
		}
		closeElement(b, "select")
	case question.Number:
		b.WriteString("<number\n  label=\"" + label + "\"\n  size=\"3\"\n  optional=\"0\">\n")
		writeTitle(b, q.Title)
		closeElement(b, "number")
	case question.Text:
		b.WriteString("<text\n  label=\"" + label + "\"\n  size=\"40\"\n  optional=\"0\">\n")
		writeTitle(b, q.Title)
		closeElement(b, "text")
	case question.Textarea:
		b.WriteString("<textarea\n  label=\"" + label + "\"\n  optional=\"0\">\n")
		writeTitle(b, q.Title)
		b.WriteString("  <comment>" + textareaComment + "</comment>\n")
		closeElement(b, "textarea")
	case question.Rating:
		b.WriteString("<radio\n  label=\"" + label + "\"\n  type=\"rating\">\n")
		writeTitle(b, q.Title)
		writeRows(b, q.Rows)
		closeElement(b, "radio")
	case question.Pipe:
		// pipes carry no page break
		b.WriteString("<pipe\n  label=\"\"\n  capture=\"\">\n  " + Escape(q.Title) + "\n</pipe>\n")
	default:
		// radio and any unrecognized type
		b.WriteString("<radio\n  label=\"" + label + "\">\n")
		writeTitle(b, q.Title)
		writeRows(b, q.Rows)
		writeCols(b, q.Cols)
		closeElement(b, "radio")
	}
}

func writeTitle(b *strings.Builder, title string) {
	b.WriteString("  <title>" + title + "</title>\n")
}

func writeRows(b *strings.Builder, rows []string) {
	for i, r := range rows {
		b.WriteString("  <row label=\"r" + strconv.Itoa(i+1) + "\"")
		if IsOpenEnded(r) {
			b.WriteString(" open=\"1\"")
		}
		b.WriteString(">" + Escape(r) + "</row>\n")
	}
}

func writeCols(b *strings.Builder, cols []string) {
	for i, c := range cols {
		b.WriteString("  <col label=\"c" + strconv.Itoa(i+1) + "\">" + Escape(c) + "</col>\n")
	}
}

func closeElement(b *strings.Builder, name string) {
	b.WriteString("</" + name + ">\n" + sentinel + "\n")
}
