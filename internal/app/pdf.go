package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/surveygen/internal/question"
	"github.com/hyperifyio/surveygen/internal/surveyxml"
)

// WriteReviewPDF renders the collection as a printable review sheet with one
// section per question. Options are listed as the survey document carries
// them, with open-ended rows marked.
func (a *App) WriteReviewPDF(path string) error {
	qs := a.coll.All()
	if len(qs) == 0 {
		return errors.New("review: no questions")
	}
	if err := writeReviewPDF(qs, path); err != nil {
		return fmt.Errorf("write review pdf: %w", err)
	}
	log.Info().Str("out", path).Int("count", len(qs)).Msg("wrote review sheet")
	return nil
}

func writeReviewPDF(qs []*question.Question, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252; translate so accented option text survives
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Survey review (%d questions)", len(qs))), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for i, q := range qs {
		label := q.Label
		if label == "" {
			label = "(unlabeled)"
		}
		head := fmt.Sprintf("%d. %s  [%s]", i+1, label, q.Type)
		if q.SecondaryLabel != "" {
			head += "  " + q.SecondaryLabel
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, tr(head), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 11)
		if title := question.PlainTitle(q.Title, 0); title != "" {
			pdf.MultiCell(0, 5, tr(title), "", "L", false)
		}
		if q.Comment != "" {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, 5, tr(q.Comment), "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
		}
		for _, line := range optionLines(q) {
			pdf.MultiCell(0, 5, tr("    "+line), "", "L", false)
		}
		pdf.Ln(4)
	}
	return pdf.OutputFileAndClose(outPath)
}

// optionLines lists the options of q the way the survey document will carry
// them: dropdown choices as ch1.., rows as r1.. with open-ended rows marked,
// and columns only for types that render them. Input-only types list nothing.
func optionLines(q *question.Question) []string {
	var out []string
	switch q.Type {
	case question.Number, question.Text, question.Textarea, question.Pipe:
		return nil
	case question.Select:
		for i, r := range q.Rows {
			out = append(out, fmt.Sprintf("ch%d  %s", i+1, r))
		}
		return out
	}
	for i, r := range q.Rows {
		line := fmt.Sprintf("r%d  %s", i+1, r)
		if surveyxml.IsOpenEnded(r) {
			line += "  (open)"
		}
		out = append(out, line)
	}
	if q.Type != question.Rating && len(q.Cols) > 0 {
		out = append(out, "Columns: "+strings.Join(q.Cols, " | "))
	}
	return out
}
