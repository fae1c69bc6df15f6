package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/surveygen/internal/app"
	"github.com/hyperifyio/surveygen/internal/question"
	"github.com/hyperifyio/surveygen/internal/source"
)

// listTitleWidth bounds titles in the list output.
const listTitleWidth = 60

func newExtractCmd(o *options) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Extract questions from a text or .docx file and append them",
		Long: `Extract questions from a document and append them to the workspace.

With --mode heuristic (the default) the text is split at label lines and
every block is parsed with rules. With --mode ai the text is split at blank
lines and every paragraph is sent to the model; blocks the model cannot
handle are parsed with rules instead. Without an API key, ai mode behaves
like heuristic parsing of paragraphs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.ParseMode(mode)
			if err != nil {
				return err
			}
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			doc, err := source.Load(path, o.stdin)
			if err != nil {
				return err
			}
			if doc.Degraded {
				log.Warn().Str("input", path).Msg("document could not be parsed; using its raw text")
			}
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			if m == app.ModeAI {
				a.Preflight(cmd.Context())
			}
			res, err := a.Extract(cmd.Context(), doc.Content, m)
			if err != nil {
				return err
			}
			if err := a.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d questions from %d blocks (model: %d, fallback: %d)\n", len(res.Added), res.Blocks, res.ViaAI, res.Fallbacks)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(app.ModeHeuristic), "Extraction mode: heuristic or ai")
	return cmd
}

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List questions in the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			qs := a.Questions()
			if len(qs) == 0 {
				fmt.Fprintln(w, "no questions")
				return nil
			}
			for i, q := range qs {
				label := q.Label
				if label == "" {
					label = "-"
				}
				fmt.Fprintf(w, "%3d. %-8s %-12s %s (rows %d, cols %d) %s\n", i+1, label, q.Type, question.PlainTitle(q.Title, listTitleWidth), len(q.Rows), len(q.Cols), q.ID)
			}
			if a.Document() != "" {
				fmt.Fprintln(w, "generated document available; run export to write it")
			}
			return nil
		},
	}
}

func newAddCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Append a blank single-choice question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			q := a.AddBlank()
			if err := a.Save(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), q.ID)
			return nil
		},
	}
}

func newEditCmd(o *options) *cobra.Command {
	var (
		label, secondary, title, comment, typ string
		rows, cols                            []string
		rowsFile, colsFile                    string
	)
	cmd := &cobra.Command{
		Use:   "edit <id|index>",
		Short: "Change fields of one question",
		Long: `Change fields of one question. Only the flags given are applied.

Options and columns can be given with repeated --row/--col flags or read from
a file with one entry per line; blank lines are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e question.Edit
			f := cmd.Flags()
			if f.Changed("label") {
				e.Label = &label
			}
			if f.Changed("secondary") {
				e.SecondaryLabel = &secondary
			}
			if f.Changed("title") {
				e.Title = &title
			}
			if f.Changed("comment") {
				e.Comment = &comment
			}
			if f.Changed("type") {
				e.Type = &typ
			}
			var err error
			if e.Rows, err = lineList(f.Changed("row"), rows, rowsFile); err != nil {
				return err
			}
			if e.Cols, err = lineList(f.Changed("col"), cols, colsFile); err != nil {
				return err
			}

			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			id, err := a.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.Edit(id, e); err != nil {
				return err
			}
			return a.Save()
		},
	}
	f := cmd.Flags()
	f.StringVar(&label, "label", "", "Question label")
	f.StringVar(&secondary, "secondary", "", "Secondary label")
	f.StringVar(&title, "title", "", "Question text; may contain markup")
	f.StringVar(&comment, "comment", "", "Comment")
	f.StringVar(&typ, "type", "", "Question type: "+typeNames())
	f.StringArrayVar(&rows, "row", nil, "Option text (repeatable)")
	f.StringArrayVar(&cols, "col", nil, "Column text (repeatable)")
	f.StringVar(&rowsFile, "rows-file", "", "Read options from a file, one per line")
	f.StringVar(&colsFile, "cols-file", "", "Read columns from a file, one per line")
	return cmd
}

// lineList returns the editor text for a list field, or nil when neither
// the repeated flag nor the file flag was given.
func lineList(changed bool, values []string, file string) (*string, error) {
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		s := string(b)
		return &s, nil
	}
	if !changed {
		return nil, nil
	}
	s := strings.Join(values, "\n")
	return &s, nil
}

func typeNames() string {
	names := make([]string, len(question.Types))
	for i, t := range question.Types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func newMoveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:       "move <id|index> up|down",
		Short:     "Move a question one position",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			id, err := a.Resolve(args[0])
			if err != nil {
				return err
			}
			switch strings.ToLower(args[1]) {
			case "up":
				err = a.MoveUp(id)
			case "down":
				err = a.MoveDown(id)
			default:
				return fmt.Errorf("direction must be up or down, got %q", args[1])
			}
			if err != nil {
				return err
			}
			return a.Save()
		},
	}
}

func newDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|index>",
		Short: "Remove a question",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			id, err := a.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.Delete(id); err != nil {
				return err
			}
			return a.Save()
		},
	}
}

func newGenerateCmd(o *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Label unlabeled questions and render the survey XML",
		Long: `Render the workspace as survey XML and keep it for export. Questions
without a label get a generated one. The document is printed unless --out
is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			doc, err := a.Generate()
			if err != nil {
				return err
			}
			if err := a.Save(); err != nil {
				return err
			}
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), doc)
				return nil
			}
			_, err = a.Export(out)
			return err
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Also write the document to this file")
	return cmd
}

func newExportCmd(o *options) *cobra.Command {
	var out, pdf string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the last generated document to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			p, err := a.Export(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			if pdf != "" {
				if err := a.WriteReviewPDF(pdf); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), pdf)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", app.DefaultExportName, "Output file")
	cmd.Flags().StringVar(&pdf, "pdf", "", "Also write a printable review sheet")
	return cmd
}

func newClearCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every question and the generated document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.open(cmd)
			if err != nil {
				return err
			}
			a.Clear()
			return a.Save()
		},
	}
}
