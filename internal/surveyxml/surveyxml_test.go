package surveyxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/hyperifyio/surveygen/internal/question"
)

func q(label string, typ question.Type, title string, rows, cols []string) *question.Question {
	return question.New(question.Question{Label: label, Type: typ, Title: title, Rows: rows, Cols: cols})
}

func TestRender_Golden(t *testing.T) {
	got, err := Render([]*question.Question{
		q("S3", question.Radio, "Are you <b>satisfied</b>?", []string{"Yes", "No", "Other, specify"}, nil),
		q("P1", question.Pipe, "Tom & Jerry", []string{"ignored"}, nil),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `<survey name="Survey" alt="" autosave="0">

<radio
  label="S3">
  <title>Are you <b>satisfied</b>?</title>
  <row label="r1">Yes</row>
  <row label="r2">No</row>
  <row label="r3" open="1">Other, specify</row>
</radio>
<suspend/>

<pipe
  label=""
  capture="">
  Tom &amp; Jerry
</pipe>

</survey>`
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_EmptyIsRejected(t *testing.T) {
	out, err := Render(nil)
	if !errors.Is(err, ErrEmpty) || out != "" {
		t.Fatalf("expected ErrEmpty and no output, got %q, %v", out, err)
	}
}

func TestIsOpenEnded(t *testing.T) {
	cases := map[string]bool{
		"Other":                  true,
		"Please specify":         true,
		"OTHER (write in)":       true,
		"Something else/other":   true,
		"Otherwise unsure":       false,
		"Others":                 false,
		"Unspecified":            false,
		"Another brand":          false,
		"Mother":                 false,
		"Specifying is optional": false,
		"None of the above":      false,
	}
	for in, want := range cases {
		if got := IsOpenEnded(in); got != want {
			t.Errorf("IsOpenEnded(%q)=%v want %v", in, got, want)
		}
	}
}

func TestRender_TypeShapes(t *testing.T) {
	rows := []string{"A", "B"}
	cols := []string{"X", "Y"}
	cases := []struct {
		typ   question.Type
		want  []string
		avoid []string
	}{
		{question.RadioAtm1d, []string{"<radio\n  label=\"L\"\n  atm1d:showInput=\"0\"\n  uses=\"atm1d.10\">", `<col label="c2">Y</col>`, "</radio>\n<suspend/>"}, nil},
		{question.Checkbox, []string{"<checkbox\n  label=\"L\"\n  atleast=\"1\">", `<row label="r1">A</row>`, `<col label="c1">X</col>`, "</checkbox>\n<suspend/>"}, nil},
		{question.Select, []string{"<select\n  label=\"L\" optional=\"0\">", `<choice label="ch1">A</choice>`, `<choice label="ch2">B</choice>`}, []string{"<row", "<col"}},
		{question.Number, []string{"<number\n  label=\"L\"\n  size=\"3\"\n  optional=\"0\">", "</number>\n<suspend/>"}, []string{"<row", "<col"}},
		{question.Text, []string{"<text\n  label=\"L\"\n  size=\"40\"\n  optional=\"0\">"}, []string{"<row"}},
		{question.Textarea, []string{"<textarea\n  label=\"L\"\n  optional=\"0\">", "<comment>Please be as specific as possible</comment>"}, []string{"<row"}},
		{question.Rating, []string{"<radio\n  label=\"L\"\n  type=\"rating\">", `<row label="r2">B</row>`}, []string{"<col"}},
		{question.Type("matrix"), []string{"<radio\n  label=\"L\">", `<col label="c1">X</col>`}, nil},
		{question.Pipe, []string{"<pipe\n  label=\"\"\n  capture=\"\">\n  T\n</pipe>"}, []string{"<suspend/>", "<row", "<title>"}},
	}
	for _, c := range cases {
		out, err := Render([]*question.Question{q("L", c.typ, "T", rows, cols)})
		if err != nil {
			t.Fatalf("%s: %v", c.typ, err)
		}
		for _, w := range c.want {
			if !strings.Contains(out, w) {
				t.Errorf("%s: missing %q in\n%s", c.typ, w, out)
			}
		}
		for _, a := range c.avoid {
			if strings.Contains(out, a) {
				t.Errorf("%s: unexpected %q in\n%s", c.typ, a, out)
			}
		}
	}
}

// element is a direct child of <survey> with the labels of its own children.
type element struct {
	name      string
	childTags []string
	labels    []string
	texts     []string
}

func children(t *testing.T, doc string) []element {
	t.Helper()
	d := xml.NewDecoder(strings.NewReader(doc))
	var out []element
	depth := 0
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("decode: %v\n%s", err, doc)
		}
		switch tt := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				out = append(out, element{name: tt.Name.Local})
			}
			if depth == 3 {
				e := &out[len(out)-1]
				e.childTags = append(e.childTags, tt.Name.Local)
				for _, a := range tt.Attr {
					if a.Name.Local == "label" {
						e.labels = append(e.labels, a.Value)
					}
				}
				var text string
				if err := d.DecodeElement(&text, &tt); err != nil {
					t.Fatalf("decode child: %v", err)
				}
				e.texts = append(e.texts, text)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
	return out
}

func TestRender_PositionalIdentifiersAndSentinels(t *testing.T) {
	var qs []*question.Question
	for i, typ := range question.Types {
		rows := make([]string, i+1)
		for j := range rows {
			rows[j] = "same"
		}
		qs = append(qs, q(fmt.Sprintf("Q%d", i), typ, "title", rows, []string{"c", "c", "c"}))
	}
	out, err := Render(qs)
	if err != nil {
		t.Fatal(err)
	}
	els := children(t, out)
	var questions []element
	for i, e := range els {
		if e.name == "suspend" {
			continue
		}
		questions = append(questions, e)
		next := ""
		if i+1 < len(els) {
			next = els[i+1].name
		}
		if e.name == "pipe" {
			if next == "suspend" {
				t.Fatalf("pipe must not be followed by a sentinel")
			}
			continue
		}
		if next != "suspend" {
			t.Fatalf("element %d (%s) not followed by sentinel, next=%q", i, e.name, next)
		}
	}
	if len(questions) != len(question.Types) {
		t.Fatalf("expected %d question elements, got %d", len(question.Types), len(questions))
	}
	for _, e := range questions {
		var r, ch, c int
		for k, tag := range e.childTags {
			if tag == "title" || tag == "comment" {
				continue
			}
			lbl := e.labels[k-countUnlabeled(e.childTags[:k])]
			switch tag {
			case "row":
				r++
				if lbl != fmt.Sprintf("r%d", r) {
					t.Fatalf("%s: row label %q at position %d", e.name, lbl, r)
				}
			case "choice":
				ch++
				if lbl != fmt.Sprintf("ch%d", ch) {
					t.Fatalf("%s: choice label %q at position %d", e.name, lbl, ch)
				}
			case "col":
				c++
				if lbl != fmt.Sprintf("c%d", c) {
					t.Fatalf("%s: col label %q at position %d", e.name, lbl, c)
				}
			}
		}
	}
}

func countUnlabeled(tags []string) int {
	n := 0
	for _, t := range tags {
		if t == "title" || t == "comment" {
			n++
		}
	}
	return n
}

func TestRender_EscapingRoundTrip(t *testing.T) {
	nasty := []string{`Fish & "chips"`, `<none>`, `it's > that`, `&amp; literal`}
	out, err := Render([]*question.Question{q(`A&"B'`, question.Checkbox, "t", nasty, nasty)})
	if err != nil {
		t.Fatal(err)
	}
	for _, ent := range []string{"&amp;", "&lt;", "&gt;", "&quot;", "&apos;"} {
		if !strings.Contains(out, ent) {
			t.Fatalf("missing entity %s in\n%s", ent, out)
		}
	}
	if !strings.Contains(out, `label="A&amp;&quot;B&apos;"`) {
		t.Fatalf("label not escaped:\n%s", out)
	}
	els := children(t, out)
	got := els[0].texts[1:] // skip title
	want := append(append([]string{}, nasty...), nasty...)
	if strings.Join(got, "\x00") != strings.Join(want, "\x00") {
		t.Fatalf("round trip mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestRender_Deterministic(t *testing.T) {
	qs := []*question.Question{q("S1", question.Radio, "t", []string{"Other"}, nil)}
	a, _ := Render(qs)
	b, _ := Render(qs)
	if a != b {
		t.Fatalf("output must be deterministic")
	}
}
