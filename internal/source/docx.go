package source

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

const documentPart = "word/document.xml"

var (
	errNoBody = errors.New("document has no body")
	anyTag    = regexp.MustCompile(`<[^>]+>`)
)

// FromDOCX extracts the text of a Word document. Paragraphs become blocks
// separated by blank lines and every table row becomes one line with its
// cells joined by " | ". When the document part cannot be parsed the result
// is the tag-stripped part content with Degraded set.
func FromDOCX(data []byte) (Text, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Text{}, fmt.Errorf("open docx archive: %w", err)
	}
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return Text{}, fmt.Errorf("docx: missing %s", documentPart)
	}
	rc, err := part.Open()
	if err != nil {
		return Text{}, fmt.Errorf("open %s: %w", documentPart, err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return Text{}, fmt.Errorf("read %s: %w", documentPart, err)
	}

	blocks, err := bodyBlocks(bytes.NewReader(raw))
	if err != nil {
		return Text{Content: normalize(stripTags(string(raw))), Format: FormatDOCX, Degraded: true}, nil
	}
	return Text{Content: normalize(strings.Join(blocks, "\n\n")), Format: FormatDOCX}, nil
}

// stripTags replaces every tag by a space and collapses whitespace.
func stripTags(s string) string {
	return strings.Join(strings.Fields(anyTag.ReplaceAllString(s, " ")), " ")
}

// bodyBlocks walks the direct children of <w:body> in document order.
func bodyBlocks(r io.Reader) ([]string, error) {
	d := xml.NewDecoder(r)
	var blocks []string
	inBody := false
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !inBody {
				inBody = t.Name.Local == "body"
				continue
			}
			switch t.Name.Local {
			case "p":
				s, err := elementText(d)
				if err != nil {
					return nil, err
				}
				if s = strings.TrimSpace(s); s != "" {
					blocks = append(blocks, s)
				}
			case "tbl":
				rows, err := tableRows(d)
				if err != nil {
					return nil, err
				}
				blocks = append(blocks, rows...)
			default:
				if err := d.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if inBody && t.Name.Local == "body" {
				return blocks, nil
			}
		}
	}
	if !inBody {
		return nil, errNoBody
	}
	return blocks, nil
}

// elementText consumes the current element and concatenates the character
// data of every <w:t> inside it, at any depth.
func elementText(d *xml.Decoder) (string, error) {
	var b strings.Builder
	depth, inText := 1, 0
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "t" {
				inText++
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "t" && inText > 0 {
				inText--
			}
		case xml.CharData:
			if inText > 0 {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

// tableRows consumes a <w:tbl> and returns one line per row.
func tableRows(d *xml.Decoder) ([]string, error) {
	var rows []string
	var cells []string
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tr":
				cells = cells[:0]
				depth++
			case "tc":
				s, err := elementText(d)
				if err != nil {
					return nil, err
				}
				cells = append(cells, strings.TrimSpace(s))
			default:
				depth++
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "tr" {
				rows = append(rows, strings.Join(cells, " | "))
			}
		}
	}
	return rows, nil
}
