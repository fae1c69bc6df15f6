// Package source loads survey text from files. It sits outside the
// extraction core: whatever it produces is plain text for the segmenter.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Formats reported in Text.Format.
const (
	FormatText = "text"
	FormatDOCX = "docx"
)

// Text is loaded document text.
type Text struct {
	Content string
	Format  string
	// Degraded is set when a document could not be parsed and Content is a
	// best-effort dump of its raw text.
	Degraded bool
}

// zipMagic starts every .docx archive.
var zipMagic = []byte("PK\x03\x04")

// Load reads path ("-" for stdin). Word documents are detected by extension
// or by their ZIP signature; everything else is decoded as text.
func Load(path string, stdin io.Reader) (Text, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return Text{}, fmt.Errorf("read input: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".docx") || bytes.HasPrefix(data, zipMagic) {
		return FromDOCX(data)
	}
	return FromBytes(data)
}

// FromBytes decodes UTF-8 or BOM-marked UTF-16 text and normalizes it.
func FromBytes(data []byte) (Text, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return Text{}, fmt.Errorf("decode text: %w", err)
	}
	return Text{Content: normalize(string(out)), Format: FormatText}, nil
}

// spaceLike maps the non-breaking and fixed-width spaces word processors
// leave behind to plain spaces.
func spaceLike(r rune) rune {
	switch r {
	case '\u00a0', '\u2007', '\u202f', '\u2002', '\u2003', '\u2009':
		return ' '
	}
	return r
}

func zeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\ufeff':
		return true
	}
	return false
}

func normalize(s string) string {
	t := transform.Chain(runes.Remove(runes.Predicate(zeroWidth)), runes.Map(spaceLike), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
