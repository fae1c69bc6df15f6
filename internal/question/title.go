package question

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainTitle returns the title with any embedded markup removed and
// whitespace collapsed, truncated to max runes when max > 0. It is meant for
// listings; the stored title is never changed.
func PlainTitle(title string, max int) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(title))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
	s := strings.Join(strings.Fields(b.String()), " ")
	if max > 0 {
		r := []rune(s)
		if len(r) > max {
			s = string(r[:max])
		}
	}
	return s
}
