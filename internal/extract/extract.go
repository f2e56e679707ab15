package extract

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// MetaTags holds the four single-element meta lookups. Empty string means the
// tag (or its content attribute) was absent. No fallback between the name= and
// og: variants happens here; that composition belongs to the record builder.
type MetaTags struct {
	Title         string
	Description   string
	OGTitle       string
	OGDescription string
}

// Document is a parsed page ready for metadata lookups.
type Document struct {
	doc *goquery.Document
}

// Parse decodes raw response bytes to UTF-8 (invalid sequences are replaced,
// never raised) and builds a queryable document. contentType may carry a
// charset hint from the response headers; pass "" when unknown.
func Parse(raw []byte, contentType string) (*Document, error) {
	enc, _, _ := charset.DetermineEncoding(raw, contentType)
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		// Decode errors are tolerated, not raised: keep the input when it is
		// already valid UTF-8, otherwise substitute the offending sequences.
		if utf8.Valid(raw) {
			decoded = raw
		} else {
			decoded = bytes.ToValidUTF8(raw, []byte("\uFFFD"))
		}
	}
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: d}, nil
}

// Title returns the text of the document's title element, NBSP-normalized and
// trimmed. The second return is false when no title element exists.
func (d *Document) Title() (string, bool) {
	sel := d.doc.Find("title").First()
	if sel.Length() == 0 {
		return "", false
	}
	return normalizeText(sel.Text()), true
}

// Headings returns, for each level 1 through 6, the text of every matching
// heading element in document order. All six levels are always present in the
// result; a level with no headings maps to an empty slice.
func (d *Document) Headings() map[int][]string {
	out := make(map[int][]string, 6)
	for level := 1; level <= 6; level++ {
		texts := []string{}
		d.doc.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, s *goquery.Selection) {
			texts = append(texts, normalizeText(s.Text()))
		})
		out[level] = texts
	}
	return out
}

// Meta performs the four independent meta tag lookups, taking the first
// matching element in document order when duplicates exist.
func (d *Document) Meta() MetaTags {
	return MetaTags{
		Title:         d.metaContent(`meta[name="title"]`),
		Description:   d.metaContent(`meta[name="description"]`),
		OGTitle:       d.metaContent(`meta[property="og:title"]`),
		OGDescription: d.metaContent(`meta[property="og:description"]`),
	}
}

func (d *Document) metaContent(selector string) string {
	return strings.TrimSpace(d.doc.Find(selector).First().AttrOr("content", ""))
}

// normalizeText collapses non-breaking spaces to regular spaces and trims
// leading/trailing whitespace.
func normalizeText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}
