package record

import (
	"net/url"
	"strconv"

	"github.com/seoscan/seoscan/internal/extract"
)

// HeadingSeparator joins the heading texts of one level into a single cell.
const HeadingSeparator = " | "

// OptString is a nullable string. Absent values serialize as empty CSV cells;
// modeling absence explicitly keeps the schema uniform instead of relying on
// each caller to remember which fields to blank.
type OptString struct {
	String string
	Valid  bool
}

// Some wraps a present value.
func Some(s string) OptString { return OptString{String: s, Valid: true} }

// None is the absent value.
func None() OptString { return OptString{} }

// someNonEmpty treats the empty string as absent, matching the meta tag
// contract where a present element with empty content counts as missing.
func someNonEmpty(s string) OptString {
	if s == "" {
		return None()
	}
	return Some(s)
}

// HeadingStats summarizes one heading level of a page.
type HeadingStats struct {
	Count int
	Text  string
}

// MetadataRecord is one row of the output table. The schema is fixed: every
// record carries the same fields in the same order whether the page loaded or
// not, so the emitted table stays rectangular across pages of any quality.
type MetadataRecord struct {
	URL             string
	Domain          string
	PageTitle       OptString
	MetaTitle       OptString
	MetaDescription OptString
	OGTitle         OptString
	OGDescription   OptString
	Headings        [6]HeadingStats // index 0 is h1
	Error           OptString
}

// Succeeded reports whether the page was scraped without a failure.
func (r MetadataRecord) Succeeded() bool { return !r.Error.Valid }

// Columns is the header row, in the exact serialization order.
func Columns() []string {
	cols := []string{
		"url",
		"domain",
		"page_title",
		"meta_title",
		"meta_description",
		"og_title",
		"og_description",
	}
	for level := 1; level <= 6; level++ {
		n := strconv.Itoa(level)
		cols = append(cols, "h"+n+"_count", "h"+n+"_text")
	}
	return append(cols, "error")
}

// Row flattens the record into cells matching Columns. Absent optional values
// become empty cells.
func (r MetadataRecord) Row() []string {
	cells := []string{
		r.URL,
		r.Domain,
		r.PageTitle.String,
		r.MetaTitle.String,
		r.MetaDescription.String,
		r.OGTitle.String,
		r.OGDescription.String,
	}
	for _, h := range r.Headings {
		cells = append(cells, strconv.Itoa(h.Count), h.Text)
	}
	return append(cells, r.Error.String)
}

// Domain extracts the host portion of a URL for display. It never fails: a
// malformed URL degrades to an empty string since the domain is not
// load-bearing for the pipeline.
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// FromDocument builds the success-path record for a parsed page, applying the
// fallback precedence between the primary meta tags and their OpenGraph
// equivalents: the name= tag wins when present and non-empty, the og: value is
// used only otherwise. The raw og_* fields carry no fallback themselves.
func FromDocument(rawURL string, doc *extract.Document) MetadataRecord {
	r := MetadataRecord{URL: rawURL, Domain: Domain(rawURL)}

	if title, ok := doc.Title(); ok {
		r.PageTitle = Some(title)
	}

	meta := doc.Meta()
	r.MetaTitle = someNonEmpty(meta.Title)
	if !r.MetaTitle.Valid {
		r.MetaTitle = someNonEmpty(meta.OGTitle)
	}
	r.MetaDescription = someNonEmpty(meta.Description)
	if !r.MetaDescription.Valid {
		r.MetaDescription = someNonEmpty(meta.OGDescription)
	}
	r.OGTitle = someNonEmpty(meta.OGTitle)
	r.OGDescription = someNonEmpty(meta.OGDescription)

	headings := doc.Headings()
	for level := 1; level <= 6; level++ {
		texts := headings[level]
		r.Headings[level-1] = HeadingStats{
			Count: len(texts),
			Text:  joinHeadings(texts),
		}
	}
	return r
}

// Failed builds the failure-path record: the domain is still computed (it
// requires no fetch), every optional field is absent, every heading level is
// empty, and the failure reason lands in the error field. A failed URL is
// recorded, never fatal to the batch.
func Failed(rawURL string, reason string) MetadataRecord {
	return MetadataRecord{
		URL:    rawURL,
		Domain: Domain(rawURL),
		Error:  Some(reason),
	}
}

func joinHeadings(texts []string) string {
	if len(texts) == 0 {
		return ""
	}
	out := texts[0]
	for _, t := range texts[1:] {
		out += HeadingSeparator + t
	}
	return out
}
