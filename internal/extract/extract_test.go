package extract

import (
	"reflect"
	"testing"
)

func mustParse(t *testing.T, html string) *Document {
	t.Helper()
	doc, err := Parse([]byte(html), "text/html; charset=utf-8")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return doc
}

func TestTitle_Normalized(t *testing.T) {
	doc := mustParse(t, "<html><head><title>  Hi\u00a0There </title></head><body></body></html>")
	title, ok := doc.Title()
	if !ok {
		t.Fatalf("expected a title element")
	}
	if title != "Hi There" {
		t.Fatalf("expected %q, got %q", "Hi There", title)
	}
}

func TestTitle_Absent(t *testing.T) {
	doc := mustParse(t, "<html><head></head><body><h1>No title here</h1></body></html>")
	if _, ok := doc.Title(); ok {
		t.Fatalf("expected no title")
	}
}

func TestHeadings_OrderAndAllLevelsPresent(t *testing.T) {
	doc := mustParse(t, `<html><body>
        <h2>Second A</h2>
        <h1>First</h1>
        <h2>Second B</h2>
    </body></html>`)
	hs := doc.Headings()
	if len(hs) != 6 {
		t.Fatalf("expected 6 levels, got %d", len(hs))
	}
	for level := 1; level <= 6; level++ {
		if _, ok := hs[level]; !ok {
			t.Fatalf("level %d missing from result", level)
		}
	}
	if !reflect.DeepEqual(hs[1], []string{"First"}) {
		t.Fatalf("unexpected h1 set: %v", hs[1])
	}
	if len(hs[2]) != 2 || hs[2][0] != "Second A" {
		t.Fatalf("expected h2 document order preserved, got %v", hs[2])
	}
	for level := 3; level <= 6; level++ {
		if len(hs[level]) != 0 {
			t.Fatalf("expected empty slice at level %d, got %v", level, hs[level])
		}
	}
}

func TestHeadings_NBSPNormalized(t *testing.T) {
	doc := mustParse(t, "<html><body><h3>One\u00a0Two</h3></body></html>")
	hs := doc.Headings()
	if len(hs[3]) != 1 || hs[3][0] != "One Two" {
		t.Fatalf("expected normalized heading, got %v", hs[3])
	}
}

func TestMeta_Lookups(t *testing.T) {
	doc := mustParse(t, `<html><head>
        <meta name="title" content=" Meta Title ">
        <meta name="description" content="Meta Desc">
        <meta property="og:title" content="OG Title">
        <meta property="og:description" content="OG Desc">
    </head></html>`)
	m := doc.Meta()
	if m.Title != "Meta Title" {
		t.Fatalf("unexpected meta title: %q", m.Title)
	}
	if m.Description != "Meta Desc" || m.OGTitle != "OG Title" || m.OGDescription != "OG Desc" {
		t.Fatalf("unexpected meta set: %+v", m)
	}
}

func TestMeta_FirstMatchWinsOnDuplicates(t *testing.T) {
	doc := mustParse(t, `<html><head>
        <meta name="description" content="first">
        <meta name="description" content="second">
    </head></html>`)
	if got := doc.Meta().Description; got != "first" {
		t.Fatalf("expected first matching element, got %q", got)
	}
}

func TestMeta_AbsentAndEmpty(t *testing.T) {
	doc := mustParse(t, `<html><head><meta name="title" content="  "></head></html>`)
	m := doc.Meta()
	if m.Title != "" {
		t.Fatalf("expected empty content to normalize to absent, got %q", m.Title)
	}
	if m.Description != "" || m.OGTitle != "" || m.OGDescription != "" {
		t.Fatalf("expected absent lookups to be empty, got %+v", m)
	}
}

func TestParse_ToleratesInvalidBytes(t *testing.T) {
	// 0xff 0xfe is not valid UTF-8; parsing must substitute, not fail.
	raw := append([]byte("<html><head><title>ok</title></head><body>"), 0xff, 0xfe)
	raw = append(raw, []byte("</body></html>")...)
	doc, err := Parse(raw, "text/html; charset=utf-8")
	if err != nil {
		t.Fatalf("expected tolerant decode, got %v", err)
	}
	if title, ok := doc.Title(); !ok || title != "ok" {
		t.Fatalf("expected title 'ok', got %q (%v)", title, ok)
	}
}

func TestParse_DecodesDeclaredCharset(t *testing.T) {
	// "café" in ISO-8859-1: 0xe9 for é.
	raw := []byte("<html><head><title>caf\xe9</title></head></html>")
	doc, err := Parse(raw, "text/html; charset=iso-8859-1")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if title, _ := doc.Title(); title != "café" {
		t.Fatalf("expected decoded title, got %q", title)
	}
}
