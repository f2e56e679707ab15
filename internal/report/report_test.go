package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seoscan/seoscan/internal/record"
)

func sampleRecords() []record.MetadataRecord {
	success := record.MetadataRecord{
		URL:             "https://a.test/page1",
		Domain:          "a.test",
		PageTitle:       record.Some("Hi There"),
		MetaDescription: record.Some("Desc 1"),
	}
	success.Headings[0] = record.HeadingStats{Count: 2, Text: "One | Two"}
	failure := record.Failed("https://dead.test/", "timeout")
	return []record.MetadataRecord{success, failure}
}

func TestWriteCSV_HeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecords()); err != nil {
		t.Fatalf("write error: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("re-read error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	header := rows[0]
	if len(header) != 20 || header[0] != "url" || header[19] != "error" {
		t.Fatalf("unexpected header: %v", header)
	}
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			t.Fatalf("row %d width %d does not match header %d", i, len(row), len(header))
		}
	}
	// Failure row: absent optionals serialize as empty cells, counts as zero.
	frow := rows[2]
	if frow[2] != "" || frow[7] != "0" || frow[8] != "" || frow[19] != "timeout" {
		t.Fatalf("unexpected failure row: %v", frow)
	}
}

func TestWriteCSV_Idempotent(t *testing.T) {
	var a, b bytes.Buffer
	recs := sampleRecords()
	if err := WriteCSV(&a, recs); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := WriteCSV(&b, recs); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("expected byte-identical output across runs")
	}
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSVFile(path, sampleRecords()); err != nil {
		t.Fatalf("write error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.HasPrefix(string(data), "url,domain,page_title,") {
		t.Fatalf("unexpected file prefix: %q", string(data[:40]))
	}
}

func TestSummarize(t *testing.T) {
	recs := sampleRecords()
	extra := record.MetadataRecord{URL: "https://b.test/", Domain: "b.test"}
	extra.Headings[0] = record.HeadingStats{Count: 1, Text: "Solo"}
	extra.Headings[2] = record.HeadingStats{Count: 3, Text: "a | b | c"}
	recs = append(recs, extra)

	s := Summarize(recs)
	if s.Total != 3 || s.Succeeded != 2 || s.Failed != 1 {
		t.Fatalf("unexpected totals: %+v", s)
	}
	if s.Levels[0].TotalHeadings != 3 || s.Levels[0].URLsWithHeadings != 2 {
		t.Fatalf("unexpected h1 stats: %+v", s.Levels[0])
	}
	if s.Levels[2].TotalHeadings != 3 || s.Levels[2].URLsWithHeadings != 1 {
		t.Fatalf("unexpected h3 stats: %+v", s.Levels[2])
	}
	if s.Levels[5].TotalHeadings != 0 || s.Levels[5].URLsWithHeadings != 0 {
		t.Fatalf("unexpected h6 stats: %+v", s.Levels[5])
	}
}

func TestSummaryLines_SkipsHeadingStatsWithoutSuccesses(t *testing.T) {
	s := Summarize([]record.MetadataRecord{record.Failed("https://dead.test/", "timeout")})
	lines := s.Lines()
	for _, l := range lines {
		if strings.Contains(l, "Heading Statistics") {
			t.Fatalf("expected no heading statistics block: %v", lines)
		}
	}
	if lines[1] != "Total URLs processed: 1" || lines[3] != "Failed scrapes: 1" {
		t.Fatalf("unexpected summary lines: %v", lines)
	}
}

func TestWriteSummaryPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.pdf")
	if err := WriteSummaryPDF(Summarize(sampleRecords()), path); err != nil {
		t.Fatalf("pdf write error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected pdf magic, got %q", string(data[:8]))
	}
}
