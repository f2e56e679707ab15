package report

import (
	"fmt"

	"github.com/seoscan/seoscan/internal/record"
)

// LevelStats aggregates one heading level across successful records.
type LevelStats struct {
	// TotalHeadings is the sum of heading counts at this level.
	TotalHeadings int
	// URLsWithHeadings counts records with at least one heading at this level.
	URLsWithHeadings int
}

// Summary is a pure reduction over the finished record slice, computed once
// after the batch. Heading statistics cover successful records only.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Levels    [6]LevelStats // index 0 is h1
}

// Summarize folds the records into a Summary.
func Summarize(records []record.MetadataRecord) Summary {
	var s Summary
	s.Total = len(records)
	for _, r := range records {
		if !r.Succeeded() {
			s.Failed++
			continue
		}
		s.Succeeded++
		for i, h := range r.Headings {
			s.Levels[i].TotalHeadings += h.Count
			if h.Count > 0 {
				s.Levels[i].URLsWithHeadings++
			}
		}
	}
	return s
}

// Lines renders the summary block as console-ready lines.
func (s Summary) Lines() []string {
	lines := []string{
		"Scraping Summary:",
		fmt.Sprintf("Total URLs processed: %d", s.Total),
		fmt.Sprintf("Successful scrapes: %d", s.Succeeded),
		fmt.Sprintf("Failed scrapes: %d", s.Failed),
	}
	if s.Succeeded == 0 {
		return lines
	}
	lines = append(lines, "", "Heading Statistics:")
	for i, lv := range s.Levels {
		lines = append(lines, fmt.Sprintf("h%d: %d headings found across %d URLs", i+1, lv.TotalHeadings, lv.URLsWithHeadings))
	}
	return lines
}
