package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/seoscan/seoscan/internal/record"
)

// WriteCSV emits the table: a header row with the fixed column order, then one
// row per record in input order. Absent optional fields become empty cells.
func WriteCSV(w io.Writer, records []record.MetadataRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(record.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to path, creating or truncating the file.
func WriteCSVFile(path string, records []record.MetadataRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
