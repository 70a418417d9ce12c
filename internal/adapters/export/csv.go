// Package export renders enriched tables and tier partitions to files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/okian/draftboard/internal/domain/model"
)

// WriteCSV writes t with one column per enriched field, in schema order.
// Null cells are written empty.
func WriteCSV(w io.Writer, t model.Table) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(model.Columns))
	for i, c := range model.Columns {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: writing CSV header: %v", ErrExport, err)
	}
	row := make([]string, len(model.Columns))
	for i := range t {
		for j, c := range model.Columns {
			row[j] = model.FormatCell(c.Get(&t[i]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: writing CSV row %d: %v", ErrExport, i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: flushing CSV: %v", ErrExport, err)
	}
	return nil
}
