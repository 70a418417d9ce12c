package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/tiering"
	"github.com/xuri/excelize/v2"
)

// UnassignedSheet holds the records no rule matched.
const UnassignedSheet = tiering.Unassigned

const defaultSheet = "Sheet1"

// tierColumns are the columns written to each tier sheet.
var tierColumns = []string{
	"id", "name", "position", "team_code", "ppg", "minutes",
	"points_last_season", "avg_points_last_2_seasons", "avg_points_last_3_seasons",
	"minutes_last_season", "avg_minutes_last_2_seasons",
	"new_in_league", "new_in_team", "influential_player_left",
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// WriteWorkbook renders p as an xlsx workbook with one sheet per tier in
// partition order and a final Unassigned sheet.
func WriteWorkbook(w io.Writer, p tiering.Partition) error {
	cols := make([]model.Column, len(tierColumns))
	for i, name := range tierColumns {
		c, err := model.Lookup(name)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
		cols[i] = c
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}

	sheets := make([]string, 0, len(p.Tiers)+1)
	tables := make([]model.Table, 0, len(p.Tiers)+1)
	for _, t := range p.Tiers {
		if strings.EqualFold(t.Name, UnassignedSheet) {
			return fmt.Errorf("%w: tier %q collides with the %s sheet", ErrExport, t.Name, UnassignedSheet)
		}
		sheets = append(sheets, t.Name)
		tables = append(tables, t.Records)
	}
	sheets = append(sheets, UnassignedSheet)
	tables = append(tables, p.Unassigned)

	keepDefault := false
	for i, name := range sheets {
		if strings.EqualFold(name, defaultSheet) {
			keepDefault = true
		}
		idx, err := f.NewSheet(name)
		if err != nil {
			return fmt.Errorf("%w: sheet %q: %v", ErrExport, name, err)
		}
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		if err := writeSheet(f, name, cols, tables[i], headerStyle); err != nil {
			return err
		}
	}
	if !keepDefault {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: writing workbook: %v", ErrExport, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, cols []model.Column, t model.Table, style int) error {
	for j, c := range cols {
		if err := f.SetCellValue(sheet, cell(j+1, 1), c.Name); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
	}
	if err := f.SetCellStyle(sheet, cell(1, 1), cell(len(cols), 1), style); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := f.SetColWidth(sheet, "B", "B", 20); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	for i := range t {
		for j, c := range cols {
			v := c.Get(&t[i])
			if v == nil {
				continue
			}
			if err := f.SetCellValue(sheet, cell(j+1, i+2), v); err != nil {
				return fmt.Errorf("%w: %v", ErrExport, err)
			}
		}
	}
	return nil
}
