package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"visit-scheduler-service/internal/domain"
)

const sheetName = "Visit Schedule"

var columnWidths = []float64{10, 20, 30, 10, 12, 15, 20, 20, 50, 20}

// WriteXLSX renders the schedule as a spreadsheet, one row per visit with
// travel annotations, and writes it to w.
func WriteXLSX(schedule domain.Schedule, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("write xlsx: new sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("write xlsx: drop default sheet: %w", err)
	}

	header := []any{
		"Date", "From Home", "Pub Name", "Post Code", "Last Visited",
		"Priority", "RTM", "Landlord", "Notes", "To Next",
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx: header: %w", err)
	}

	for i, row := range Rows(schedule) {
		cell := fmt.Sprintf("A%d", i+2)
		values := []any{
			row.Date, row.FromHome, row.PubName, row.Postcode, row.LastVisited,
			row.Priority, row.RTM, row.Landlord, row.Notes, row.ToNext,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write xlsx: row %d: %w", i+2, err)
		}
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("write xlsx: column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("write xlsx: column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
