package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/alexanderramin/worklog/internal/domain"
)

// SheetName is the single worksheet in an XLSX report.
const SheetName = "Work Hours"

// XLSXWriter writes the report as a one-sheet workbook with an Hours column.
type XLSXWriter struct {
	Display Display
}

func (w *XLSXWriter) Write(path string, entries []domain.ReportEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("%w: naming sheet: %w", ErrIO, err)
	}

	header := make([]any, 0, len(Header)+1)
	for _, h := range Header {
		header = append(header, h)
	}
	header = append(header, "Hours")
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("%w: writing header: %w", ErrIO, err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
		row := make([]any, 0, len(Header)+1)
		for _, v := range w.Display.Row(e) {
			row = append(row, v)
		}
		if e.Hours != nil {
			row = append(row, *e.Hours)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("%w: writing row %d: %w", ErrIO, i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%w: saving %s: %w", ErrIO, path, err)
	}
	return nil
}
