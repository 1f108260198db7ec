package invoice

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// exportSheet is the name of the worksheet holding extracted invoices
const exportSheet = "Faturas"

// ExportXLSX returns a workbook with one row per extracted record, in the
// order the files were processed. Files without a record are left out.
func ExportXLSX(results []Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Rename the default sheet rather than leaving an empty "Sheet1"
	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	headers := []any{"Arquivo", "Concessionária"}
	for _, fld := range reportFields {
		headers = append(headers, fld.label)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}

	row := 2
	for _, res := range results {
		if res.Record == nil {
			continue
		}
		values := []any{filepath.Base(res.Path), string(res.Record.Layout)}
		for _, fld := range reportFields {
			values = append(values, fld.cell(*res.Record))
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("locating row %d: %w", row, err)
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", row, err)
		}
		row++
	}

	_ = f.SetColWidth(exportSheet, "A", "B", 24)
	_ = f.SetColWidth(exportSheet, "C", "E", 40) // holder, document, address

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
