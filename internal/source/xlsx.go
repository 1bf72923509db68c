package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Platform48/csv-migration-command-line-tool/internal/catalog"
)

// XLSX reads sheets from an Excel workbook. The first row of each sheet is
// the header; the row after it is export metadata and is skipped, so data
// starts at spreadsheet row 3.
type XLSX struct {
	file *excelize.File
}

// OpenXLSX opens a workbook from disk.
func OpenXLSX(path string) (*XLSX, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return &XLSX{file: f}, nil
}

// Close releases the workbook.
func (x *XLSX) Close() error {
	return x.file.Close()
}

// SheetNames returns the workbook's sheet names in workbook order.
func (x *XLSX) SheetNames() []string {
	return x.file.GetSheetList()
}

// Sheet implements Source.
func (x *XLSX) Sheet(name string) (*Sheet, error) {
	records, err := x.file.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(records) == 0 {
		return &Sheet{Name: name, FirstRow: 3}, nil
	}

	headers := DedupHeaders(records[0])

	// Row 2 of the export carries column metadata, not data.
	data := records[1:]
	if len(data) > 0 {
		data = data[1:]
	}

	sheet := &Sheet{Name: name, FirstRow: 3, Rows: make([]catalog.Row, 0, len(data))}
	for _, rec := range data {
		row := make(catalog.Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}
