package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelExporter exports report rows to Excel format
type ExcelExporter struct {
	file    *excelize.File
	options ExcelOptions
}

// ExcelOptions configures Excel export behavior
type ExcelOptions struct {
	SheetName       string `json:"sheet_name"`
	IncludeHeader   bool   `json:"include_header"`
	FreezeHeader    bool   `json:"freeze_header"`
	AutoFilter      bool   `json:"auto_filter"`
	TimestampFormat string `json:"timestamp_format"`
}

// DefaultExcelOptions returns default Excel export options
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		SheetName:       "Report",
		IncludeHeader:   true,
		FreezeHeader:    true,
		AutoFilter:      true,
		TimestampFormat: "2006-01-02 15:04:05",
	}
}

// NewExcelExporter creates a new Excel exporter
func NewExcelExporter(options ExcelOptions) *ExcelExporter {
	file := excelize.NewFile()
	file.SetSheetName("Sheet1", options.SheetName)

	return &ExcelExporter{
		file:    file,
		options: options,
	}
}

// WriteHeader writes a styled header row
func (e *ExcelExporter) WriteHeader(columns []string) error {
	if !e.options.IncludeHeader {
		return nil
	}

	sheetName := e.options.SheetName
	styleID, err := e.file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := e.file.SetCellValue(sheetName, cell, col); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
		e.file.SetCellStyle(sheetName, cell, cell, styleID)
	}

	if e.options.FreezeHeader {
		e.file.SetPanes(sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}
	return nil
}

// WriteRows writes the data rows below the header
func (e *ExcelExporter) WriteRows(rows [][]interface{}) error {
	sheetName := e.options.SheetName
	startRow := 1
	if e.options.IncludeHeader {
		startRow = 2
	}

	for rowIdx, row := range rows {
		for colIdx, val := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, startRow+rowIdx)
			if t, ok := val.(time.Time); ok {
				val = t.Format(e.options.TimestampFormat)
			}
			if err := e.file.SetCellValue(sheetName, cell, val); err != nil {
				return fmt.Errorf("failed to set cell value: %w", err)
			}
		}
	}

	if e.options.AutoFilter && e.options.IncludeHeader && len(rows) > 0 {
		lastCell, _ := excelize.CoordinatesToCellName(len(rows[0]), len(rows)+1)
		e.file.AutoFilter(sheetName, "A1:"+lastCell, nil)
	}
	return nil
}

// WriteTo serializes the workbook to the writer
func (e *ExcelExporter) WriteTo(w io.Writer) error {
	if err := e.file.Write(w); err != nil {
		return fmt.Errorf("failed to write excel file: %w", err)
	}
	return e.file.Close()
}
