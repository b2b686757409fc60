package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// CSVExporter exports report rows to CSV format
type CSVExporter struct {
	writer  *csv.Writer
	options CSVOptions
}

// CSVOptions configures CSV export behavior
type CSVOptions struct {
	Delimiter       rune   `json:"delimiter"`
	UseCRLF         bool   `json:"use_crlf"`
	IncludeHeader   bool   `json:"include_header"`
	TimestampFormat string `json:"timestamp_format"`
	NullValue       string `json:"null_value"`
}

// DefaultCSVOptions returns default CSV export options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:       ',',
		UseCRLF:         false,
		IncludeHeader:   true,
		TimestampFormat: time.RFC3339,
		NullValue:       "",
	}
}

// NewCSVExporter creates a new CSV exporter
func NewCSVExporter(w io.Writer, options CSVOptions) *CSVExporter {
	writer := csv.NewWriter(w)
	writer.Comma = options.Delimiter
	writer.UseCRLF = options.UseCRLF

	return &CSVExporter{
		writer:  writer,
		options: options,
	}
}

// WriteHeader writes the CSV header row
func (e *CSVExporter) WriteHeader(columns []string) error {
	if !e.options.IncludeHeader {
		return nil
	}
	if err := e.writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// WriteRow writes a single row of data
func (e *CSVExporter) WriteRow(row []interface{}) error {
	record := make([]string, len(row))
	for i, val := range row {
		record[i] = e.formatValue(val)
	}
	if err := e.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// Flush writes buffered data to the underlying writer
func (e *CSVExporter) Flush() error {
	e.writer.Flush()
	return e.writer.Error()
}

func (e *CSVExporter) formatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return e.options.NullValue
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(e.options.TimestampFormat)
	default:
		return fmt.Sprintf("%v", v)
	}
}
