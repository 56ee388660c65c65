package recipient

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads recipients from a comma-separated, double-quoted CSV file whose
// first row is the header.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipient file: %w", err)
	}
	records, err := Parse(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Parse reads recipients from CSV content.
func Parse(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no lines found", ErrNoData)
	}
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse row %d: %w", len(records)+2, err)
		}
		record, err := New(header, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(records)+2, err)
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no data lines found", ErrNoData)
	}
	return records, nil
}
