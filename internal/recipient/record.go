// Package recipient models one row of tabular recipient data and loads those
// rows from CSV files.
package recipient

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrShapeMismatch reports a data row whose length differs from the header.
	ErrShapeMismatch = errors.New("recipient shape mismatch")
	// ErrUnknownField reports a lookup of a name not in the header.
	ErrUnknownField = errors.New("unknown recipient field")
	// ErrNoData reports a recipient file without header or data rows.
	ErrNoData = errors.New("no recipient data")
)

// Record is one recipient: an ordered header and one value per field.
type Record struct {
	header []string
	values []string
	index  map[string]int
}

// New pairs header with values. Both must have the same, non-zero length.
func New(header, values []string) (Record, error) {
	if len(header) == 0 {
		return Record{}, fmt.Errorf("%w: no header given", ErrShapeMismatch)
	}
	if len(header) != len(values) {
		return Record{}, fmt.Errorf("%w: %d fields but %d values", ErrShapeMismatch, len(header), len(values))
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return Record{
		header: slices.Clone(header),
		values: slices.Clone(values),
		index:  index,
	}, nil
}

// Header returns the field names in file order.
func (r Record) Header() []string {
	return slices.Clone(r.header)
}

// Field returns the value stored under name.
func (r Record) Field(name string) (string, error) {
	i, ok := r.index[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return r.values[i], nil
}

// Map returns the record as a field name to value mapping.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.header))
	for name, i := range r.index {
		out[name] = r.values[i]
	}
	return out
}

func (r Record) String() string {
	var b strings.Builder
	for i, name := range r.header {
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(r.values[i])
		b.WriteByte('\n')
	}
	return b.String()
}
