// Package export renders ordered record sequences as delimited text for
// download. Fields are quoted only when they contain the delimiter, a quote
// or a newline; quotes inside quoted fields are doubled.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	delimiter = ','
	quote     = '"'
)

// Column pairs a header with an accessor pulling the cell value off a record.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Write emits a header row followed by one row per record.
func Write[T any](w io.Writer, cols []Column[T], rows []T) error {
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header
	}
	if err := writeRow(w, headers); err != nil {
		return err
	}
	for _, r := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.Value(r)
		}
		if err := writeRow(w, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, cells []string) error {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(delimiter)
		}
		b.WriteString(escape(cell))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

func escape(s string) string {
	if !strings.ContainsAny(s, "\",\n\r") {
		return s
	}
	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		if r == quote {
			b.WriteByte(quote)
		}
		b.WriteRune(r)
	}
	b.WriteByte(quote)
	return b.String()
}

// Filename builds the download name: {name}_{ISO-date}.{ext}
func Filename(name string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", name, now.UTC().Format("2006-01-02"), ext)
}
