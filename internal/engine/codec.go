package engine

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxHeaderSearchRows is how many leading rows decode scans for a header
// before giving up. Spreadsheet exports sometimes put a title or blank
// rows above the real header.
const maxHeaderSearchRows = 10

// DecodeStats reports what decode did with the input. Row skipping and
// year coercion are deliberate policy, surfaced as counts rather than
// hidden control flow.
type DecodeStats struct {
	Rows         int `json:"rows"`         // records decoded
	Skipped      int `json:"skipped"`      // malformed or empty rows dropped
	YearWarnings int `json:"yearWarnings"` // year cells that did not parse and defaulted to 0
}

// Decode parses delimited text into a record collection. The first
// recognizable row naming at least one fixed column is the header; columns
// are mapped by name, so extra columns and arbitrary column order are
// tolerated. Missing fields default to the empty string, and the year
// column defaults to 0 when absent or non-numeric. Malformed rows are
// skipped rather than aborting the decode.
//
// Decode is all-or-nothing: it returns either a complete collection or an
// error, never a partial result.
func Decode(r io.Reader) (Collection, DecodeStats, error) {
	var stats DecodeStats

	cr := csv.NewReader(wrapForDecode(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headerIdx, err := findHeader(cr, &stats)
	if err != nil {
		return nil, DecodeStats{}, err
	}

	var records Collection
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip-and-continue: one bad row must not poison a large
			// upload. Reader failures are not row problems and abort.
			if !isParseError(err) {
				return nil, DecodeStats{}, fmt.Errorf("read row: %w", err)
			}
			stats.Skipped++
			continue
		}
		if isEmptyRow(row) {
			stats.Skipped++
			continue
		}
		records = append(records, rowToRecord(row, headerIdx, &stats))
	}

	stats.Rows = len(records)
	return records, stats, nil
}

// DecodeString is a convenience wrapper around Decode.
func DecodeString(text string) (Collection, DecodeStats, error) {
	return Decode(strings.NewReader(text))
}

// findHeader reads rows until one names at least one fixed column, and
// returns the column index for it. Rows before the header count as skipped.
func findHeader(cr *csv.Reader, stats *DecodeStats) (map[string]int, error) {
	for scanned := 0; scanned < maxHeaderSearchRows; scanned++ {
		row, err := cr.Read()
		if err == io.EOF {
			return nil, ErrNoHeader
		}
		if err != nil {
			if !isParseError(err) {
				return nil, fmt.Errorf("read row: %w", err)
			}
			stats.Skipped++
			continue
		}

		idx := headerIndex(row)
		if len(idx) > 0 {
			return idx, nil
		}
		if !isEmptyRow(row) {
			stats.Skipped++
		}
	}
	return nil, ErrNoHeader
}

// isParseError reports whether err is a CSV syntax problem confined to
// one row, as opposed to a failure of the underlying reader.
func isParseError(err error) bool {
	var pe *csv.ParseError
	return errors.As(err, &pe)
}

// headerIndex maps fixed column names to their position in the header row.
// Matching is case-insensitive. Unknown columns are ignored.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(Columns))
	known := make(map[string]string, len(Columns))
	for _, col := range Columns {
		known[strings.ToLower(col)] = col
	}
	for i, h := range header {
		if col, ok := known[strings.ToLower(cleanCell(h))]; ok {
			if _, dup := idx[col]; !dup {
				idx[col] = i
			}
		}
	}
	return idx
}

// rowToRecord builds a record from a data row using the header mapping.
func rowToRecord(row []string, headerIdx map[string]int, stats *DecodeStats) Record {
	var rec Record
	for col, pos := range headerIdx {
		if pos >= len(row) {
			continue
		}
		raw := cleanCell(row[pos])
		if col == ColPublishedYear {
			if raw != "" {
				if _, err := strconv.Atoi(raw); err != nil {
					stats.YearWarnings++
				}
			}
			rec.PublishedYear = coerceYear(raw)
			continue
		}
		rec.SetField(col, raw)
	}
	return rec
}

// cleanCell removes common spreadsheet artifacts from a cell value:
// surrounding whitespace and the Excel formula wrapper (="...").
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return s
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Encode writes the collection as delimited text: a header row naming the
// fixed columns in order, then one row per record. Every field is quoted
// with internal quotes doubled. Always quoting is not escape-minimal, but
// it is correct for any content including embedded commas, quotes, and
// newlines.
func Encode(w io.Writer, c Collection) error {
	bw := bufio.NewWriter(w)

	writeRow := func(fields []string) error {
		for i, f := range fields {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if err := bw.WriteByte('"'); err != nil {
				return err
			}
			if _, err := bw.WriteString(strings.ReplaceAll(f, `"`, `""`)); err != nil {
				return err
			}
			if err := bw.WriteByte('"'); err != nil {
				return err
			}
		}
		return bw.WriteByte('\n')
	}

	if err := writeRow(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	fields := make([]string, len(Columns))
	for _, rec := range c {
		for i, col := range Columns {
			fields[i], _ = rec.Field(col)
		}
		if err := writeRow(fields); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	return bw.Flush()
}

// EncodeToString is a convenience wrapper around Encode.
func EncodeToString(c Collection) string {
	var buf bytes.Buffer
	Encode(&buf, c)
	return buf.String()
}
