package fileconv

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Table is a row-major grid of cells. A cell is a string, a float64, a bool
// or nil for an empty cell. Rows may have different lengths.
type Table [][]any

// Width returns the length of the longest row.
func (t Table) Width() int {
	w := 0
	for _, row := range t {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// CSV serialises the table with RFC 4180 quoting.
func (t Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range t {
		rec := make([]string, len(row))
		for i, v := range row {
			rec[i] = cellText(v)
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// Records treats the first row as the header and returns the remaining
// non-blank rows keyed by column name. Cells missing from a row are null.
func (t Table) Records() []Record {
	if len(t) == 0 {
		return []Record{}
	}
	keys := headerNames(t[0], t.Width())

	out := make([]Record, 0, len(t)-1)
	for _, row := range t[1:] {
		if blankRow(row) {
			continue
		}
		values := make([]any, len(keys))
		copy(values, row)
		out = append(out, Record{Keys: keys, Values: values})
	}
	return out
}

// Record is one table row keyed by header. It marshals to a JSON object whose
// keys keep header order.
type Record struct {
	Keys   []string
	Values []any
}

func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRecords renders the table as a JSON array of objects.
func marshalRecords(t Table) ([]byte, error) {
	return json.MarshalIndent(t.Records(), "", "  ")
}

// headerNames names width columns after the header row. Empty headers become
// __EMPTY, __EMPTY_1, ... and repeated names get a _1, _2 suffix.
func headerNames(header []any, width int) []string {
	names := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int)
	for i := range names {
		base := ""
		if i < len(header) {
			base = cellText(header[i])
		}
		if base == "" {
			base = "__EMPTY"
		}
		name := base
		for used[name] {
			suffix[base]++
			name = fmt.Sprintf("%s_%d", base, suffix[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func blankRow(row []any) bool {
	for _, v := range row {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		return false
	}
	return true
}

// cellText formats a cell for text output.
func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	}
	return fmt.Sprint(v)
}

// inferCell types a text cell: empty is nil, numbers become float64 and
// TRUE/FALSE become booleans.
func inferCell(s string) any {
	if s == "" {
		return nil
	}
	switch strings.ToUpper(s) {
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	trimmed := strings.TrimSpace(s)
	if trimmed != "" && looksNumeric(trimmed) {
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	}
	return s
}

// looksNumeric rejects forms ParseFloat accepts but a spreadsheet would keep
// as text (hex, Inf, NaN, underscores).
func looksNumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

// parseCSV reads delimited text. With infer set, cells are typed by inferCell;
// otherwise every non-empty cell stays a string.
func parseCSV(data []byte, infer bool) (Table, error) {
	r := csv.NewReader(strings.NewReader(decodeText(data)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	t := make(Table, len(records))
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, s := range rec {
			switch {
			case infer:
				row[j] = inferCell(s)
			case s == "":
				row[j] = nil
			default:
				row[j] = s
			}
		}
		t[i] = row
	}
	return t, nil
}

var errInvalidJSON = errors.New("invalid JSON")

// parseJSONTable turns a JSON document into a table whose header is the union
// of object keys in first-seen order. A non-array document is treated as a
// one-element array, and an element that is not an object fills a "value"
// column.
func parseJSONTable(data []byte) (Table, error) {
	text := decodeText(data)
	if !gjson.Valid(text) {
		return nil, errInvalidJSON
	}

	doc := gjson.Parse(text)
	var elems []gjson.Result
	if doc.IsArray() {
		elems = doc.Array()
	} else {
		elems = []gjson.Result{doc}
	}

	var keys []string
	index := make(map[string]int)
	addKey := func(k string) int {
		if i, ok := index[k]; ok {
			return i
		}
		index[k] = len(keys)
		keys = append(keys, k)
		return index[k]
	}

	rows := make([]map[int]any, len(elems))
	for i, el := range elems {
		row := make(map[int]any)
		if el.IsObject() {
			el.ForEach(func(k, v gjson.Result) bool {
				row[addKey(k.String())] = jsonCell(v)
				return true
			})
		} else {
			row[addKey("value")] = jsonCell(el)
		}
		rows[i] = row
	}

	header := make([]any, len(keys))
	for i, k := range keys {
		header[i] = k
	}
	t := Table{header}
	for _, row := range rows {
		cells := make([]any, len(keys))
		for i, v := range row {
			cells[i] = v
		}
		t = append(t, cells)
	}
	return t, nil
}

func jsonCell(v gjson.Result) any {
	switch v.Type {
	case gjson.Null:
		return nil
	case gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return v.Float()
	case gjson.String:
		return v.String()
	}
	return v.Raw
}

// parseLooseTable rebuilds a table from free text: one row per line, cells
// split on commas.
func parseLooseTable(text string) Table {
	var t Table
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		parts := strings.Split(line, ",")
		row := make([]any, len(parts))
		for i, p := range parts {
			row[i] = p
		}
		t = append(t, row)
	}
	return t
}
