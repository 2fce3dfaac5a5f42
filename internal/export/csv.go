// Package export flattens stored records into CSV for download.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrEmpty is returned when there is nothing to export.
var ErrEmpty = errors.New("no records")

// CSV renders records as CSV. Each record is flattened through its JSON form, so fields
// tagged `json:"-"` never leave the process. Columns are the union of all record keys,
// "id" first and the rest sorted.
func CSV(records []any) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	rows := make([]map[string]string, 0, len(records))
	seen := make(map[string]struct{})
	for i, rec := range records {
		flat, err := flatten(rec)
		if err != nil {
			return nil, fmt.Errorf("flatten record %d: %w", i, err)
		}
		for k := range flat {
			seen[k] = struct{}{}
		}
		rows = append(rows, flat)
	}
	header := columns(seen)

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		for i, col := range header {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func columns(seen map[string]struct{}) []string {
	header := make([]string, 0, len(seen))
	_, hasID := seen["id"]
	for k := range seen {
		if k != "id" {
			header = append(header, k)
		}
	}
	sort.Strings(header)
	if hasID {
		header = append([]string{"id"}, header...)
	}
	return header
}

func flatten(rec any) (map[string]string, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case json.Number:
			out[k] = val.String()
		case bool:
			out[k] = strconv.FormatBool(val)
		default:
			nested, err := json.Marshal(val)
			if err != nil {
				return nil, err
			}
			out[k] = string(nested)
		}
	}
	return out, nil
}
