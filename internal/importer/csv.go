package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrDecode: the object body is not valid UTF-8. The whole object is
// rejected, never partially processed.
var ErrDecode = errors.New("object is not valid UTF-8 text")

// Record is one CSV row keyed by the header columns.
type Record map[string]string

// ParseCSV decodes one object body into a materialized record sequence.
// The first non-empty line is the header; every later line is zipped
// positionally against it. Short rows keep only the fields present and
// extra fields beyond the header are dropped, matching conventional
// dict-style CSV parsing.
func ParseCSV(data []byte) ([]Record, error) {
	if !utf8.Valid(data) {
		return nil, ErrDecode
	}

	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1 // ragged rows are fine
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, name := range header {
			if i >= len(row) {
				break
			}
			rec[name] = row[i]
		}
		records = append(records, rec)
	}
	return records, nil
}
