package eruntime

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVStore is the default MasterData: one category per CSV file, named by
// the upper-cased file base name (Chara.csv -> CHARA). Each row is
// "id,field1,field2,...", with ';' starting a comment.
type CSVStore struct {
	rowsByBase map[string]map[int64][]string
}

func NewCSVStore(files map[string]string) *CSVStore {
	s := &CSVStore{rowsByBase: map[string]map[int64][]string{}}
	for file, content := range files {
		base := csvBaseName(file)
		if base == "" {
			continue
		}
		rows := s.rowsByBase[base]
		if rows == nil {
			rows = map[int64][]string{}
			s.rowsByBase[base] = rows
		}
		for _, row := range parseCSVContent(content) {
			if len(row) < 1 {
				continue
			}
			id, err := strconv.ParseInt(row[0], 10, 64)
			if err != nil {
				continue
			}
			rows[id] = row[1:]
		}
	}
	return s
}

func parseCSVContent(raw string) [][]string {
	raw = strings.TrimPrefix(raw, "\uFEFF")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")
	lines := strings.Split(raw, "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		if i := strings.Index(line, ";"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r := csv.NewReader(strings.NewReader(line))
		r.FieldsPerRecord = -1
		rec, err := r.Read()
		if err != nil {
			rec = strings.Split(line, ",")
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		rows = append(rows, rec)
	}
	return rows
}

func csvBaseName(file string) string {
	up := strings.ToUpper(strings.TrimSpace(file))
	if !strings.HasSuffix(up, ".CSV") {
		return ""
	}
	up = strings.TrimSuffix(up, ".CSV")
	if i := strings.LastIndexAny(up, `/\`); i >= 0 {
		up = up[i+1:]
	}
	return up
}

func (s *CSVStore) Lookup(category string, id int64) ([]string, bool) {
	rows := s.rowsByBase[strings.ToUpper(strings.TrimSpace(category))]
	if rows == nil {
		return nil, false
	}
	fields, ok := rows[id]
	return fields, ok
}
