// internal/models/provider.go
package models

import (
	"encoding/json"
	"sort"
	"strings"
)

// Well-known dataset columns. Any other column is carried through verbatim.
const (
	FieldName  = "name"
	FieldState = "state"
	FieldCity  = "city"
)

// nullSentinels are the spreadsheet/pandas spellings of a missing cell.
var nullSentinels = map[string]struct{}{
	"#n/a": {}, "#n/a n/a": {}, "#na": {}, "-nan": {}, "<na>": {},
	"n/a": {}, "na": {}, "nan": {}, "null": {}, "none": {},
	"-1.#ind": {}, "-1.#qnan": {}, "1.#ind": {}, "1.#qnan": {},
}

// NormalizeValue coerces a raw cell into the string form handed to callers.
// Missing or unparseable values become "", never a sentinel.
func NormalizeValue(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	if _, ok := nullSentinels[strings.ToLower(v)]; ok {
		return ""
	}
	return v
}

// ProviderRecord is one row of the business-listing dataset.
// It is immutable once built; accessors never expose the backing map.
type ProviderRecord struct {
	fields map[string]string
}

// NewProviderRecord copies and normalizes fields into a record.
func NewProviderRecord(fields map[string]string) ProviderRecord {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = NormalizeValue(v)
	}
	return ProviderRecord{fields: out}
}

func (r ProviderRecord) Name() string  { return r.fields[FieldName] }
func (r ProviderRecord) State() string { return r.fields[FieldState] }
func (r ProviderRecord) City() string  { return r.fields[FieldCity] }

// Get returns the value of a column, or "" when the column is absent.
func (r ProviderRecord) Get(field string) string {
	return r.fields[field]
}

// Fields returns a copy of every column of the record.
func (r ProviderRecord) Fields() map[string]string {
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

func (r ProviderRecord) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.fields)
}

func (r *ProviderRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]string
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = NewProviderRecord(fields)
	return nil
}

// Table is an immutable, ordered set of records plus the header they were
// read with. A zero Table is a valid empty table.
type Table struct {
	columns []string
	records []ProviderRecord
}

// NewTable builds a table. Every record is given every column so callers can
// render rows without checking for missing keys.
func NewTable(columns []string, records []ProviderRecord) Table {
	cols := append([]string(nil), columns...)
	rows := make([]ProviderRecord, len(records))
	for i, rec := range records {
		rows[i] = rec.withColumns(cols)
	}
	return Table{columns: cols, records: rows}
}

// EmptyTable is the table returned whenever the dataset is unavailable.
func EmptyTable() Table {
	return Table{}
}

func (r ProviderRecord) withColumns(columns []string) ProviderRecord {
	missing := false
	for _, c := range columns {
		if _, ok := r.fields[c]; !ok {
			missing = true
			break
		}
	}
	if !missing {
		return r
	}
	fields := r.Fields()
	for _, c := range columns {
		if _, ok := fields[c]; !ok {
			fields[c] = ""
		}
	}
	return ProviderRecord{fields: fields}
}

func (t Table) Len() int { return len(t.records) }

func (t Table) IsEmpty() bool { return len(t.records) == 0 }

func (t Table) At(i int) ProviderRecord { return t.records[i] }

// Columns returns the header order of the table.
func (t Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Records returns the rows in table order.
func (t Table) Records() []ProviderRecord {
	out := make([]ProviderRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Select returns a new table holding the rows that satisfy keep, in order.
func (t Table) Select(keep func(ProviderRecord) bool) Table {
	rows := make([]ProviderRecord, 0, len(t.records))
	for _, rec := range t.records {
		if keep(rec) {
			rows = append(rows, rec)
		}
	}
	return Table{columns: t.columns, records: rows}
}

// StateGroups maps a state name to its records, in table order.
type StateGroups map[string][]ProviderRecord

// States returns the group keys sorted ascending.
func (g StateGroups) States() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Summary is the data-summary view of a table.
type Summary struct {
	Count              int `json:"total_services"`
	DistinctStateCount int `json:"total_states"`
	DistinctCityCount  int `json:"total_cities"`
}

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}
