// Package dataset models the precomputed analytical resources the dashboard
// consumes: untyped rows as delivered by the upstream pipeline, and the
// canonical shapes derived from them.
package dataset

import (
	"github.com/tidwall/gjson"
)

// Row is one record as received from a resource: an ordered, untyped and
// possibly partial mapping from field name to value. It is backed by the raw
// JSON object so the upstream key order survives.
type Row struct {
	raw gjson.Result
}

// NewRow wraps a parsed JSON object. Non-object values yield an empty row.
func NewRow(raw gjson.Result) Row {
	if !raw.IsObject() {
		return Row{}
	}
	return Row{raw: raw}
}

// RowFromJSON parses a single JSON object into a Row
func RowFromJSON(s string) Row {
	return NewRow(gjson.Parse(s))
}

// Get returns the value stored under field. Field names are matched
// literally; dots and wildcards carry no path meaning here.
func (r Row) Get(field string) gjson.Result {
	if !r.raw.Exists() {
		return gjson.Result{}
	}
	return r.raw.Get(gjson.Escape(field))
}

// Has reports whether field is present and non-null
func (r Row) Has(field string) bool {
	v := r.Get(field)
	return v.Exists() && v.Type != gjson.Null
}

// Keys returns the field names in document order
func (r Row) Keys() []string {
	var keys []string
	r.raw.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// IsEmpty reports whether the row carries no fields at all
func (r Row) IsEmpty() bool {
	return len(r.Keys()) == 0
}

// Raw returns the row's JSON text
func (r Row) Raw() string {
	if !r.raw.Exists() {
		return "{}"
	}
	return r.raw.Raw
}

// MarshalJSON emits the row exactly as received
func (r Row) MarshalJSON() ([]byte, error) {
	return []byte(r.Raw()), nil
}
