package dataset

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Shape distinguishes the two resource layouts the pipeline produces
type Shape int

const (
	// ShapeRows is an ordered array of row objects
	ShapeRows Shape = iota
	// ShapeEnvelope is a single object, e.g. a scalar statistic plus an
	// embedded point sequence
	ShapeEnvelope
)

func (s Shape) String() string {
	if s == ShapeEnvelope {
		return "envelope"
	}
	return "rows"
}

// Dataset is one loaded resource. It lives only as long as the view that
// mounted it.
type Dataset struct {
	Ref      string
	shape    Shape
	rows     []Row
	envelope Row
}

// FromRows builds a row-shaped dataset
func FromRows(ref string, rows []Row) Dataset {
	return Dataset{Ref: ref, shape: ShapeRows, rows: rows}
}

// FromEnvelope builds an envelope-shaped dataset
func FromEnvelope(ref string, envelope Row) Dataset {
	return Dataset{Ref: ref, shape: ShapeEnvelope, envelope: envelope}
}

// Parse decodes a resource body. The body must be valid JSON holding either
// an array (non-object elements are dropped) or an object.
func Parse(ref string, body []byte) (Dataset, error) {
	if !gjson.ValidBytes(body) {
		return Dataset{}, fmt.Errorf("%s: invalid JSON", ref)
	}

	doc := gjson.ParseBytes(body)
	switch {
	case doc.IsArray():
		var rows []Row
		doc.ForEach(func(_, value gjson.Result) bool {
			if value.IsObject() {
				rows = append(rows, NewRow(value))
			}
			return true
		})
		return FromRows(ref, rows), nil
	case doc.IsObject():
		return FromEnvelope(ref, NewRow(doc)), nil
	default:
		return Dataset{}, fmt.Errorf("%s: expected array or object, got %s", ref, doc.Type)
	}
}

// Shape reports the resource layout
func (d Dataset) Shape() Shape {
	return d.shape
}

// Rows returns the row sequence. Envelope datasets have none.
func (d Dataset) Rows() []Row {
	return d.rows
}

// Envelope returns the envelope object, if the dataset is one
func (d Dataset) Envelope() (Row, bool) {
	if d.shape != ShapeEnvelope {
		return Row{}, false
	}
	return d.envelope, true
}

// IsEmpty reports whether there is nothing to render
func (d Dataset) IsEmpty() bool {
	if d.shape == ShapeEnvelope {
		return d.envelope.IsEmpty()
	}
	return len(d.rows) == 0
}
