package usecase

import (
	"github.com/tidwall/gjson"
	"golang.org/x/xerrors"
)

type PayloadShape int

const (
	ShapeSingle PayloadShape = iota
	ShapeArray
	ShapeWrapped
)

func (s PayloadShape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeWrapped:
		return "wrapped"
	default:
		return "single"
	}
}

// Collection fields accepted for the wrapped shape.
const (
	FieldDevices = "devices"
	FieldEvents  = "events"
	FieldErrors  = "errors"
)

// Payload is a submitted body resolved into one of the three accepted
// shapes: a single record, a bare array, or an object carrying the records
// under a named array field.
type Payload struct {
	Shape   PayloadShape
	records []gjson.Result
}

// ParsePayload validates body and resolves its shape. field names the array
// that marks the wrapped shape.
func ParsePayload(body []byte, field string) (Payload, error) {
	if !gjson.ValidBytes(body) {
		return Payload{}, xerrors.Errorf("%w: body is not valid JSON", ErrInvalidPayload)
	}

	root := gjson.ParseBytes(body)
	switch {
	case root.Type == gjson.Null:
		return Payload{}, xerrors.Errorf("%w: body is null", ErrInvalidPayload)
	case root.IsArray():
		return Payload{Shape: ShapeArray, records: root.Array()}, nil
	case root.IsObject() && root.Get(field).IsArray():
		return Payload{Shape: ShapeWrapped, records: root.Get(field).Array()}, nil
	default:
		return Payload{Shape: ShapeSingle, records: []gjson.Result{root}}, nil
	}
}

// Records returns the submitted records in order. Elements that are not
// objects behave as empty records.
func (p Payload) Records() []Record {
	out := make([]Record, len(p.records))
	for i, r := range p.records {
		out[i] = Record{r}
	}
	return out
}

func (p Payload) Len() int {
	return len(p.records)
}
