package usecase

import (
	"math"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Record is one submitted object. Field lookups on non-object records find
// nothing.
type Record struct {
	res gjson.Result
}

func (r Record) field(key string) gjson.Result {
	if !r.res.IsObject() {
		return gjson.Result{}
	}
	return r.res.Get(gjson.Escape(key))
}

// Has reports whether key holds a truthy value: anything except false, 0,
// "", null or a missing field.
func (r Record) Has(key string) bool {
	return truthy(r.field(key))
}

// Text returns the field as stored text, or fallback when it is falsy.
// Strings are returned unquoted, other values as compact JSON.
func (r Record) Text(key, fallback string) string {
	v := r.field(key)
	if !truthy(v) {
		return fallback
	}
	return stringify(v)
}

// Count returns a positive numeric field truncated to an integer, or 1.
func (r Record) Count(key string) int64 {
	v := r.field(key)
	if v.Type != gjson.Number {
		return 1
	}
	f := v.Float()
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f >= 1:
		return int64(f)
	default:
		return 1
	}
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		f := v.Float()
		return f != 0 && !math.IsNaN(f)
	case gjson.String:
		return v.Str != ""
	default:
		return true
	}
}

func stringify(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.JSON:
		return string(pretty.Ugly([]byte(v.Raw)))
	default:
		return v.Raw
	}
}
