package fetch

import (
	"io"
	"math"
	"net/url"
	"reflect"

	json "github.com/goccy/go-json"
)

// BodyKind is the classification of a request body.
type BodyKind int

const (
	// BodyOpaque is passed to the transport untouched: strings, byte
	// slices, readers, url.Values, scalars and nil.
	BodyOpaque BodyKind = iota

	// BodyRecord is a map or struct, serialized with SerializeBody.
	BodyRecord

	// BodySequence is a slice or array, serialized with SerializeBody.
	BodySequence

	// BodyCustom implements json.Marshaler and is serialized with SerializeBody.
	BodyCustom
)

// String returns the lowercase name of the kind.
func (k BodyKind) String() string {
	switch k {
	case BodyRecord:
		return "record"
	case BodySequence:
		return "sequence"
	case BodyCustom:
		return "custom"
	default:
		return "opaque"
	}
}

// Structured reports whether bodies of this kind are serialized.
func (k BodyKind) Structured() bool {
	return k != BodyOpaque
}

// ClassifyBody decides how a body is treated during resolution.
//
// Classification is structural:
//   - nil, string, []byte (and named byte slices such as json.RawMessage),
//     io.Reader and url.Values: opaque
//   - json.Marshaler: custom
//   - map, struct, or a pointer to one: record
//   - slice or array: sequence
//   - anything else: opaque
//
// Already-encoded payloads are therefore never encoded twice.
func ClassifyBody(v any) BodyKind {
	switch v.(type) {
	case nil, string, []byte, io.Reader, url.Values:
		return BodyOpaque
	}

	rv := reflect.ValueOf(v)
	if isByteSlice(rv.Type()) {
		return BodyOpaque
	}
	if _, ok := v.(json.Marshaler); ok {
		return BodyCustom
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return BodyOpaque
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Struct:
		return BodyRecord
	case reflect.Slice, reflect.Array:
		if isByteSlice(rv.Type()) {
			return BodyOpaque
		}
		return BodySequence
	default:
		return BodyOpaque
	}
}

func isByteSlice(t reflect.Type) bool {
	return (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) && t.Elem().Kind() == reflect.Uint8
}

// IsStructured reports whether v would be serialized as the request body.
func IsStructured(v any) bool {
	return ClassifyBody(v).Structured()
}

// isNil reports whether v is nil or a nil pointer, map, slice, interface,
// func or channel.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}

// isFalsy reports whether v carries no content: nil, false, "", a numeric
// zero or NaN.
func isFalsy(v any) bool {
	if isNil(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	default:
		return false
	}
}
