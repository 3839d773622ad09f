// Package normalize maps the backend's varying response shapes onto the
// records in pkg/api. Missing fields get defaults; only bodies that are not
// an object, an array or null fail.
package normalize

import (
	"bytes"

	apperrors "github.com/fastn-ai/fastn-community-sub000/pkg/errors"
	json "github.com/json-iterator/go"
)

// EnvelopeKind reports where the records of a list response were found
type EnvelopeKind int

const (
	EnvelopeEmpty EnvelopeKind = iota
	EnvelopeData
	EnvelopeResult
	EnvelopeArray
)

func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeData:
		return "data"
	case EnvelopeResult:
		return "result"
	case EnvelopeArray:
		return "array"
	}
	return "empty"
}

// List is a parsed list response. Items is never nil.
type List struct {
	Kind  EnvelopeKind
	Items []Record
}

// Record is one raw JSON object from a response
type Record map[string]interface{}

func decode(kind string, raw []byte) (interface{}, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &apperrors.ShapeError{Kind: kind, Reason: "body is not valid JSON"}
	}
	switch v.(type) {
	case nil, map[string]interface{}, []interface{}:
		return v, nil
	}
	return nil, &apperrors.ShapeError{Kind: kind, Reason: "body is a bare scalar"}
}

// Envelope finds the record array in a list response. It checks, in order,
// a "data" array, a "result" array and a top-level array. Anything else
// that is still an object or null yields an empty list.
func Envelope(kind string, raw []byte) (List, error) {
	v, err := decode(kind, raw)
	if err != nil {
		return List{Items: []Record{}}, err
	}

	switch t := v.(type) {
	case []interface{}:
		return List{Kind: EnvelopeArray, Items: records(t)}, nil
	case map[string]interface{}:
		if arr, ok := t["data"].([]interface{}); ok {
			return List{Kind: EnvelopeData, Items: records(arr)}, nil
		}
		if arr, ok := t["result"].([]interface{}); ok {
			return List{Kind: EnvelopeResult, Items: records(arr)}, nil
		}
	}
	return List{Kind: EnvelopeEmpty, Items: []Record{}}, nil
}

// single finds the one record in a get or write response
func single(kind string, raw []byte) (Record, bool, error) {
	v, err := decode(kind, raw)
	if err != nil {
		return nil, false, err
	}

	switch t := v.(type) {
	case []interface{}:
		return first(t)
	case map[string]interface{}:
		for _, key := range []string{"data", "result"} {
			switch inner := t[key].(type) {
			case map[string]interface{}:
				return inner, true, nil
			case []interface{}:
				return first(inner)
			}
		}
		if len(t) == 0 {
			return nil, false, nil
		}
		return t, true, nil
	}
	return nil, false, nil
}

func first(arr []interface{}) (Record, bool, error) {
	for _, item := range arr {
		if obj, ok := item.(map[string]interface{}); ok {
			return obj, true, nil
		}
	}
	return nil, false, nil
}

// records keeps the object elements of arr; stray scalars are skipped
func records(arr []interface{}) []Record {
	out := make([]Record, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.(map[string]interface{}); ok {
			out = append(out, obj)
		}
	}
	return out
}
