package api

import (
	"encoding/json"
	"reflect"

	"github.com/danielgtaylor/huma/v2"

	"github.com/quillpress/quillpress-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the standard envelope:
// {"success": true, "data": ...} or {"success": false, "error": {...}}.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope:
		return body, nil
	case *APIError:
		return response.Envelope{Error: &response.ErrorBody{
			Code:    body.Code,
			Message: body.Message,
			Details: body.Details,
		}}, nil
	case error:
		return response.Envelope{Error: &response.ErrorBody{
			Code:    statusToCode(500),
			Message: body.Error(),
		}}, nil
	default:
		return response.Envelope{Success: true, Data: v}, nil
	}
}

// Nullable is a response body that encodes as JSON null when Value is nil.
// Lookups that may find nothing return 200 with "data": null.
type Nullable[T any] struct {
	Value *T
}

// NullableOf wraps v.
func NullableOf[T any](v *T) Nullable[T] {
	return Nullable[T]{Value: v}
}

// MarshalJSON implements json.Marshaler.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Schema implements huma.SchemaProvider as "T or null".
func (n Nullable[T]) Schema(r huma.Registry) *huma.Schema {
	inner := r.Schema(reflect.TypeOf((*T)(nil)).Elem(), true, "")
	return &huma.Schema{OneOf: []*huma.Schema{inner, {Type: "null"}}}
}
