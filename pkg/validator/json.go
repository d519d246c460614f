package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
)

var parserPool fastjson.ParserPool

// DecodeJSON parses a JSON document into the value tree the engine
// classifies: map[string]any, []any, string, float64, bool and nil.
func DecodeJSON(data []byte) (any, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}
	// fastjson values are only valid until the parser is reused.
	return convertJSON(v), nil
}

func convertJSON(v *fastjson.Value) any {
	switch v.Type() {
	case fastjson.TypeObject:
		obj, _ := v.Object()
		m := make(map[string]any, obj.Len())
		obj.Visit(func(key []byte, val *fastjson.Value) {
			m[string(key)] = convertJSON(val)
		})
		return m
	case fastjson.TypeArray:
		items, _ := v.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = convertJSON(item)
		}
		return out
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.GetFloat64()
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	default:
		return nil
	}
}

// UnmarshalJSON decodes an object of field name to sub-schema, keeping the
// order in which the fields appear in the document.
func (f *Fields) UnmarshalJSON(data []byte) error {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return errors.Join(ErrInvalidSchema, err)
	}
	if v.Type() == fastjson.TypeNull {
		*f = nil
		return nil
	}
	obj, err := v.Object()
	if err != nil {
		return fmt.Errorf("%w: fields must be an object", ErrInvalidSchema)
	}

	fields := make(Fields, 0, obj.Len())
	obj.Visit(func(key []byte, val *fastjson.Value) {
		if err != nil {
			return
		}
		var sch Schema
		if uerr := json.Unmarshal(val.MarshalTo(nil), &sch); uerr != nil {
			err = fmt.Errorf("field %q: %w", key, uerr)
			return
		}
		fields = append(fields, Field{Name: string(key), Schema: sch})
	})
	if err != nil {
		return err
	}
	*f = fields
	return nil
}

// MarshalJSON encodes fields as an object with keys in declaration order.
func (f Fields) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fld := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fld.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(fld.Schema)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fld.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
