package value

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// FromJSON decodes a single JSON document from data into a Value,
// preserving object member insertion order. Unlike encoding/json's default
// map[string]interface{} decoding, object order here is the order keys
// appeared in the source text, which wildcard and descent traversal depend
// on for deterministic results.
func FromJSON(data []byte) (Value, error) {
	return FromJSONReader(bytes.NewReader(data))
}

// FromJSONReader is the streaming form of FromJSON.
func FromJSONReader(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, errors.Wrap(err, "value: decode json")
	}
	return v, nil
}

// decodeValue reads exactly one JSON value's worth of tokens from dec.
func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NullValue, nil
	case bool:
		return BoolValue(t), nil
	case json.Number:
		return NumberValue(numFromJSON(t)), nil
	case string:
		return StringValue(t), nil
	case json.Delim:
		switch t {
		case '[':
			return decodeArray(dec)
		case '{':
			return decodeObject(dec)
		default:
			return Value{}, errors.Errorf("value: unexpected delimiter %q", t)
		}
	default:
		return Value{}, errors.Errorf("value: unexpected token %T", tok)
	}
}

func decodeArray(dec *json.Decoder) (Value, error) {
	var elems []Value
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		v, err := decodeToken(dec, tok)
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return Value{}, err
	}
	return ArrayValue(elems), nil
}

func decodeObject(dec *json.Decoder) (Value, error) {
	o := NewObj()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return Value{}, errors.Errorf("value: expected object key, got %T", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		v, err := decodeToken(dec, valTok)
		if err != nil {
			return Value{}, err
		}
		o.Set(key, v)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return Value{}, err
	}
	return ObjectValue(o), nil
}

func numFromJSON(n json.Number) Num {
	if i, err := n.Int64(); err == nil {
		return IntNum(i)
	}
	f, _ := n.Float64()
	return FloatNum(f)
}
