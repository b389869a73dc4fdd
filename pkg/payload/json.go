package payload

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// maxDepth bounds the nesting of arrays and objects.
const maxDepth = 10000

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string
	Value interface{}
}

// Object is a JSON object which keeps the member order of the source.
type Object []Member

func (o Object) index(key string) int {
	for i, m := range o {
		if m.Key == key {
			return i
		}
	}

	return -1
}

// DecodeJSON parses data as exactly one JSON value. Values are Object,
// []interface{}, string, json.Number, bool or nil. It reports false for an
// empty body, malformed JSON or trailing data.
func DecodeJSON(data []byte) (interface{}, bool) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := decodeValue(decoder, 0)

	if err != nil {
		return nil, false
	}

	if _, err := decoder.Token(); err != io.EOF {
		return nil, false
	}

	return value, true
}

func decodeValue(decoder *json.Decoder, depth int) (interface{}, error) {
	tok, err := decoder.Token()

	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		if depth >= maxDepth {
			return nil, &json.SyntaxError{Offset: decoder.InputOffset()}
		}

		switch t {
		case '{':
			return decodeObject(decoder, depth+1)
		case '[':
			return decodeArray(decoder, depth+1)
		}

		return nil, &json.SyntaxError{Offset: decoder.InputOffset()}

	default:
		return t, nil
	}
}

func decodeObject(decoder *json.Decoder, depth int) (Object, error) {
	obj := Object{}

	for decoder.More() {
		tok, err := decoder.Token()

		if err != nil {
			return nil, err
		}

		key, ok := tok.(string)

		if !ok {
			return nil, &json.SyntaxError{Offset: decoder.InputOffset()}
		}

		value, err := decodeValue(decoder, depth)

		if err != nil {
			return nil, err
		}

		// A repeated key keeps its first position and its last value.
		if i := obj.index(key); i >= 0 {
			obj[i].Value = value
		} else {
			obj = append(obj, Member{Key: key, Value: value})
		}
	}

	// Closing brace
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	return obj, nil
}

func decodeArray(decoder *json.Decoder, depth int) ([]interface{}, error) {
	arr := []interface{}{}

	for decoder.More() {
		value, err := decodeValue(decoder, depth)

		if err != nil {
			return nil, err
		}

		arr = append(arr, value)
	}

	// Closing bracket
	if _, err := decoder.Token(); err != nil {
		return nil, err
	}

	return arr, nil
}

func writeJSON(b *strings.Builder, value interface{}) {
	switch v := value.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if v {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case json.Number:
		b.WriteString(v.String())
	case string:
		writeString(b, v)
	case Object:
		b.WriteByte('{')

		for i, m := range v {
			if i > 0 {
				b.WriteString(", ")
			}

			writeString(b, m.Key)
			b.WriteString(": ")
			writeJSON(b, m.Value)
		}

		b.WriteByte('}')
	case []interface{}:
		b.WriteByte('[')

		for i, item := range v {
			if i > 0 {
				b.WriteString(", ")
			}

			writeJSON(b, item)
		}

		b.WriteByte(']')
	}
}
