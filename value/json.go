package value

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON renders v as JSON, keeping map entries in insertion order.
// Absent renders as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	err := v.writeJSON(&buf)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer) error {
	switch v.kind {
	case Absent:
		buf.WriteString("null")
	case Scalar:
		data, err := json.Marshal(v.scalar)
		if err != nil {
			return err
		}

		buf.Write(data)
	case List:
		buf.WriteByte('[')

		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}

			err := item.writeJSON(buf)
			if err != nil {
				return err
			}
		}

		buf.WriteByte(']')
	case Map:
		buf.WriteByte('{')

		for i, e := range v.entries {
			if i > 0 {
				buf.WriteByte(',')
			}

			key, err := json.Marshal(e.Key)
			if err != nil {
				return err
			}

			buf.Write(key)
			buf.WriteByte(':')

			err = e.Value.writeJSON(buf)
			if err != nil {
				return err
			}
		}

		buf.WriteByte('}')
	}

	return nil
}
