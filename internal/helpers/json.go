package helpers

import (
	"bytes"
	"encoding/json"
)

func MarshalJson(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(v)
	return bytes.TrimRight(buf.Bytes(), "\n"), err
}

func MarshalJsonIndent(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(v)
	return buf.Bytes(), err
}

// StringList renders s as a list literal with ", " separators, the layout
// Starlark and Python tooling print.
func StringList(s []string) (string, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('[')
	for i, v := range s {
		if i > 0 {
			buf.WriteString(", ")
		}
		q, err := MarshalJson(v)
		if err != nil {
			return "", err
		}
		buf.Write(q)
	}
	buf.WriteByte(']')
	return buf.String(), nil
}
