package result

import (
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Struct field order is the output order, which keeps the encoding
// byte-identical across runs.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalJSON encodes the result in its compact public form.
func MarshalJSON(r ParseResult) ([]byte, error) {
	return jsonAPI.Marshal(r)
}

// WriteJSON writes r to w; indent "" produces one line.
func WriteJSON(w io.Writer, r ParseResult, indent string) error {
	var (
		data []byte
		err  error
	)
	if indent == "" {
		data, err = jsonAPI.Marshal(r)
	} else {
		data, err = jsonAPI.MarshalIndent(r, "", indent)
	}
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// UnmarshalJSON decodes a result produced by MarshalJSON.
func UnmarshalJSON(data []byte) (ParseResult, error) {
	var r ParseResult
	if err := jsonAPI.Unmarshal(data, &r); err != nil {
		return ParseResult{}, fmt.Errorf("decode result: %w", err)
	}
	return r, nil
}

// WriteYAML writes r as a YAML document with two-space indentation.
func WriteYAML(w io.Writer, r ParseResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return enc.Close()
}
