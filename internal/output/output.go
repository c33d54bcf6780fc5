// Package output renders command results as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ohler55/ojg/jp"
)

// WriteJSON writes v as indented JSON. A non-empty selector is a JSONPath
// applied to v first: a single match is written as is, several as an array.
func WriteJSON(w io.Writer, v any, selector string) error {
	if selector != "" {
		selected, err := Select(v, selector)
		if err != nil {
			return err
		}
		v = selected
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// Select evaluates a JSONPath against the JSON form of v.
func Select(v any, selector string) (any, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}

	// jp works on generic data, so round-trip through JSON.
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	results := x.Get(data)
	switch len(results) {
	case 0:
		return []any{}, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}
