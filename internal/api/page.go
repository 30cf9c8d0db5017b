package api

import (
	"bytes"
	"encoding/json"
)

// Page is the paginated envelope the backend wraps list responses in
// (count/next/previous/results). Some endpoints return a bare array
// instead; both shapes decode into the same structure.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasMore reports whether the server indicates a following page.
func (p Page[T]) HasMore() bool {
	return p.Next != nil && *p.Next != ""
}

// UnmarshalJSON accepts either the envelope shape or a bare array.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var results []T
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return err
		}
		p.Count = len(results)
		p.Next = nil
		p.Previous = nil
		p.Results = results
		return nil
	}

	type envelope Page[T]
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return err
	}
	*p = Page[T](env)
	return nil
}
