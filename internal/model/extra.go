package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Extra holds the JSON members of a stored record that this version does
// not model. They are written back unchanged after the known fields.
type Extra map[string]json.RawMessage

var (
	taskKeys  = []string{"task_id", "publisher_id", "publisher_name", "content", "publish_time", "status", "accepted_by_id", "accepted_by_name"}
	pointKeys = []string{"user_id", "name", "points"}
)

// splitExtra returns the members of the object in data not named in known.
func splitExtra(data []byte, known []string) (Extra, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return Extra(raw), nil
}

// joinExtra encodes v, an object with at least one field, and appends the
// extra members in key order.
func joinExtra(v any, extra Extra) ([]byte, error) {
	out, err := encode(v)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return out, nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out = out[:len(out)-1]
	for _, k := range keys {
		key, err := encode(k)
		if err != nil {
			return nil, err
		}
		out = append(out, ',')
		out = append(out, key...)
		out = append(out, ':')
		out = append(out, extra[k]...)
	}
	return append(out, '}'), nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
