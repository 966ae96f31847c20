package models

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// JSONMap stores an arbitrary JSON document in a text column.
type JSONMap map[string]any

// Value implements the driver.Valuer interface.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface. Malformed stored JSON is
// treated as an empty document, not a read failure.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		*m = JSONMap{}
		return nil
	}

	if len(b) == 0 {
		*m = JSONMap{}
		return nil
	}

	var parsed map[string]any
	if err := json.Unmarshal(b, &parsed); err != nil || parsed == nil {
		*m = JSONMap{}
		return nil
	}

	*m = parsed
	return nil
}

// Map returns a non-nil plain map.
func (m JSONMap) Map() map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// TagList stores an ordered list of tags. The column keeps the legacy
// comma-joined text form so existing rows stay readable.
type TagList []string

// Value implements the driver.Valuer interface.
func (t TagList) Value() (driver.Value, error) {
	parts := make([]string, 0, len(t))
	for _, tag := range t {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			parts = append(parts, tag)
		}
	}
	return strings.Join(parts, ","), nil
}

// Scan implements the sql.Scanner interface.
func (t *TagList) Scan(value any) error {
	var s string
	switch v := value.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		*t = TagList{}
		return nil
	}

	if s == "" {
		*t = TagList{}
		return nil
	}

	parts := strings.Split(s, ",")
	tags := make(TagList, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}
	*t = tags
	return nil
}

// List returns a non-nil slice.
func (t TagList) List() []string {
	if t == nil {
		return []string{}
	}
	return t
}
