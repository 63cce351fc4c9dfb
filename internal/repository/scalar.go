package repository

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
)

// Scalar is a request value bound to a statement without conversion. JSON
// numbers keep their literal text, so the database coerces "3" and 3 alike
// and rejects what its column type cannot hold.
type Scalar struct {
	value any
}

// ScalarOf wraps v for binding as-is.
func ScalarOf(v any) *Scalar {
	return &Scalar{value: v}
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case json.Number:
		s.value = t.String()
	case string, bool, nil:
		s.value = t
	default:
		// objects and arrays go through as their JSON text
		s.value = string(data)
	}
	return nil
}

// Value implements driver.Valuer
func (s Scalar) Value() (driver.Value, error) {
	return s.value, nil
}
