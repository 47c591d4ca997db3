package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pageza/mealweek/backend/internal/planner"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// MealSlotList stores a plan's slot grid as a JSONB array. The slots column
// is the authoritative grid; there is no per-slot table.
type MealSlotList []planner.Slot

// Value implements the driver.Valuer interface
func (l MealSlotList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *MealSlotList) Scan(value interface{}) error {
	if value == nil {
		*l = MealSlotList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// JSONBlob is opaque JSON passed through storage unchanged. The shopping
// list payload uses it; its shape is owned by another subsystem.
type JSONBlob json.RawMessage

// Value implements the driver.Valuer interface
func (b JSONBlob) Value() (driver.Value, error) {
	if len(b) == 0 {
		return "{}", nil
	}
	return []byte(b), nil
}

// Scan implements the sql.Scanner interface
func (b *JSONBlob) Scan(value interface{}) error {
	if value == nil {
		*b = JSONBlob("{}")
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*b = append(JSONBlob(nil), v...)
	case string:
		*b = JSONBlob(v)
	}
	return nil
}

// MarshalJSON returns the raw payload unchanged.
func (b JSONBlob) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("{}"), nil
	}
	return b, nil
}

// UnmarshalJSON stores the raw payload unchanged.
func (b *JSONBlob) UnmarshalJSON(data []byte) error {
	*b = append(JSONBlob(nil), data...)
	return nil
}
