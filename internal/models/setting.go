package models

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	SettingString  = "string"
	SettingNumber  = "number"
	SettingBoolean = "boolean"
	SettingJSON    = "json"
)

// Setting is process-wide keyed configuration. Public settings are exposed
// unauthenticated; private ones (payment secrets etc.) only to admin reads.
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	Type      string    `gorm:"default:'string'" json:"type"`
	Public    bool      `gorm:"default:false" json:"public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TypedValue decodes Value according to Type. Undecodable values fall back
// to the raw string.
func (s *Setting) TypedValue() any {
	switch s.Type {
	case SettingNumber:
		if f, err := strconv.ParseFloat(s.Value, 64); err == nil {
			return f
		}
	case SettingBoolean:
		if b, err := strconv.ParseBool(s.Value); err == nil {
			return b
		}
	case SettingJSON:
		var v any
		if err := json.Unmarshal([]byte(s.Value), &v); err == nil {
			return v
		}
	}
	return s.Value
}
