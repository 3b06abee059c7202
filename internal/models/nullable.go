package models

import (
	"encoding/json"
	"time"
)

// NullableDate distinguishes three request states for a date field:
// absent (Set=false), explicit null (Set=true, Value=nil) and a value.
type NullableDate struct {
	Set   bool
	Value *time.Time
}

func (n *NullableDate) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

func (n NullableDate) MarshalJSON() ([]byte, error) {
	if !n.Set || n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}
