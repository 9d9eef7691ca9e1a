package services

import (
	"bytes"
	"encoding/json"
	"time"
)

// NullableTime tells an absent JSON field apart from an explicit null.
// Set is true whenever the key was present; Time is nil for null.
type NullableTime struct {
	Set  bool
	Time *time.Time
}

func (n *NullableTime) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Time = nil
		return nil
	}

	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	n.Time = &t
	return nil
}
