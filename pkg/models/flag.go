package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Flag is a tri-state capability value. The zero value is FlagUnknown, so a
// capability nobody reported can never be mistaken for a reported "false".
type Flag uint8

const (
	// FlagUnknown means no source reported the capability.
	FlagUnknown Flag = iota
	// FlagFalse means a source reported the capability as absent.
	FlagFalse
	// FlagTrue means a source reported the capability as present.
	FlagTrue
)

// FlagFrom converts an optional upstream boolean into a Flag.
func FlagFrom(b *bool) Flag {
	switch {
	case b == nil:
		return FlagUnknown
	case *b:
		return FlagTrue
	default:
		return FlagFalse
	}
}

// Known reports whether the flag carries data.
func (f Flag) Known() bool {
	return f == FlagTrue || f == FlagFalse
}

// Ptr converts the flag back into an optional boolean.
func (f Flag) Ptr() *bool {
	switch f {
	case FlagTrue:
		v := true
		return &v
	case FlagFalse:
		v := false
		return &v
	default:
		return nil
	}
}

// String returns "true", "false" or "unknown".
func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes unknown as null.
func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Ptr())
}

// UnmarshalJSON decodes null, true or false.
func (f *Flag) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = FlagUnknown
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("flag: %w", err)
	}
	*f = FlagFrom(&b)
	return nil
}

// MarshalYAML encodes unknown as null.
func (f Flag) MarshalYAML() (any, error) {
	if p := f.Ptr(); p != nil {
		return *p, nil
	}
	return nil, nil
}
