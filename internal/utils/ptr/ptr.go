// Package ptr converts between values and the pointers used for optional
// upstream attributes.
package ptr

// To creates a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// String creates a pointer to the given string value.
func String(s string) *string {
	return &s
}

// Bool creates a pointer to the given bool value.
func Bool(b bool) *bool {
	return &b
}

// Int64 creates a pointer to the given int64 value.
func Int64(i int64) *int64 {
	return &i
}

// Float64 creates a pointer to the given float64 value.
func Float64(f float64) *float64 {
	return &f
}

// NonEmpty returns a pointer to s, or nil when s is empty.
// Upstream payloads use "" and absence interchangeably for optional strings.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Clone returns a pointer to a copy of *p, or nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
