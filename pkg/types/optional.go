package types

import (
	"bytes"
	"encoding/json"
)

// Optional carries the tri-state semantics of partial updates: a key absent
// from the payload (no change), present with null (clear), or present with a
// value (set). Plain pointers cannot distinguish the first two.
type Optional[T any] struct {
	set   bool
	valid bool
	value T
}

// NewOptional returns a present Optional holding value.
func NewOptional[T any](value T) Optional[T] {
	return Optional[T]{set: true, valid: true, value: value}
}

// NullOptional returns a present Optional holding an explicit null.
func NullOptional[T any]() Optional[T] {
	return Optional[T]{set: true}
}

// IsSet reports whether the key appeared in the payload at all.
func (o Optional[T]) IsSet() bool { return o.set }

// IsNull reports whether the key was present with an explicit null.
func (o Optional[T]) IsNull() bool { return o.set && !o.valid }

// Value returns the held value and whether it is usable.
func (o Optional[T]) Value() (T, bool) {
	return o.value, o.set && o.valid
}

// Ptr returns the held value as a pointer, nil when absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.set || !o.valid {
		return nil
	}
	v := o.value
	return &v
}

// UnmarshalJSON is only invoked when the key is present, which is what makes
// the absent/null distinction observable.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(data, []byte("null")) {
		o.valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.valid = true
	return nil
}

// MarshalJSON renders null for absent or explicit-null values.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
