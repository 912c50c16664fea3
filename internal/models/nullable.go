package models

import (
	"bytes"
	"encoding/json"
)

// Nullable is a write-side field of a nullable column. The zero value means
// "not supplied"; Null() clears the column; Value(v) sets it.
// Combined with the `omitzero` tag, unsupplied fields vanish from JSON patches.
type Nullable[T any] struct {
	value T
	valid bool
	set   bool
}

// Value returns a Nullable holding v.
func Value[T any](v T) Nullable[T] {
	return Nullable[T]{value: v, valid: true, set: true}
}

// Null returns a Nullable that writes NULL.
func Null[T any]() Nullable[T] {
	return Nullable[T]{set: true}
}

// IsZero reports whether the field was left unsupplied.
func (n Nullable[T]) IsZero() bool { return !n.set }

// IsNull reports whether the field was explicitly set to NULL.
func (n Nullable[T]) IsNull() bool { return n.set && !n.valid }

// Get returns the held value and whether one is present.
func (n Nullable[T]) Get() (T, bool) { return n.value, n.valid }

// SQLValue returns the value to bind for this column (nil for NULL).
func (n Nullable[T]) SQLValue() any {
	if !n.valid {
		return nil
	}
	return n.value
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		n.value, n.valid = zero, false
		return nil
	}
	if err := json.Unmarshal(b, &n.value); err != nil {
		return err
	}
	n.valid = true
	return nil
}

// Change is a single column assignment produced by an Update projection.
type Change struct {
	Column string
	Value  any
}
