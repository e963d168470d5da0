// Package optional provides a value that may be absent, serialised as JSON
// null when unset.
package optional

import (
	"encoding/json"
	"fmt"
)

type Value[T any] struct {
	Val   T
	IsSet bool
}

func Some[T any](v T) Value[T] {
	return Value[T]{Val: v, IsSet: true}
}

func None[T any]() Value[T] {
	return Value[T]{}
}

// Get returns the value and whether it is present.
func (o Value[T]) Get() (T, bool) {
	return o.Val, o.IsSet
}

func (o Value[T]) UnwrapOr(defaultVal T) T {
	if !o.IsSet {
		return defaultVal
	}
	return o.Val
}

func (o Value[T]) MarshalJSON() ([]byte, error) {
	if !o.IsSet {
		return []byte("null"), nil
	}
	return json.Marshal(o.Val)
}

func (o *Value[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		var zero T
		o.Val = zero
		o.IsSet = false
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Val = v
	o.IsSet = true
	return nil
}

func (o Value[T]) String() string {
	if !o.IsSet {
		return ""
	}
	return fmt.Sprintf("%v", o.Val)
}
