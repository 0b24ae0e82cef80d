// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package unwind

import (
	"fmt"
	"reflect"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

// Box is a value that remembers whether it was ever defined.
// It distinguishes "declared but never set" from "set to the zero value".
//
// The zero Box is the declaration default: undefined, holding the zero T.
type Box[T any] struct {
	actual  T
	defined bool
}

// Declare returns the declaration default for T: undefined, zero actual.
// This is the canonical value a function hands back when it unwinds.
func Declare[T any]() Box[T] {
	return Box[T]{}
}

// Define returns a defined Box holding v.
func Define[T any](v T) Box[T] {
	return Box[T]{actual: v, defined: true}
}

// DefineZero returns the definition default for T: defined, zero actual.
func DefineZero[T any]() Box[T] {
	var zero T
	return Box[T]{actual: zero, defined: true}
}

// Get returns the actual value and whether it was defined.
func (b Box[T]) Get() (T, bool) {
	return b.actual, b.defined
}

// Value returns the actual value, defined or not.
func (b Box[T]) Value() T {
	return b.actual
}

// IsDefined reports whether the Box was explicitly set.
func (b Box[T]) IsDefined() bool {
	return b.defined
}

// Or returns the actual value if defined, otherwise def.
func (b Box[T]) Or(def T) T {
	if b.defined {
		return b.actual
	}
	return def
}

// allFields lets cmp descend into unexported fields of any T.
var allFields = cmp.Exporter(func(reflect.Type) bool { return true })

// Equal reports structural equality of both the defined flag and the actual
// value. Types with an Equal method are compared with it.
func (b Box[T]) Equal(o Box[T]) bool {
	return b.defined == o.defined && cmp.Equal(b.actual, o.actual, allFields)
}

func (b Box[T]) String() string {
	if !b.defined {
		return "<undefined>"
	}
	return fmt.Sprint(b.actual)
}

// IsZero reports whether the Box is undefined, so that yaml omitempty drops it.
func (b Box[T]) IsZero() bool {
	return !b.defined
}

// MarshalYAML encodes an undefined Box as null and a defined one as its value.
func (b Box[T]) MarshalYAML() (any, error) {
	if !b.defined {
		return nil, nil
	}
	return b.actual, nil
}

// UnmarshalYAML decodes null as the declaration default and anything else
// as a defined value.
func (b *Box[T]) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*b = Declare[T]()
		return nil
	}
	var v T
	if err := value.Decode(&v); err != nil {
		return err
	}
	*b = Define(v)
	return nil
}
