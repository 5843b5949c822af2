// Package aggregate computes the derived tables of the cleaned snapshot. Each
// function is pure: it reads its input slice without modifying it and shares
// no state with the others.
package aggregate

import "cmp"

// compareNullable orders nil before every value
func compareNullable[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

// key is a comparable form of a nullable group key
type key[T comparable] struct {
	v  T
	ok bool
}

func keyOf[T comparable](p *T) key[T] {
	if p == nil {
		return key[T]{}
	}
	return key[T]{v: *p, ok: true}
}

func (k key[T]) ptr() *T {
	if !k.ok {
		return nil
	}
	v := k.v
	return &v
}
