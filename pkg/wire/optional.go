package wire

// Optional is an explicit tri-state wrapper for optional entity fields.
// The zero value is absent. A present Optional may still hold the zero value
// of T, which is how "present but empty" survives a round-trip.
type Optional[T any] struct {
	value   T
	defined bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, defined: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.defined
}

// Present reports whether a value is held.
func (o Optional[T]) Present() bool {
	return o.defined
}

// OrZero returns the held value, or the zero value of T when absent.
func (o Optional[T]) OrZero() T {
	return o.value
}

// Set stores v and marks the Optional present.
func (o *Optional[T]) Set(v T) {
	o.value = v
	o.defined = true
}

// Clear resets the Optional to absent.
func (o *Optional[T]) Clear() {
	var zero T
	o.value = zero
	o.defined = false
}
