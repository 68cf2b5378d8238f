package lazy

// KeyedCell memoizes the result of a recompute function of one stored
// parameter. Replacing the parameter invalidates the cell, so the next Get
// recomputes against the new parameter.
type KeyedCell[T, P any] struct {
	valid     bool
	value     T
	param     P
	recompute func(P) (T, error)
}

// NewKeyedCell returns an invalid cell bound to recompute with an initial
// parameter.
func NewKeyedCell[T, P any](param P, recompute func(P) (T, error)) *KeyedCell[T, P] {
	return &KeyedCell[T, P]{param: param, recompute: recompute}
}

// Get returns the cached value, recomputing with the stored parameter if
// the cell is invalid. A recompute error leaves the cell invalid.
func (c *KeyedCell[T, P]) Get() (T, error) {
	if c.valid {
		return c.value, nil
	}
	v, err := c.recompute(c.param)
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = v
	c.valid = true
	return v, nil
}

// SetParam stores p and invalidates. It invalidates even when p equals the
// stored parameter; the unconditional form keeps SetParam cheap and its
// effect obvious.
func (c *KeyedCell[T, P]) SetParam(p P) {
	c.param = p
	c.Invalidate()
}

// Param returns the stored parameter.
func (c *KeyedCell[T, P]) Param() P {
	return c.param
}

// Invalidate marks the cell stale without touching the stored parameter.
func (c *KeyedCell[T, P]) Invalidate() {
	c.valid = false
}

// Valid reports whether Get would serve a cached value.
func (c *KeyedCell[T, P]) Valid() bool {
	return c.valid
}
