// Package lazy provides invalidatable memoization cells.
//
// A cell amortizes an expensive host-state query across a high-frequency
// read path: the query runs once, the answer is served from the cell until
// something invalidates it. Cells are owned by a single goroutine (the
// host's UI goroutine in practice) and do no locking.
package lazy

// Cell memoizes the result of a zero-argument recompute function until
// Invalidate is called.
type Cell[T any] struct {
	valid     bool
	value     T
	recompute func() (T, error)
}

// NewCell returns an invalid cell bound to recompute. The first Get pays
// the recompute cost.
func NewCell[T any](recompute func() (T, error)) *Cell[T] {
	return &Cell[T]{recompute: recompute}
}

// Get returns the cached value, recomputing it first if the cell is
// invalid. A recompute error leaves the cell invalid and is returned to
// the caller; the next Get retries.
func (c *Cell[T]) Get() (T, error) {
	if c.valid {
		return c.value, nil
	}
	v, err := c.recompute()
	if err != nil {
		var zero T
		return zero, err
	}
	c.value = v
	c.valid = true
	return v, nil
}

// Invalidate marks the cell stale. No-op when already invalid. The
// recompute function is kept.
func (c *Cell[T]) Invalidate() {
	c.valid = false
}

// Valid reports whether Get would serve a cached value.
func (c *Cell[T]) Valid() bool {
	return c.valid
}
