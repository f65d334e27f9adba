// Package order reassembles an out-of-order stream of indexed items into
// strictly ascending index order.
package order

import (
	"errors"
	"fmt"
)

// ErrStaleIndex is returned by Put when an index below the delivery cursor
// arrives. Each index may be put at most once, so a stale index always
// indicates a duplicate emission upstream.
var ErrStaleIndex = errors.New("order: index below delivery cursor")

// Buffer restores ascending-index delivery order from unordered completions.
//
// Items arriving at the cursor are released immediately, together with any
// buffered successors that became contiguous. Items arriving ahead of the
// cursor are held in a pending map until the gap fills. The pending map is
// bounded by how far ahead a producer can race past the cursor, which the
// owning pipeline bounds by its completion channel capacity plus its worker
// count; Buffer itself just tracks the high-water mark so that bound can be
// asserted in tests.
//
// Thread safety: Buffer is NOT safe for concurrent use. It is designed for
// a single ordering goroutine, which is what keeps the pending map free of
// locks.
type Buffer[T any] struct {
	next    int
	pending map[int]T
	peak    int
}

// New creates an empty buffer with the delivery cursor at 0.
func New[T any]() *Buffer[T] {
	return &Buffer[T]{pending: make(map[int]T)}
}

// Put accepts one item and returns the contiguous run of items that are now
// deliverable, in ascending index order. The returned slice is empty when the
// item arrived ahead of the cursor and had to be buffered.
//
// Put fails with ErrStaleIndex if idx is below the cursor.
func (b *Buffer[T]) Put(idx int, v T) ([]T, error) {
	if idx < b.next {
		return nil, fmt.Errorf("%w: got %d, cursor at %d", ErrStaleIndex, idx, b.next)
	}

	if idx != b.next {
		b.pending[idx] = v
		if len(b.pending) > b.peak {
			b.peak = len(b.pending)
		}
		return nil, nil
	}

	// The cursor item arrived: release it plus any buffered successors.
	out := []T{v}
	b.next++
	for {
		nv, ok := b.pending[b.next]
		if !ok {
			break
		}
		delete(b.pending, b.next)
		out = append(out, nv)
		b.next++
	}
	return out, nil
}

// Next returns the index the buffer is waiting for.
func (b *Buffer[T]) Next() int {
	return b.next
}

// Pending returns the number of buffered, not-yet-deliverable items.
func (b *Buffer[T]) Pending() int {
	return len(b.pending)
}

// Peak returns the high-water mark of the pending map.
func (b *Buffer[T]) Peak() int {
	return b.peak
}
