// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pinned implements the backing store for arbor trees: a growable
// sequence whose elements do not move in memory on append.
//
// Storage is a chain of fixed-capacity segments. Pushing into a segment
// with spare capacity never reallocates, so pointers obtained through At
// remain valid across Push. Defragment consolidates the chain into a
// single segment; it preserves every element's index but may move
// addresses, so callers re-resolve pointers after calling it.
//
// The store hands out no long-lived references of its own. Callers address
// elements by index and dereference on each access.
package pinned

import (
	"fmt"
	"iter"
)

// DefaultExtensionSize is the capacity of each new segment unless the
// store was constructed with a different extension size.
const DefaultExtensionSize = 6

// Vec is a pinned, append-only sequence of T addressed by index.
//
// Invariant: every segment except the last is full, so cumulative segment
// lengths resolve an index in one forward walk.
type Vec[T any] struct {
	segs      [][]T
	length    int
	extension int
}

// New creates an empty Vec that grows in segments of the given size.
// A non-positive size falls back to DefaultExtensionSize.
func New[T any](extension int) *Vec[T] {
	if extension <= 0 {
		extension = DefaultExtensionSize
	}
	return &Vec[T]{extension: extension}
}

// Len returns the number of stored elements.
func (v *Vec[T]) Len() int {
	return v.length
}

// Push appends elem and returns its index. Existing elements do not move.
func (v *Vec[T]) Push(elem T) int {
	last := len(v.segs) - 1
	if last < 0 || len(v.segs[last]) == cap(v.segs[last]) {
		v.segs = append(v.segs, make([]T, 0, v.extension))
		last++
	}
	v.segs[last] = append(v.segs[last], elem)
	v.length++
	return v.length - 1
}

// At returns a pointer to the i-th element. The pointer stays valid across
// Push but not across Defragment.
func (v *Vec[T]) At(i int) *T {
	if i < 0 || i >= v.length {
		panic(fmt.Sprintf("pinned: index %d out of bounds (len %d)", i, v.length))
	}
	for s := range v.segs {
		if i < len(v.segs[s]) {
			return &v.segs[s][i]
		}
		i -= len(v.segs[s])
	}
	panic("pinned: segment lengths out of sync with length")
}

// Pop removes and returns the last element. The second result is false
// when the Vec is empty.
func (v *Vec[T]) Pop() (T, bool) {
	var zero T
	if v.length == 0 {
		return zero, false
	}
	last := len(v.segs) - 1
	seg := v.segs[last]
	elem := seg[len(seg)-1]
	seg[len(seg)-1] = zero // release the element for the runtime
	v.segs[last] = seg[:len(seg)-1]
	if len(v.segs[last]) == 0 {
		v.segs[last] = nil
		v.segs = v.segs[:last]
	}
	v.length--
	return elem, true
}

// SwapRemove removes and returns the element at i, moving the last element
// into its place. Removing the last element is a plain Pop, with no
// self-swap.
func (v *Vec[T]) SwapRemove(i int) T {
	switch {
	case v.length == 0:
		panic("pinned: swap remove on empty Vec")
	case i == v.length-1:
		elem, _ := v.Pop()
		return elem
	default:
		slot := v.At(i)
		removed := *slot
		last, _ := v.Pop()
		*slot = last
		return removed
	}
}

// Defragment consolidates all segments into one. Indices are preserved;
// addresses are not. After it returns the merged segment is exactly full,
// so the next Push opens a fresh segment of the extension size.
func (v *Vec[T]) Defragment() {
	if len(v.segs) <= 1 {
		return
	}
	merged := make([]T, 0, v.length)
	for _, seg := range v.segs {
		merged = append(merged, seg...)
	}
	v.segs = [][]T{merged}
}

// All iterates over the elements in index order.
func (v *Vec[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		i := 0
		for s := range v.segs {
			for j := range v.segs[s] {
				if !yield(i, &v.segs[s][j]) {
					return
				}
				i++
			}
		}
	}
}
