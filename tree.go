// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arbor

import (
	"github.com/sirupsen/logrus"

	"github.com/arbortrees/arbor/internal/pinned"
)

// Tree is an arena-backed rooted tree with branch-factor many child slots
// per node. The zero value is not usable; construct with New.
//
// A Tree is safe to share between goroutines only while no session is
// open. All mutation goes through a Session.
type Tree[T any] struct {
	store   *pinned.Vec[slot[T]]
	root    int // slot index of the root, -1 when empty
	garbage []int

	branch    int
	extension int
	log       logrus.FieldLogger

	// epoch counts collection passes; NodeIndex values are stamped with
	// it and refuse to resolve under a newer epoch.
	epoch uint64

	// version is bumped when a session opens, a collection runs, or the
	// store is consolidated; read guards are stamped with it and refuse
	// to operate once it has moved on.
	version uint64

	inSession bool
	liveOwned int
}

// Opt is a configuration option for a Tree.
type Opt[T any] func(*Tree[T])

// WithExtensionSize sets the growth granularity of the backing store.
func WithExtensionSize[T any](n int) Opt[T] {
	return func(t *Tree[T]) {
		if n > 0 {
			t.extension = n
		}
	}
}

// WithLogger sets the logger used for collection diagnostics. The default
// is the logrus standard logger, which is silent at its default level.
func WithLogger[T any](log logrus.FieldLogger) Opt[T] {
	return func(t *Tree[T]) {
		if log != nil {
			t.log = log
		}
	}
}

// New creates an empty tree whose nodes each have branch child slots.
// branch must be positive.
func New[T any](branch int, opts ...Opt[T]) *Tree[T] {
	if branch <= 0 {
		panic("arbor: branch factor must be positive")
	}
	t := &Tree[T]{
		root:      -1,
		branch:    branch,
		extension: pinned.DefaultExtensionSize,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.store = pinned.New[slot[T]](t.extension)
	return t
}

// BranchFactor returns the number of child slots per node.
func (t *Tree[T]) BranchFactor() int {
	return t.branch
}

// Len returns the number of slots currently in the backing store,
// including garbage not yet collected.
func (t *Tree[T]) Len() int {
	return t.store.Len()
}

// ReadRoot returns a read guard for the root node, or nil when the tree
// is empty. Must not be called while a session is open; the guard is
// good until the tree is next mutated.
func (t *Tree[T]) ReadRoot() *NodeReadGuard[T] {
	if t.inSession {
		panic("arbor: ReadRoot during an active session")
	}
	if t.root == -1 {
		return nil
	}
	return &NodeReadGuard[T]{tree: t, index: t.root, version: t.version}
}

// TraverseReadRoot returns a read traverser positioned at the root. The
// second result is false when the tree is empty.
func (t *Tree[T]) TraverseReadRoot() (TreeReadTraverser[T], bool) {
	if t.inSession {
		panic("arbor: TraverseReadRoot during an active session")
	}
	if t.root == -1 {
		return TreeReadTraverser[T]{}, false
	}
	return TreeReadTraverser[T]{tree: t, index: t.root, version: t.version}, true
}

// ShrinkToFit consolidates the backing store's segments. Indices are
// preserved; outstanding read guards are invalidated.
func (t *Tree[T]) ShrinkToFit() {
	if t.inSession {
		panic("arbor: ShrinkToFit during an active session")
	}
	t.version++
	t.store.Defragment()
}

// slotAt resolves a slot by index.
func (t *Tree[T]) slotAt(i int) *slot[T] {
	return t.store.At(i)
}

// presentAt resolves a slot that must be live.
func (t *Tree[T]) presentAt(i int, fault string) *slot[T] {
	sl := t.store.At(i)
	if sl.state != slotPresent {
		panic("arbor: " + fault)
	}
	return sl
}

// alloc appends a live slot and returns its index.
func (t *Tree[T]) alloc(elem T, parent parentTag) int {
	return t.store.Push(slot[T]{
		elem:     elem,
		parent:   parent,
		children: make([]childRef, t.branch),
		state:    slotPresent,
	})
}

// markGarbage consumes the slot's element and queues it for collection.
func (t *Tree[T]) markGarbage(i int) {
	t.slotAt(i).becomeGarbage()
	t.garbage = append(t.garbage, i)
}

// resolve maps a NodeIndex back to a slot index, panicking when the
// handle outlived a collection pass or points at garbage.
func (t *Tree[T]) resolve(idx NodeIndex) int {
	if idx.epoch != t.epoch {
		panic("arbor: NodeIndex used after garbage collection")
	}
	t.presentAt(idx.slot, "NodeIndex resolves to garbage")
	return idx.slot
}
