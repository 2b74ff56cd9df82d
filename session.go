// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arbor

// Session is a bounded scope of exclusive mutable access to a tree. At
// most one session exists per tree at a time; closing it runs the
// garbage collector, which invalidates every NodeIndex obtained during
// the session.
//
// A Session must stay on the goroutine that opened it and must not be
// held across anything that could touch the tree concurrently.
type Session[T any] struct {
	tree   *Tree[T]
	closed bool
}

// Session opens a mutation scope. Panics if one is already open.
func (t *Tree[T]) Session() *Session[T] {
	if t.inSession {
		panic("arbor: tree already has an active session")
	}
	t.inSession = true
	t.version++
	return &Session[T]{tree: t}
}

func (s *Session[T]) check() {
	if s.closed {
		panic("arbor: operation on a closed session")
	}
}

// Close ends the session and runs the garbage collector. Panics if any
// owned guard created in this session has not been consumed or released.
// Closing twice is a no-op.
func (s *Session[T]) Close() {
	if s.closed {
		return
	}
	if s.tree.liveOwned > 0 {
		panic("arbor: session closed with unreleased owned guards")
	}
	s.closed = true
	s.tree.inSession = false
	s.tree.GarbageCollect()
}

// WriteRoot returns a write guard for the root node, or nil when the
// tree is empty. Only one write guard should be walked into the root
// subtree at a time.
func (s *Session[T]) WriteRoot() *NodeWriteGuard[T] {
	s.check()
	if s.tree.root == -1 {
		return nil
	}
	return &NodeWriteGuard[T]{session: s, index: s.tree.root}
}

// TakeRoot detaches the root subtree and returns ownership of it, or nil
// when the tree is empty. The tree is left empty.
func (s *Session[T]) TakeRoot() *NodeOwnedGuard[T] {
	s.check()
	if s.tree.root == -1 {
		return nil
	}
	index := s.tree.root
	sl := s.tree.presentAt(index, "root index points to garbage")
	if sl.parent.kind != parentRoot {
		panic("arbor: root slot carries a non-root parent tag")
	}
	sl.parent = parentTag{kind: parentDetached}
	s.tree.root = -1
	return s.newOwned(index)
}

// PutRootElem installs a fresh root node holding elem. Reports whether an
// existing root subtree was displaced; the displaced subtree is reclaimed
// at session end.
func (s *Session[T]) PutRootElem(elem T) bool {
	s.check()
	index := s.tree.alloc(elem, parentTag{kind: parentRoot})
	displaced := s.deleteRoot()
	s.tree.root = index
	return displaced
}

// PutRootTree installs a detached subtree as the root, consuming the
// guard. Reports whether an existing root subtree was displaced.
func (s *Session[T]) PutRootTree(subtree *NodeOwnedGuard[T]) bool {
	s.check()
	index := subtree.consume("PutRootTree")
	displaced := s.deleteRoot()
	sl := s.tree.presentAt(index, "put root tree references garbage")
	if sl.parent.kind != parentDetached {
		panic("arbor: put root tree on a non-detached subtree")
	}
	sl.parent = parentTag{kind: parentRoot}
	s.tree.root = index
	return displaced
}

// NewDetached allocates a fresh detached node holding elem and returns
// ownership of it.
func (s *Session[T]) NewDetached(elem T) *NodeOwnedGuard[T] {
	s.check()
	index := s.tree.alloc(elem, parentTag{kind: parentDetached})
	return s.newOwned(index)
}

// TraverseRoot returns a write traverser positioned at the root, or nil
// when the tree is empty.
func (s *Session[T]) TraverseRoot() *TreeWriteTraverser[T] {
	s.check()
	if s.tree.root == -1 {
		return nil
	}
	return &TreeWriteTraverser[T]{session: s, index: s.tree.root}
}

// TraverseFrom returns a write traverser positioned at the node idx
// refers to. idx must come from this session; a handle that outlived a
// collection panics.
func (s *Session[T]) TraverseFrom(idx NodeIndex) *TreeWriteTraverser[T] {
	s.check()
	return &TreeWriteTraverser[T]{session: s, index: s.tree.resolve(idx)}
}

// deleteRoot marks any existing root subtree as garbage. Reports whether
// a root was displaced.
func (s *Session[T]) deleteRoot() bool {
	if s.tree.root == -1 {
		return false
	}
	s.tree.markGarbage(s.tree.root)
	s.tree.root = -1
	return true
}

func (s *Session[T]) newOwned(index int) *NodeOwnedGuard[T] {
	s.tree.liveOwned++
	return &NodeOwnedGuard[T]{session: s, index: index}
}
