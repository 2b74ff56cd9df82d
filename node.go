// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arbor

// slotState discriminates what a backing-store slot holds.
type slotState uint8

const (
	slotPresent slotState = iota // live node
	slotGarbage                  // element consumed, awaiting collection
)

// parentKind identifies what sits above a node.
type parentKind uint8

const (
	parentAttached parentKind = iota // child of another node
	parentRoot                       // the tree's root
	parentDetached                   // owned by a NodeOwnedGuard
	parentGarbage                    // dead-marked by the collector; transient
)

// parentTag records a node's position relative to its owner. parent and
// branch are meaningful only for parentAttached.
type parentTag struct {
	kind   parentKind
	parent int
	branch int
}

func attached(parent, branch int) parentTag {
	return parentTag{kind: parentAttached, parent: parent, branch: branch}
}

// childRef is a nullable reference to a child slot.
type childRef struct {
	index int
	some  bool
}

// slot is a single storage unit in the backing store.
//
// elem and children live in distinct fields: a mutable reference to one
// cannot observe the other, which is what makes NodeWriteGuard.Split
// sound. Garbage slots zero the element but retain children so the
// collector can propagate deletion through them.
type slot[T any] struct {
	elem     T
	parent   parentTag
	children []childRef
	state    slotState
}

// becomeGarbage consumes the element and flips the slot to garbage,
// keeping the children array intact.
func (s *slot[T]) becomeGarbage() T {
	if s.state != slotPresent {
		panic("arbor: node become garbage, node already is garbage")
	}
	var zero T
	elem := s.elem
	s.elem = zero
	s.state = slotGarbage
	return elem
}

// dead reports whether the collector may reclaim the slot: either its
// element was consumed, or it was dead-marked while sweeping its parent.
func (s *slot[T]) dead() bool {
	return s.state == slotGarbage || s.parent.kind == parentGarbage
}

// NodeIndex is an opaque handle to a node's position in the backing
// store. It stays meaningful until the next garbage collection pass;
// resolving it after one panics.
type NodeIndex struct {
	slot  int
	epoch uint64
}

// Position describes what sits above a node, as reported by traversers.
type Position uint8

const (
	PositionParent Position = iota
	PositionRoot
	PositionDetached
)

func (p Position) String() string {
	switch p {
	case PositionParent:
		return "parent"
	case PositionRoot:
		return "root"
	case PositionDetached:
		return "detached"
	default:
		return "unknown"
	}
}
