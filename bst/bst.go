// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bst implements an ordered set on top of an arbor tree with
// branch factor two: branch 0 holds smaller elements, branch 1 larger.
//
// The tree is deliberately unbalanced; the package exists to exercise the
// container's guard protocol — recursive descent through write guards,
// detach and reattach of subtrees during removal — end to end.
package bst

import (
	"cmp"

	"github.com/arbortrees/arbor"
)

const (
	left  = 0
	right = 1
)

// Set is an ordered set of T with set semantics: inserting a present
// element is a no-op. Not safe for concurrent use.
type Set[T cmp.Ordered] struct {
	tree *arbor.Tree[T]
	size int
}

// New creates an empty set.
func New[T cmp.Ordered](opts ...arbor.Opt[T]) *Set[T] {
	return &Set[T]{tree: arbor.New[T](2, opts...)}
}

// Len returns the number of elements in the set.
func (s *Set[T]) Len() int {
	return s.size
}

// Tree exposes the backing tree for inspection.
func (s *Set[T]) Tree() *arbor.Tree[T] {
	return s.tree
}

// Insert adds elem. Reports whether the set changed.
func (s *Set[T]) Insert(elem T) bool {
	sess := s.tree.Session()
	defer sess.Close()

	inserted := true
	if g := sess.WriteRoot(); g != nil {
		inserted = insertAt(g, elem)
	} else {
		sess.PutRootElem(elem)
	}
	if inserted {
		s.size++
	}
	return inserted
}

func insertAt[T cmp.Ordered](g *arbor.NodeWriteGuard[T], elem T) bool {
	nodeElem, children := g.Split()

	var branch int
	switch {
	case elem > *nodeElem:
		branch = right
	case elem < *nodeElem:
		branch = left
	default:
		return false
	}

	if child := must(children.ChildWrite(branch)); child != nil {
		return insertAt(child, elem)
	}
	must(children.PutChildElem(branch, elem))
	return true
}

// Remove deletes elem. Reports whether the set changed.
func (s *Set[T]) Remove(elem T) bool {
	sess := s.tree.Session()
	defer sess.Close()

	root := sess.TakeRoot()
	if root == nil {
		return false
	}
	replacement, removed := removeFrom(root, elem)
	if replacement != nil {
		sess.PutRootTree(replacement)
	}
	if removed {
		s.size--
	}
	return removed
}

// removeFrom deletes elem from the owned subtree and returns what should
// stand in the subtree's place: the subtree itself when elem sat deeper
// (or was absent), a replacement node when the subtree's own root was
// removed, or nil when the subtree vanished entirely.
func removeFrom[T cmp.Ordered](g *arbor.NodeOwnedGuard[T], elem T) (*arbor.NodeOwnedGuard[T], bool) {
	nodeElem, children := g.Split()

	var branch int
	switch {
	case elem > *nodeElem:
		branch = right
	case elem < *nodeElem:
		branch = left
	default:
		return replaceRemoved(g), true
	}

	child := must(children.TakeChild(branch))
	if child == nil {
		return g, false
	}
	replacement, removed := removeFrom(child, elem)
	if replacement != nil {
		must(children.PutChildTree(branch, replacement))
	}
	return g, removed
}

// replaceRemoved consumes the matched node and computes the subtree that
// takes its place: nothing for a leaf, the lone child for a one-child
// node, and for two children the smallest node of the right subtree with
// both original children reattached under it.
func replaceRemoved[T cmp.Ordered](g *arbor.NodeOwnedGuard[T]) *arbor.NodeOwnedGuard[T] {
	_, children := g.Split()
	leftChild := must(children.TakeChild(left))
	rightChild := must(children.TakeChild(right))
	g.Release()

	switch {
	case leftChild == nil && rightChild == nil:
		return nil
	case rightChild == nil:
		return leftChild
	case leftChild == nil:
		return rightChild
	}

	if smallest := detachSmallest(rightChild.Borrow()); smallest != nil {
		must(smallest.Children().PutChildTree(left, leftChild))
		must(smallest.Children().PutChildTree(right, rightChild))
		return smallest
	}
	// The right child has no left spine: it is itself the successor.
	must(rightChild.Children().PutChildTree(left, leftChild))
	return rightChild
}

// detachSmallest removes the leftmost node below g, re-plugging that
// node's right subtree (if any) into the hole it leaves. Returns nil when
// g has no left child at all.
func detachSmallest[T cmp.Ordered](g *arbor.NodeWriteGuard[T]) *arbor.NodeOwnedGuard[T] {
	children := g.Children()
	child := must(children.ChildWrite(left))
	if child == nil {
		return nil
	}
	if smallest := detachSmallest(child); smallest != nil {
		return smallest
	}

	// The left child has no left child of its own: it is the smallest.
	smallest := must(children.TakeChild(left))
	if rest := must(smallest.Children().TakeChild(right)); rest != nil {
		must(children.PutChildTree(left, rest))
	}
	return smallest
}

// Contains reports whether elem is in the set.
func (s *Set[T]) Contains(elem T) bool {
	g := s.tree.ReadRoot()
	for g != nil {
		switch cur := *g.Elem(); {
		case elem > cur:
			g = must(g.Child(right))
		case elem < cur:
			g = must(g.Child(left))
		default:
			return true
		}
	}
	return false
}

// InOrder returns the elements in ascending order.
func (s *Set[T]) InOrder() []T {
	out := make([]T, 0, s.size)
	var walk func(g *arbor.NodeReadGuard[T])
	walk = func(g *arbor.NodeReadGuard[T]) {
		if g == nil {
			return
		}
		walk(must(g.Child(left)))
		out = append(out, *g.Elem())
		walk(must(g.Child(right)))
	}
	walk(s.tree.ReadRoot())
	return out
}

// must unwraps operations on branches 0 and 1, which are always in range
// for a branch factor of two.
func must[V any](v V, err error) V {
	if err != nil {
		panic(err)
	}
	return v
}
