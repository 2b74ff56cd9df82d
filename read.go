// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arbor

import (
	"fmt"
	"strings"
)

// NodeReadGuard is a shared view of one node and, recursively, of its
// children. Guards obtained from Tree.ReadRoot stay good until the tree
// is next mutated; guards obtained through session guards stay good for
// the rest of that session. The element reference it exposes must be
// treated as read-only.
type NodeReadGuard[T any] struct {
	tree    *Tree[T]
	index   int
	version uint64
}

func (g *NodeReadGuard[T]) slot() *slot[T] {
	if g.version != g.tree.version {
		panic("arbor: read guard used after tree mutation")
	}
	return g.tree.presentAt(g.index, "read guard points to garbage")
}

// Elem returns the node's element. The referent must not be mutated.
func (g *NodeReadGuard[T]) Elem() *T {
	return &g.slot().elem
}

// Index returns an opaque handle to this node, valid until the next
// collection pass.
func (g *NodeReadGuard[T]) Index() NodeIndex {
	g.slot()
	return NodeIndex{slot: g.index, epoch: g.tree.epoch}
}

// HasChild reports whether the branch holds a child.
func (g *NodeReadGuard[T]) HasChild(branch int) (bool, error) {
	sl := g.slot()
	if branch < 0 || branch >= len(sl.children) {
		return false, invalidBranch(branch, len(sl.children))
	}
	return sl.children[branch].some, nil
}

// Child returns a read guard for the child at branch, or nil when the
// branch is empty.
func (g *NodeReadGuard[T]) Child(branch int) (*NodeReadGuard[T], error) {
	sl := g.slot()
	if branch < 0 || branch >= len(sl.children) {
		return nil, invalidBranch(branch, len(sl.children))
	}
	ref := sl.children[branch]
	if !ref.some {
		return nil, nil
	}
	return &NodeReadGuard[T]{tree: g.tree, index: ref.index, version: g.version}, nil
}

// String renders the subtree under this node.
func (g *NodeReadGuard[T]) String() string {
	var b strings.Builder
	g.format(&b)
	return b.String()
}

func (g *NodeReadGuard[T]) format(b *strings.Builder) {
	sl := g.slot()
	fmt.Fprintf(b, "Node{elem: %v", sl.elem)
	for branch := range sl.children {
		fmt.Fprintf(b, ", child_%d: ", branch)
		child, err := g.Child(branch)
		if err != nil {
			panic(err)
		}
		if child == nil {
			b.WriteString("nil")
		} else {
			child.format(b)
		}
	}
	b.WriteString("}")
}
