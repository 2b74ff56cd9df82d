// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arbor

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeDebug is a snapshot of one backing-store slot, for inspection and
// diagnostics. It is not part of the semantic contract; field formats may
// change.
type NodeDebug struct {
	Slot     int
	State    string   // "present" or "garbage"
	Elem     string   // rendered element, empty for garbage slots
	Parent   string   // "root", "detached", "garbage", "parent <p> branch <b>", or "-"
	Children []string // one entry per branch: a slot index or "-"
}

// DebugNodes snapshots the backing store, garbage slots included.
func (t *Tree[T]) DebugNodes() []NodeDebug {
	nodes := make([]NodeDebug, 0, t.store.Len())
	for i, sl := range t.store.All() {
		nodes = append(nodes, debugSlot(i, sl))
	}
	return nodes
}

func debugSlot[T any](i int, sl *slot[T]) NodeDebug {
	d := NodeDebug{
		Slot:     i,
		Children: make([]string, len(sl.children)),
	}
	for b, ref := range sl.children {
		if ref.some {
			d.Children[b] = strconv.Itoa(ref.index)
		} else {
			d.Children[b] = "-"
		}
	}
	if sl.state == slotGarbage {
		d.State = "garbage"
		d.Parent = "-"
		return d
	}
	d.State = "present"
	d.Elem = fmt.Sprintf("%v", sl.elem)
	switch sl.parent.kind {
	case parentAttached:
		d.Parent = fmt.Sprintf("parent %d branch %d", sl.parent.parent, sl.parent.branch)
	case parentRoot:
		d.Parent = "root"
	case parentDetached:
		d.Parent = "detached"
	default:
		d.Parent = "garbage"
	}
	return d
}

// String renders the tree's live structure from the root.
func (t *Tree[T]) String() string {
	if t.root == -1 {
		return "Tree{}"
	}
	g := NodeReadGuard[T]{tree: t, index: t.root, version: t.version}
	var b strings.Builder
	b.WriteString("Tree{root: ")
	g.format(&b)
	b.WriteString("}")
	return b.String()
}
