// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arbor

// NodeWriteGuard grants exclusive access to one attached node: its
// element, its child slots, and — through Detach — its position in the
// tree. Guards resolve their slot on every operation, so they stay
// cheap to create and never cache addresses.
type NodeWriteGuard[T any] struct {
	session  *Session[T]
	index    int
	detached bool
}

func (g *NodeWriteGuard[T]) slot() *slot[T] {
	g.session.check()
	if g.detached {
		panic("arbor: write guard used after Detach")
	}
	return g.session.tree.presentAt(g.index, "write guard points to garbage")
}

// Index returns an opaque handle to this node, valid until the session
// ends.
func (g *NodeWriteGuard[T]) Index() NodeIndex {
	g.slot()
	return NodeIndex{slot: g.index, epoch: g.session.tree.epoch}
}

// Split returns a mutable reference to the element together with a guard
// over the same node's child slots. The two views are disjoint: writing
// the element cannot observe the children and vice versa.
func (g *NodeWriteGuard[T]) Split() (*T, *ChildWriteGuard[T]) {
	sl := g.slot()
	return &sl.elem, &ChildWriteGuard[T]{session: g.session, index: g.index}
}

// Elem returns a mutable reference to the node's element.
func (g *NodeWriteGuard[T]) Elem() *T {
	elem, _ := g.Split()
	return elem
}

// Children returns a guard over the node's child slots.
func (g *NodeWriteGuard[T]) Children() *ChildWriteGuard[T] {
	_, children := g.Split()
	return children
}

// Read returns a read guard for this node, good for the rest of the
// session.
func (g *NodeWriteGuard[T]) Read() *NodeReadGuard[T] {
	g.slot()
	t := g.session.tree
	return &NodeReadGuard[T]{tree: t, index: g.index, version: t.version}
}

// Detach severs this node from its parent (or from the root slot) and
// returns ownership of the subtree. The guard is consumed.
func (g *NodeWriteGuard[T]) Detach() *NodeOwnedGuard[T] {
	sl := g.slot()
	parent := sl.parent
	sl.parent = parentTag{kind: parentDetached}

	t := g.session.tree
	switch parent.kind {
	case parentAttached:
		p := t.presentAt(parent.parent, "write guard parent index points to garbage")
		p.children[parent.branch] = childRef{}
	case parentRoot:
		t.root = -1
	case parentDetached:
		panic("arbor: detaching a node which is already detached")
	default:
		panic("arbor: detaching a node marked dead")
	}

	g.detached = true
	return g.session.newOwned(g.index)
}

// ChildWriteGuard grants exclusive mutable access to one node's child
// slots. Distinct branches refer to disjoint subtrees, so guards for
// several branches may be in use at once.
type ChildWriteGuard[T any] struct {
	session *Session[T]
	index   int
}

func (g *ChildWriteGuard[T]) slot() *slot[T] {
	g.session.check()
	return g.session.tree.presentAt(g.index, "child write guard points to garbage")
}

// checkBranch validates the branch index against the branch factor.
func (g *ChildWriteGuard[T]) checkBranch(branch int) (*slot[T], error) {
	sl := g.slot()
	if branch < 0 || branch >= len(sl.children) {
		return nil, invalidBranch(branch, len(sl.children))
	}
	return sl, nil
}

// ChildWrite returns a write guard for the child at branch, or nil when
// the branch is empty.
func (g *ChildWriteGuard[T]) ChildWrite(branch int) (*NodeWriteGuard[T], error) {
	sl, err := g.checkBranch(branch)
	if err != nil {
		return nil, err
	}
	ref := sl.children[branch]
	if !ref.some {
		return nil, nil
	}
	return &NodeWriteGuard[T]{session: g.session, index: ref.index}, nil
}

// AllChildrenWrite hands the consumer one write guard per branch, nil for
// empty branches, in branch order.
func (g *ChildWriteGuard[T]) AllChildrenWrite(consumer func(branch int, child *NodeWriteGuard[T])) {
	for branch := range len(g.slot().children) {
		child, err := g.ChildWrite(branch)
		if err != nil {
			panic(err)
		}
		consumer(branch, child)
	}
}

// StreamChildren fills out with one write guard per branch, nil for empty
// branches. out must hold exactly one entry per branch.
func (g *ChildWriteGuard[T]) StreamChildren(out []*NodeWriteGuard[T]) error {
	n := len(g.slot().children)
	if len(out) != n {
		return wrongChildrenNum(len(out), n)
	}
	for branch := range n {
		child, err := g.ChildWrite(branch)
		if err != nil {
			panic(err)
		}
		out[branch] = child
	}
	return nil
}

// TakeChild detaches the subtree at branch and returns ownership of it,
// or nil when the branch is empty.
func (g *ChildWriteGuard[T]) TakeChild(branch int) (*NodeOwnedGuard[T], error) {
	sl, err := g.checkBranch(branch)
	if err != nil {
		return nil, err
	}
	ref := sl.children[branch]
	if !ref.some {
		return nil, nil
	}
	child := g.session.tree.presentAt(ref.index, "child index points to garbage")
	child.parent = parentTag{kind: parentDetached}
	sl.children[branch] = childRef{}
	return g.session.newOwned(ref.index), nil
}

// PutChildElem installs a fresh node holding elem at branch. Reports
// whether an existing child subtree was displaced; the displaced subtree
// is reclaimed at session end.
func (g *ChildWriteGuard[T]) PutChildElem(branch int, elem T) (bool, error) {
	if _, err := g.checkBranch(branch); err != nil {
		return false, err
	}
	t := g.session.tree
	index := t.alloc(elem, attached(g.index, branch))
	displaced := g.deleteChild(branch)
	g.slot().children[branch] = childRef{index: index, some: true}
	return displaced, nil
}

// PutChildTree attaches a detached subtree at branch, consuming the
// guard. Reports whether an existing child subtree was displaced.
func (g *ChildWriteGuard[T]) PutChildTree(branch int, subtree *NodeOwnedGuard[T]) (bool, error) {
	if _, err := g.checkBranch(branch); err != nil {
		return false, err
	}
	index := subtree.consume("PutChildTree")
	displaced := g.deleteChild(branch)
	g.slot().children[branch] = childRef{index: index, some: true}

	t := g.session.tree
	sub := t.presentAt(index, "put child tree references garbage")
	if sub.parent.kind != parentDetached {
		panic("arbor: put child tree on a non-detached subtree")
	}
	sub.parent = attached(g.index, branch)
	return displaced, nil
}

// deleteChild marks any existing child subtree at branch as garbage.
// Reports whether a child was displaced. branch must be in range.
func (g *ChildWriteGuard[T]) deleteChild(branch int) bool {
	sl := g.slot()
	ref := sl.children[branch]
	if !ref.some {
		return false
	}
	g.session.tree.markGarbage(ref.index)
	sl.children[branch] = childRef{}
	return true
}

// NodeOwnedGuard exclusively owns a detached subtree. The subtree can be
// mutated as if in place, and the guard must be consumed exactly once:
// reattached (PutRootTree, PutChildTree), drained (IntoElem), or dropped
// (Release). The session cannot close while an owned guard is live.
type NodeOwnedGuard[T any] struct {
	session  *Session[T]
	index    int
	consumed bool
}

func (g *NodeOwnedGuard[T]) slot() *slot[T] {
	g.session.check()
	if g.consumed {
		panic("arbor: use of a consumed owned guard")
	}
	return g.session.tree.presentAt(g.index, "owned guard points to garbage")
}

// consume finalizes the guard and hands its slot index to the caller.
func (g *NodeOwnedGuard[T]) consume(op string) int {
	g.session.check()
	if g.consumed {
		panic("arbor: " + op + " on a consumed owned guard")
	}
	g.consumed = true
	g.session.tree.liveOwned--
	return g.index
}

// Index returns an opaque handle to the subtree's root node, valid until
// the session ends.
func (g *NodeOwnedGuard[T]) Index() NodeIndex {
	g.slot()
	return NodeIndex{slot: g.index, epoch: g.session.tree.epoch}
}

// Borrow returns a write guard for the subtree's root node. The owned
// guard stays live.
func (g *NodeOwnedGuard[T]) Borrow() *NodeWriteGuard[T] {
	g.slot()
	return &NodeWriteGuard[T]{session: g.session, index: g.index}
}

// Split returns a mutable reference to the root element together with a
// guard over its child slots, as NodeWriteGuard.Split.
func (g *NodeOwnedGuard[T]) Split() (*T, *ChildWriteGuard[T]) {
	sl := g.slot()
	return &sl.elem, &ChildWriteGuard[T]{session: g.session, index: g.index}
}

// Elem returns a mutable reference to the root element.
func (g *NodeOwnedGuard[T]) Elem() *T {
	elem, _ := g.Split()
	return elem
}

// Children returns a guard over the root node's child slots.
func (g *NodeOwnedGuard[T]) Children() *ChildWriteGuard[T] {
	_, children := g.Split()
	return children
}

// Read returns a read guard for the subtree's root node.
func (g *NodeOwnedGuard[T]) Read() *NodeReadGuard[T] {
	g.slot()
	t := g.session.tree
	return &NodeReadGuard[T]{tree: t, index: g.index, version: t.version}
}

// IntoElem moves the root element out, consuming the guard. The subtree
// is reclaimed at session end.
func (g *NodeOwnedGuard[T]) IntoElem() T {
	sl := g.slot()
	index := g.consume("IntoElem")
	elem := sl.becomeGarbage()
	g.session.tree.garbage = append(g.session.tree.garbage, index)
	return elem
}

// Release discards the subtree, consuming the guard. Calling Release on
// an already consumed guard is a no-op, so it can sit in a defer next to
// a conditional reattach.
func (g *NodeOwnedGuard[T]) Release() {
	if g.consumed {
		return
	}
	g.slot()
	g.consume("Release")
	g.session.tree.markGarbage(g.index)
}
