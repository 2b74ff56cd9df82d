// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arbor

// TreeWriteTraverser is a mutable cursor over a session's tree. It holds
// the session exclusively and points at one current node, which can be
// moved up and down, converted to guards, or detached.
type TreeWriteTraverser[T any] struct {
	session *Session[T]
	index   int
	done    bool
}

func (tr *TreeWriteTraverser[T]) slot() *slot[T] {
	tr.session.check()
	if tr.done {
		panic("arbor: use of a consumed traverser")
	}
	return tr.session.tree.presentAt(tr.index, "traverser points to garbage")
}

// Index returns an opaque handle to the current node, valid until the
// session ends.
func (tr *TreeWriteTraverser[T]) Index() NodeIndex {
	tr.slot()
	return NodeIndex{slot: tr.index, epoch: tr.session.tree.epoch}
}

// AboveMe reports what sits above the current node.
func (tr *TreeWriteTraverser[T]) AboveMe() Position {
	switch tr.slot().parent.kind {
	case parentAttached:
		return PositionParent
	case parentRoot:
		return PositionRoot
	case parentDetached:
		return PositionDetached
	default:
		panic("arbor: traverser on a node marked dead")
	}
}

// SeekParent moves the cursor to the current node's parent. Fails with a
// NoParentErr error at the root or on a detached subtree.
func (tr *TreeWriteTraverser[T]) SeekParent() error {
	sl := tr.slot()
	switch sl.parent.kind {
	case parentAttached:
		tr.index = sl.parent.parent
		return nil
	case parentRoot:
		return noParent(PositionRoot)
	case parentDetached:
		return noParent(PositionDetached)
	default:
		panic("arbor: traverser on a node marked dead")
	}
}

// ThisBranchIndex returns the branch the current node occupies in its
// parent. Fails with a NoParentErr error at the root or on a detached
// subtree.
func (tr *TreeWriteTraverser[T]) ThisBranchIndex() (int, error) {
	sl := tr.slot()
	switch sl.parent.kind {
	case parentAttached:
		return sl.parent.branch, nil
	case parentRoot:
		return 0, noParent(PositionRoot)
	case parentDetached:
		return 0, noParent(PositionDetached)
	default:
		panic("arbor: traverser on a node marked dead")
	}
}

// HasChild reports whether the branch below the current node holds a
// child.
func (tr *TreeWriteTraverser[T]) HasChild(branch int) (bool, error) {
	sl := tr.slot()
	if branch < 0 || branch >= len(sl.children) {
		return false, invalidBranch(branch, len(sl.children))
	}
	return sl.children[branch].some, nil
}

// SeekChild moves the cursor to the child at branch. Fails with a
// ChildNotFoundErr error when the branch is empty.
func (tr *TreeWriteTraverser[T]) SeekChild(branch int) error {
	sl := tr.slot()
	if branch < 0 || branch >= len(sl.children) {
		return invalidBranch(branch, len(sl.children))
	}
	ref := sl.children[branch]
	if !ref.some {
		return childNotFound(branch)
	}
	tr.index = ref.index
	return nil
}

// WriteGuard returns a write guard for the current node. The traverser
// stays usable; the guard must not outlive the next cursor move.
func (tr *TreeWriteTraverser[T]) WriteGuard() *NodeWriteGuard[T] {
	tr.slot()
	return &NodeWriteGuard[T]{session: tr.session, index: tr.index}
}

// IntoWriteGuard converts the traverser into a write guard for the
// current node, consuming the traverser.
func (tr *TreeWriteTraverser[T]) IntoWriteGuard() *NodeWriteGuard[T] {
	g := tr.WriteGuard()
	tr.done = true
	return g
}

// Read returns a read guard for the current node.
func (tr *TreeWriteTraverser[T]) Read() *NodeReadGuard[T] {
	tr.slot()
	t := tr.session.tree
	return &NodeReadGuard[T]{tree: t, index: tr.index, version: t.version}
}

// DetachThis severs the current node from its parent (or the root slot)
// and returns ownership of the subtree, consuming the traverser.
func (tr *TreeWriteTraverser[T]) DetachThis() *NodeOwnedGuard[T] {
	g := tr.IntoWriteGuard()
	return g.Detach()
}

// DetachChild detaches the subtree below the current node at branch, or
// returns nil when the branch is empty. The cursor does not move.
func (tr *TreeWriteTraverser[T]) DetachChild(branch int) (*NodeOwnedGuard[T], error) {
	tr.slot()
	children := &ChildWriteGuard[T]{session: tr.session, index: tr.index}
	return children.TakeChild(branch)
}

// TreeReadTraverser is the read-only counterpart of TreeWriteTraverser.
// It borrows the tree immutably and is a plain value: copying it
// snapshots the cursor position.
type TreeReadTraverser[T any] struct {
	tree    *Tree[T]
	index   int
	version uint64
}

func (tr *TreeReadTraverser[T]) slot() *slot[T] {
	if tr.tree == nil {
		panic("arbor: use of a zero read traverser")
	}
	if tr.version != tr.tree.version {
		panic("arbor: read traverser used after tree mutation")
	}
	return tr.tree.presentAt(tr.index, "read traverser points to garbage")
}

// Index returns an opaque handle to the current node, valid until the
// next collection pass.
func (tr *TreeReadTraverser[T]) Index() NodeIndex {
	tr.slot()
	return NodeIndex{slot: tr.index, epoch: tr.tree.epoch}
}

// AboveMe reports what sits above the current node.
func (tr *TreeReadTraverser[T]) AboveMe() Position {
	switch tr.slot().parent.kind {
	case parentAttached:
		return PositionParent
	case parentRoot:
		return PositionRoot
	case parentDetached:
		return PositionDetached
	default:
		panic("arbor: read traverser on a node marked dead")
	}
}

// SeekParent moves the cursor to the current node's parent. Fails with a
// NoParentErr error at the root or on a detached subtree.
func (tr *TreeReadTraverser[T]) SeekParent() error {
	sl := tr.slot()
	switch sl.parent.kind {
	case parentAttached:
		tr.index = sl.parent.parent
		return nil
	case parentRoot:
		return noParent(PositionRoot)
	default:
		return noParent(PositionDetached)
	}
}

// ThisBranchIndex returns the branch the current node occupies in its
// parent. Fails with a NoParentErr error at the root or on a detached
// subtree.
func (tr *TreeReadTraverser[T]) ThisBranchIndex() (int, error) {
	sl := tr.slot()
	if sl.parent.kind != parentAttached {
		if sl.parent.kind == parentRoot {
			return 0, noParent(PositionRoot)
		}
		return 0, noParent(PositionDetached)
	}
	return sl.parent.branch, nil
}

// HasChild reports whether the branch below the current node holds a
// child.
func (tr *TreeReadTraverser[T]) HasChild(branch int) (bool, error) {
	sl := tr.slot()
	if branch < 0 || branch >= len(sl.children) {
		return false, invalidBranch(branch, len(sl.children))
	}
	return sl.children[branch].some, nil
}

// SeekChild moves the cursor to the child at branch. Fails with a
// ChildNotFoundErr error when the branch is empty.
func (tr *TreeReadTraverser[T]) SeekChild(branch int) error {
	sl := tr.slot()
	if branch < 0 || branch >= len(sl.children) {
		return invalidBranch(branch, len(sl.children))
	}
	ref := sl.children[branch]
	if !ref.some {
		return childNotFound(branch)
	}
	tr.index = ref.index
	return nil
}

// ReadGuard returns a read guard for the current node.
func (tr *TreeReadTraverser[T]) ReadGuard() *NodeReadGuard[T] {
	tr.slot()
	return &NodeReadGuard[T]{tree: tr.tree, index: tr.index, version: tr.version}
}
