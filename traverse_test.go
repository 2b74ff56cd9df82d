// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arbor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildSmall returns a tree shaped: 1 -> (2 -> (4, _), 3).
func buildSmall(t *testing.T) *Tree[int] {
	t.Helper()
	tree := New[int](2)
	sess := tree.Session()
	sess.PutRootElem(1)
	children := sess.WriteRoot().Children()
	_, err := children.PutChildElem(0, 2)
	require.NoError(t, err)
	_, err = children.PutChildElem(1, 3)
	require.NoError(t, err)
	node2, err := children.ChildWrite(0)
	require.NoError(t, err)
	_, err = node2.Children().PutChildElem(0, 4)
	require.NoError(t, err)
	sess.Close()
	return tree
}

func TestWriteTraverserNavigation(t *testing.T) {
	tree := buildSmall(t)
	sess := tree.Session()
	defer sess.Close()

	tr := sess.TraverseRoot()
	require.NotNil(t, tr)
	require.Equal(t, PositionRoot, tr.AboveMe())
	require.True(t, IsNoParent(tr.SeekParent()))
	_, err := tr.ThisBranchIndex()
	require.True(t, IsNoParent(err))

	require.NoError(t, tr.SeekChild(0))
	require.Equal(t, 2, *tr.Read().Elem())
	require.Equal(t, PositionParent, tr.AboveMe())
	branch, err := tr.ThisBranchIndex()
	require.NoError(t, err)
	require.Equal(t, 0, branch)

	has, err := tr.HasChild(0)
	require.NoError(t, err)
	require.True(t, has)
	has, err = tr.HasChild(1)
	require.NoError(t, err)
	require.False(t, has)

	// A failed descend leaves the cursor in place.
	require.True(t, IsChildNotFound(tr.SeekChild(1)))
	require.Equal(t, 2, *tr.Read().Elem())
	require.True(t, IsInvalidBranch(tr.SeekChild(5)))

	require.NoError(t, tr.SeekParent())
	require.Equal(t, 1, *tr.Read().Elem())
	require.NoError(t, tr.SeekChild(1))
	require.Equal(t, 3, *tr.Read().Elem())
}

func TestWriteTraverserMutateThroughGuard(t *testing.T) {
	tree := buildSmall(t)
	sess := tree.Session()

	tr := sess.TraverseRoot()
	require.NoError(t, tr.SeekChild(0))
	*tr.WriteGuard().Elem() = 22
	require.NoError(t, tr.SeekChild(0))
	require.Equal(t, 4, *tr.Read().Elem())
	sess.Close()

	require.Equal(t, []int{4, 22, 1, 3}, inorder(t, tree.ReadRoot()))
}

func TestWriteTraverserDetachChild(t *testing.T) {
	tree := buildSmall(t)
	sess := tree.Session()

	tr := sess.TraverseRoot()
	require.NoError(t, tr.SeekChild(0))
	owned, err := tr.DetachChild(0)
	require.NoError(t, err)
	require.NotNil(t, owned)
	require.Equal(t, 4, *owned.Elem())
	owned.Release()

	// The cursor is still on node 2.
	require.Equal(t, 2, *tr.Read().Elem())

	empty, err := tr.DetachChild(0)
	require.NoError(t, err)
	require.Nil(t, empty)
	sess.Close()

	require.Equal(t, []int{2, 1, 3}, inorder(t, tree.ReadRoot()))
}

func TestWriteTraverserDetachThis(t *testing.T) {
	tree := buildSmall(t)
	sess := tree.Session()

	tr := sess.TraverseRoot()
	require.NoError(t, tr.SeekChild(0))
	owned := tr.DetachThis()
	require.Equal(t, 2, *owned.Elem())
	require.Panics(t, func() { tr.Read() })
	owned.Release()
	sess.Close()

	require.Equal(t, []int{1, 3}, inorder(t, tree.ReadRoot()))
}

func TestTraverseDetachedSubtree(t *testing.T) {
	tree := New[int](2)
	sess := tree.Session()
	owned := sess.NewDetached(9)

	tr := sess.TraverseFrom(owned.Index())
	require.Equal(t, PositionDetached, tr.AboveMe())
	err := tr.SeekParent()
	require.True(t, IsNoParent(err))
	var e *Error
	require.ErrorAs(t, err, &e)
	require.Contains(t, e.Message, "detached")

	owned.Release()
	sess.Close()
}

func TestReadTraverserCopySnapshots(t *testing.T) {
	tree := buildSmall(t)

	tr, ok := tree.TraverseReadRoot()
	require.True(t, ok)
	snapshot := tr

	require.NoError(t, tr.SeekChild(0))
	require.NoError(t, tr.SeekChild(0))
	require.Equal(t, 4, *tr.ReadGuard().Elem())

	// The copy still points at the root.
	require.Equal(t, PositionRoot, snapshot.AboveMe())
	require.Equal(t, 1, *snapshot.ReadGuard().Elem())

	require.NoError(t, tr.SeekParent())
	branch, err := tr.ThisBranchIndex()
	require.NoError(t, err)
	require.Equal(t, 0, branch)
}

func TestReadTraverserEmptyTree(t *testing.T) {
	tree := New[int](2)
	_, ok := tree.TraverseReadRoot()
	require.False(t, ok)
}

func TestReadTraverserInvalidatedByMutation(t *testing.T) {
	tree := buildSmall(t)
	tr, ok := tree.TraverseReadRoot()
	require.True(t, ok)

	tree.Session().Close()
	require.Panics(t, func() { tr.AboveMe() })
}
