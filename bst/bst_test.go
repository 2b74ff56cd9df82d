// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bst

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/arbortrees/arbor"
)

// elemAt walks the tree along branches and returns the element there,
// failing the test when the path breaks off.
func elemAt(t *testing.T, set *Set[int], path ...int) int {
	t.Helper()
	g := set.Tree().ReadRoot()
	require.NotNil(t, g)
	for _, branch := range path {
		child, err := g.Child(branch)
		require.NoError(t, err)
		require.NotNil(t, child, "no child along path %v", path)
		g = child
	}
	return *g.Elem()
}

func hasChildAt(t *testing.T, set *Set[int], branch int, path ...int) bool {
	t.Helper()
	g := set.Tree().ReadRoot()
	require.NotNil(t, g)
	for _, b := range path {
		child, err := g.Child(b)
		require.NoError(t, err)
		require.NotNil(t, child)
		g = child
	}
	has, err := g.HasChild(branch)
	require.NoError(t, err)
	return has
}

func TestInsertShape(t *testing.T) {
	set := New[int]()
	for _, elem := range []int{0, 2, -1, -2, 1} {
		require.True(t, set.Insert(elem))
	}

	// Shape: root 0, left -1 (left -2), right 2 (left 1).
	require.Equal(t, 0, elemAt(t, set))
	require.Equal(t, -1, elemAt(t, set, left))
	require.Equal(t, -2, elemAt(t, set, left, left))
	require.Equal(t, 2, elemAt(t, set, right))
	require.Equal(t, 1, elemAt(t, set, right, left))

	require.Equal(t, []int{-2, -1, 0, 1, 2}, set.InOrder())
	require.Equal(t, 5, set.Len())
	require.Equal(t, 5, set.Tree().Len())
}

func TestInsertDuplicate(t *testing.T) {
	set := New[int]()
	require.True(t, set.Insert(3))
	require.False(t, set.Insert(3))
	require.Equal(t, 1, set.Len())
	require.Equal(t, []int{3}, set.InOrder())
}

func TestRemoveTwoChildren(t *testing.T) {
	set := New[int]()
	for _, elem := range []int{0, 2, -1, -2, 1} {
		set.Insert(elem)
	}

	// The successor (leftmost of the right subtree) replaces the root.
	require.True(t, set.Remove(0))
	require.Equal(t, 1, elemAt(t, set))
	require.Equal(t, -1, elemAt(t, set, left))
	require.Equal(t, 2, elemAt(t, set, right))
	require.False(t, hasChildAt(t, set, left, right))

	require.Equal(t, []int{-2, -1, 1, 2}, set.InOrder())
	require.Equal(t, 4, set.Len())
	// The removed node's slot was reclaimed at session end.
	require.Equal(t, 4, set.Tree().Len())
}

func TestRemoveDeepSuccessor(t *testing.T) {
	set := New[int]()
	for _, elem := range []int{10, 5, 20, 15, 25, 12, 17, 13} {
		set.Insert(elem)
	}

	// Successor of 10 is 12, which has a right child (13) to re-plug.
	require.True(t, set.Remove(10))
	require.Equal(t, 12, elemAt(t, set))
	require.Equal(t, []int{5, 12, 13, 15, 17, 20, 25}, set.InOrder())
	require.Equal(t, 13, elemAt(t, set, right, left, left))
}

func TestRemoveLeaf(t *testing.T) {
	set := New[int]()
	for _, elem := range []int{2, 1, 3} {
		set.Insert(elem)
	}
	require.True(t, set.Remove(1))
	require.Equal(t, []int{2, 3}, set.InOrder())
	require.False(t, hasChildAt(t, set, left))
}

func TestRemoveOneChild(t *testing.T) {
	set := New[int]()
	for _, elem := range []int{2, 1, 3, 4} {
		set.Insert(elem)
	}
	// 3 has only a right child; 4 is hoisted into its place.
	require.True(t, set.Remove(3))
	require.Equal(t, 4, elemAt(t, set, right))
	require.Equal(t, []int{1, 2, 4}, set.InOrder())
}

func TestRemoveRoot(t *testing.T) {
	set := New[int]()
	set.Insert(5)
	require.True(t, set.Remove(5))
	require.Empty(t, set.InOrder())
	require.Zero(t, set.Len())
	require.Zero(t, set.Tree().Len())
	require.Nil(t, set.Tree().ReadRoot())
}

func TestRemoveAbsent(t *testing.T) {
	set := New[int]()
	require.False(t, set.Remove(1))

	for _, elem := range []int{5, 3, 8} {
		set.Insert(elem)
	}
	require.False(t, set.Remove(7))
	require.Equal(t, []int{3, 5, 8}, set.InOrder())
	require.Equal(t, 3, set.Len())
}

func TestContains(t *testing.T) {
	set := New[int]()
	require.False(t, set.Contains(1))
	for _, elem := range []int{4, 2, 6, 1, 3} {
		set.Insert(elem)
	}
	for _, elem := range []int{4, 2, 6, 1, 3} {
		require.True(t, set.Contains(elem))
	}
	require.False(t, set.Contains(5))
	require.False(t, set.Contains(-1))

	set.Remove(2)
	require.False(t, set.Contains(2))
	require.True(t, set.Contains(1))
	require.True(t, set.Contains(3))
}

func TestStrings(t *testing.T) {
	set := New[string](arbor.WithExtensionSize[string](3))
	for _, elem := range []string{"pear", "apple", "quince"} {
		require.True(t, set.Insert(elem))
	}
	require.Equal(t, []string{"apple", "pear", "quince"}, set.InOrder())
	require.True(t, set.Remove("pear"))
	require.Equal(t, []string{"apple", "quince"}, set.InOrder())
}

func TestRandomizedAgainstReference(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	set := New[int]()
	ref := map[int]bool{}

	for step := 0; step < 2000; step++ {
		elem := r.Intn(60)
		if r.Intn(3) == 0 {
			require.Equal(t, ref[elem], set.Remove(elem), "remove %d at step %d", elem, step)
			delete(ref, elem)
		} else {
			require.Equal(t, !ref[elem], set.Insert(elem), "insert %d at step %d", elem, step)
			ref[elem] = true
		}

		require.Equal(t, len(ref), set.Len())
	}

	want := make([]int, 0, len(ref))
	for elem := range ref {
		want = append(want, elem)
	}
	slices.Sort(want)
	if diff := cmp.Diff(want, set.InOrder()); diff != "" {
		t.Fatalf("set diverged from reference (-want +got):\n%s", diff)
	}
	require.True(t, slices.IsSorted(set.InOrder()))

	// Every element removed: the backing store drains completely.
	for _, elem := range want {
		require.True(t, set.Remove(elem))
	}
	require.Zero(t, set.Len())
	require.Zero(t, set.Tree().Len())
}
