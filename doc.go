// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arbor implements an arena-backed rooted tree container generic
// over its element type, with a fixed per-tree branch factor.
//
// All nodes of a tree live in a single pinned, append-only backing store;
// parent and child relationships are slot indices, never pointers. On top
// of the raw storage the package exposes a layered guard protocol:
//
//   - NodeReadGuard: shared reads of an element and, recursively, its
//     children; taken from the tree while no session is open, or from a
//     session's guards and traversers for the rest of that session.
//   - Session: a bounded scope of exclusive mutation. Closing a session
//     runs the relocating garbage collector.
//   - NodeWriteGuard / ChildWriteGuard: exclusive access to one node,
//     splittable into disjoint element and child-slot views.
//   - NodeOwnedGuard: exclusive ownership of a detached subtree, which can
//     be mutated in place and later reattached, consumed, or released.
//   - TreeReadTraverser / TreeWriteTraverser: cursors with upward
//     navigation.
//
// Mutations performed during a session are applied directly to the store;
// slots freed by displacement, consumption, or release are queued and
// reclaimed when the session closes. The collector compacts the store by
// relocating surviving slots, so node indices obtained in one session are
// invalid after it ends.
//
// This design is aimed at:
//   - Tree shapes with a fixed small branch factor
//   - Workloads that restructure subtrees (detach, reattach, replace)
//   - Keeping per-node overhead at a few machine words, with nodes stored
//     in bulk segments; each node's child-slot array is a separate small
//     allocation
//
// Trade-offs:
//   - Single-threaded mutation: one session at a time, not safe for
//     concurrent use while a session is open
//   - Collection is stop-the-world at session end, not incremental
//
// Misusing the protocol — operating on a guard whose session has closed,
// resolving a NodeIndex after a collection, or consuming the same owned
// guard twice (other than a Release after consumption, which is a no-op) —
// is a programming fault and panics.
// Recoverable conditions (an out-of-range branch, a missing child, an
// absent parent) are returned as *Error values.
package arbor
