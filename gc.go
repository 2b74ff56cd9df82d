// Copyright 2026 The Arbor Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arbor

import (
	"time"

	"github.com/sirupsen/logrus"
)

// GarbageCollect reclaims every dead slot, compacting the backing store
// by relocating survivors into the vacated positions and rewriting the
// indices that referred to them. It runs automatically when a session
// closes and may also be called directly between sessions.
//
// Every NodeIndex issued before the pass is invalidated.
func (t *Tree[T]) GarbageCollect() {
	if t.inSession {
		panic("arbor: garbage collection during an active session")
	}
	if t.liveOwned > 0 {
		panic("arbor: garbage collection with live owned guards")
	}

	start := time.Now()
	reclaimed := 0

	t.store.Defragment()

	for len(t.garbage) > 0 {
		g := t.garbage[len(t.garbage)-1]
		t.garbage = t.garbage[:len(t.garbage)-1]

		// Queue entries are hints, not proofs. An index past the end was
		// already removed by an earlier relocation; a live slot means the
		// entry went stale or was a duplicate. Both are skipped.
		if g >= t.store.Len() {
			continue
		}
		if !t.slotAt(g).dead() {
			continue
		}

		t.sweep(g)
		reclaimed++
	}

	t.epoch++
	t.version++

	t.log.WithFields(logrus.Fields{
		"reclaimed": reclaimed,
		"nodes":     t.store.Len(),
		"elapsed":   time.Since(start),
	}).Debug("arbor: garbage collection complete")
}

// sweep removes the dead slot at g and patches every reference disturbed
// by the relocation of the former tail slot into its place.
func (t *Tree[T]) sweep(g int) {
	removed := t.store.SwapRemove(g)
	old := t.store.Len() // former index of the relocated tail

	// The removed slot's children die with it. Each is queued and
	// dead-marked so a later removal of the child does not try to patch
	// its now-stale parent link. A child recorded at the former tail
	// index has just been relocated into the vacated position.
	for _, ref := range removed.children {
		if !ref.some {
			continue
		}
		ci := ref.index
		if ci == old {
			ci = g
		}
		t.garbage = append(t.garbage, ci)
		child := t.slotAt(ci)
		if child.state == slotPresent {
			child.parent = parentTag{kind: parentGarbage}
		}
	}

	if g == old {
		// Removed the tail; nothing was relocated.
		return
	}

	reloc := t.slotAt(g)
	if reloc.state == slotGarbage {
		// The relocated slot is itself garbage; keep it findable under
		// its new index.
		t.garbage = append(t.garbage, g)
		return
	}

	switch reloc.parent.kind {
	case parentAttached:
		p := t.slotAt(reloc.parent.parent)
		if p.state != slotPresent {
			panic("arbor: node parent is garbage at collection time")
		}
		p.children[reloc.parent.branch] = childRef{index: g, some: true}
	case parentRoot:
		t.root = g
	case parentGarbage:
		// Dead-marked by an earlier removal in this pass; re-queue under
		// the new index so the slot cannot be lost.
		t.garbage = append(t.garbage, g)
	case parentDetached:
		panic("arbor: found detached node on collection sweep")
	}

	// The relocated slot's children still point back at its old index.
	for branch, ref := range reloc.children {
		if !ref.some {
			continue
		}
		child := t.slotAt(ref.index)
		if child.state != slotPresent {
			panic("arbor: relocated node references a garbage child")
		}
		if child.parent.kind != parentAttached || child.parent.parent != old || child.parent.branch != branch {
			panic("arbor: child back-link mismatch at collection time")
		}
		child.parent = attached(g, branch)
	}
}
