// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package tct

// Report collects every structural problem found by a validator instead
// of stopping at the first one, so a caller debugging a corrupted tree
// sees the whole picture in one pass.
type Report struct {
	Errors []error
}

func (r *Report) add(err error) {
	r.Errors = append(r.Errors, err)
}

// OK reports whether the validator found no problems.
func (r *Report) OK() bool {
	return len(r.Errors) == 0
}

// ValidateIndex checks that the tree's index agrees with its structure:
// every indexed commitment must still be witnessable at its recorded
// position, and (barring the documented frontier-focus exception, see
// Tree.Forget) every witnessed position must be indexed.
func ValidateIndex(t *Tree) *Report {
	r := &Report{}
	t.idx.each(func(c Commitment, p Position) {
		proof, err := t.Witness(c)
		if err != nil {
			r.add(&IndexError{Commitment: c, Position: p, Reason: "indexed commitment is not witnessed"})
			return
		}
		if proof.Position != p {
			r.add(&IndexError{Commitment: c, Position: p, Reason: "indexed position disagrees with witnessed position"})
		}
	})
	walkWitnessed(t.root, 0, func(pos Position, c Commitment) {
		if _, ok := t.idx.lookup(c); ok {
			return
		}
		if t.position > 0 && pos == t.position-1 {
			// the live frontier focus leaf (it holds the most recent
			// Append, at position-1): exempt, per the documented
			// Open Question decision (Tree.Forget, DESIGN.md).
			return
		}
		r.add(&UnindexedWitnessError{Position: pos})
	})
	return r
}

// walkWitnessed calls f for every commitment still materialized in the
// tree, in position order.
func walkWitnessed(b *branchFocus, base Position, f func(Position, Commitment)) {
	focusIdx := len(b.siblings)
	for i := 0; i < focusIdx; i++ {
		walkSlot(b.siblings[i], childPosition(base, b.ht, i), f)
	}
	walkFocus(b.focus, childPosition(base, b.ht, focusIdx), f)
}

func walkFocus(n focusNode, pos Position, f func(Position, Commitment)) {
	switch v := n.(type) {
	case *branchFocus:
		walkWitnessed(v, pos, f)
	case *leafFocus:
		if v.set {
			f(pos, v.commitment)
		}
	}
}

func walkSlot(s insertSlot, pos Position, f func(Position, Commitment)) {
	if !s.isKeep() {
		return
	}
	switch v := s.keep.(type) {
	case *completeLeaf:
		f(pos, v.commitment)
	case *completeBranch:
		for i, c := range v.children {
			walkSlot(c, childPosition(pos, v.ht, i), f)
		}
	}
}

// ValidateAllProofs checks that every indexed commitment produces a proof
// that verifies against the tree's current root.
func ValidateAllProofs(t *Tree) *Report {
	r := &Report{}
	root := t.Root()
	t.idx.each(func(c Commitment, p Position) {
		proof, err := t.Witness(c)
		if err != nil {
			r.add(&WitnessError{Position: p, Reason: err.Error()})
			return
		}
		if !Verify(proof, root) {
			r.add(&InvalidProofError{Position: p})
		}
	})
	return r
}

// ValidateCachedHashes recomputes every cached node hash from its
// children and reports any that disagree with what's cached.
func ValidateCachedHashes(t *Tree) *Report {
	r := &Report{}
	checkBranchCache(t.root, r)
	return r
}

func checkBranchCache(b *branchFocus, r *Report) {
	if b.cached != nil {
		hs := b.childHashes()
		actual := node(b.ht, hs[0], hs[1], hs[2], hs[3])
		if actual != *b.cached {
			r.add(&CachedHashError{Height: b.ht, Cached: *b.cached, Actual: actual})
		}
	}
	for _, s := range b.siblings {
		checkSlotCache(s, r)
	}
	if child, ok := b.focus.(*branchFocus); ok {
		checkBranchCache(child, r)
	}
}

func checkSlotCache(s insertSlot, r *Report) {
	if !s.isKeep() {
		return
	}
	cb, ok := s.keep.(*completeBranch)
	if !ok {
		return
	}
	if cb.cached != nil {
		actual := node(cb.ht, cb.children[0].Hash(), cb.children[1].Hash(), cb.children[2].Hash(), cb.children[3].Hash())
		if actual != *cb.cached {
			r.add(&CachedHashError{Height: cb.ht, Cached: *cb.cached, Actual: actual})
		}
	}
	for _, c := range cb.children {
		checkSlotCache(c, r)
	}
}

// ValidateForgotten checks that a slot collapsed to a bare hash carries a
// nonzero forgotten tag (Hash::one padding left by finalization was never
// forgotten and is exempt), and, per spec.md §3, that every branch's
// forgotten[slot] is at least the maximum forgotten tag found anywhere in
// that slot's still-materialized subtree — not merely nonzero at the point
// of collapse, but never allowed to fall behind a descendant's own count.
func ValidateForgotten(t *Tree) *Report {
	r := &Report{}
	checkBranchForgotten(t.root, r)
	return r
}

func checkBranchForgotten(b *branchFocus, r *Report) {
	for i := range b.siblings {
		tag := b.forgotten[i]
		slot := b.siblings[i]
		if !slot.isKeep() {
			if tag == 0 && slot.hash != oneHash {
				r.add(&ForgottenError{Height: b.ht, Reason: "collapsed slot has a zero forgotten tag"})
			}
			continue
		}
		if cb, ok := slot.keep.(*completeBranch); ok {
			childMax := checkCompleteForgotten(cb, r)
			if childMax > tag {
				r.add(&ForgottenError{Height: b.ht, Reason: "forgotten tag is less than a materialized descendant's"})
			}
		}
	}
	if fb, ok := b.focus.(*branchFocus); ok {
		checkBranchForgotten(fb, r)
	}
}

// checkCompleteForgotten validates b's own forgotten invariant and returns
// the maximum forgotten tag found anywhere in b's subtree (including b's
// own entries), so the caller holding b in a slot can check its own
// forgotten tag for that slot against it.
func checkCompleteForgotten(b *completeBranch, r *Report) uint32 {
	var maxTag uint32
	for i, tag := range b.forgotten {
		if tag > maxTag {
			maxTag = tag
		}
		slot := b.children[i]
		if !slot.isKeep() {
			if tag == 0 && slot.hash != oneHash {
				r.add(&ForgottenError{Height: b.ht, Reason: "collapsed slot has a zero forgotten tag"})
			}
			continue
		}
		if cb, ok := slot.keep.(*completeBranch); ok {
			childMax := checkCompleteForgotten(cb, r)
			if childMax > tag {
				r.add(&ForgottenError{Height: b.ht, Reason: "forgotten tag is less than a materialized descendant's"})
			}
			if childMax > maxTag {
				maxTag = childMax
			}
		}
	}
	return maxTag
}
