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

import "errors"

// focusNode is the mutable, still-growing tip of the tree: the unique
// rightmost path from the root down to whichever leaf is currently being
// written. Every focusNode is either a *branchFocus (height 1..24) or a
// *leafFocus (height 0); the chain is built eagerly by newFocus and mutated
// in place as commitments are appended, rather than rebuilt functionally on
// every update.
type focusNode interface {
	Hash() Hash
	height() Height
	insert(c Commitment) error
	finalize() completeNode
	witness(pos Position, path *AuthPath) bool
	forget(pos Position, tag uint32) bool
}

// newFocus builds a fresh, empty focus chain rooted at the given height,
// all the way down to a *leafFocus at height 0.
func newFocus(ht Height) focusNode {
	if ht == 0 {
		return &leafFocus{}
	}
	return &branchFocus{ht: ht, focus: newFocus(ht - 1)}
}

// leafFocus is the frontier unit at height 0: a single commitment slot
// still being filled. A leaf never collapses back into a bare Insert while
// it remains the frontier's focus (see the Open Question decision in
// DESIGN.md): forgetting it is a deliberate no-op.
type leafFocus struct {
	commitment Commitment
	set        bool
}

func (l *leafFocus) Hash() Hash {
	if !l.set {
		return zeroHash
	}
	return leaf(l.commitment)
}

func (l *leafFocus) height() Height { return LeafHeight }

func (l *leafFocus) insert(c Commitment) error {
	if l.set {
		return ErrFull
	}
	l.commitment = c
	l.set = true
	return nil
}

func (l *leafFocus) finalize() completeNode {
	if !l.set {
		return nil
	}
	return &completeLeaf{commitment: l.commitment, hash: leaf(l.commitment)}
}

func (l *leafFocus) witness(pos Position, path *AuthPath) bool {
	return l.set
}

func (l *leafFocus) forget(pos Position, tag uint32) bool {
	return false
}

// branchFocus is the frontier unit at height 1..24. siblings holds the
// already-finalized children to the left of focus, left to right; focus is
// the child currently being written, one level below. Once all NodeWidth
// children are finalized the branch itself becomes Full and must be
// absorbed by its parent, exactly like any other child.
type branchFocus struct {
	ht        Height
	siblings  []insertSlot
	focus     focusNode
	forgotten [NodeWidth]uint32
	cached    *Hash
}

func (b *branchFocus) Hash() Hash {
	if b.cached != nil {
		return *b.cached
	}
	hs := b.childHashes()
	h := node(b.ht, hs[0], hs[1], hs[2], hs[3])
	b.cached = &h
	return h
}

func (b *branchFocus) height() Height { return b.ht }

// childHashes returns the hashes of all four child slots, using zeroHash
// padding for slots that lie beyond the current focus (untouched so far).
func (b *branchFocus) childHashes() [NodeWidth]Hash {
	var hs [NodeWidth]Hash
	focusIdx := len(b.siblings)
	for i := 0; i < NodeWidth; i++ {
		switch {
		case i < focusIdx:
			hs[i] = b.siblings[i].Hash()
		case i == focusIdx:
			hs[i] = b.focus.Hash()
		default:
			hs[i] = zeroHash
		}
	}
	return hs
}

// closeFocus finalizes the current focus into the next sibling slot and
// opens a fresh focus at the same height. Returns ErrFull if b already has
// no remaining slot (NodeWidth-1 siblings finalized and the focus in the
// last slot).
func (b *branchFocus) closeFocus() error {
	if len(b.siblings) >= NodeWidth-1 {
		return ErrFull
	}
	b.siblings = append(b.siblings, completeSlot(b.focus.finalize()))
	b.focus = newFocus(b.ht - 1)
	b.cached = nil
	return nil
}

func (b *branchFocus) insert(c Commitment) error {
	if err := b.focus.insert(c); err == nil {
		b.cached = nil
		return nil
	} else if !errors.Is(err, ErrFull) {
		return err
	}
	if err := b.closeFocus(); err != nil {
		return err
	}
	if err := b.focus.insert(c); err != nil {
		return err
	}
	b.cached = nil
	return nil
}

// forceFinalizeAt finalizes the in-progress subtree rooted at the given
// height early, even though it may not be full, cascading the resulting
// completed child upward exactly like a capacity overflow. This is how
// EndBlock/EndEpoch realize the three stacked epoch/block/commitment tiers
// (each one height-aligned cut of this single uniform recursive structure)
// without requiring a separate generic type per tier.
func (b *branchFocus) forceFinalizeAt(cut Height) error {
	if b.ht == cut+1 {
		return b.closeFocus()
	}
	child, ok := b.focus.(*branchFocus)
	if !ok {
		// Nothing has ever been written this far down, so the tier below
		// cut is already trivially closed (it'll read as all-one-padding).
		return nil
	}
	err := child.forceFinalizeAt(cut)
	if err == nil {
		b.cached = nil
		return nil
	}
	if !errors.Is(err, ErrFull) {
		return err
	}
	if err := b.closeFocus(); err != nil {
		return err
	}
	return nil
}

func (b *branchFocus) finalize() completeNode {
	focusIdx := len(b.siblings)
	var children [NodeWidth]insertSlot
	for i := 0; i < NodeWidth; i++ {
		switch {
		case i < focusIdx:
			children[i] = b.siblings[i]
		case i == focusIdx:
			children[i] = completeSlot(b.focus.finalize())
		default:
			// Never reached during this tier: untouched beyond focus
			// pads with Hash::one, marking this subtree as finalized
			// rather than merely "not yet full".
			children[i] = hashSlot(oneHash)
		}
	}
	return &completeBranch{ht: b.ht, children: children, forgotten: b.forgotten}
}

func (b *branchFocus) witness(pos Position, path *AuthPath) bool {
	d := pos.digit(b.ht)
	focusIdx := uint8(len(b.siblings))
	var ok bool
	switch {
	case d < focusIdx:
		slot := b.siblings[d]
		if !slot.isKeep() {
			return false
		}
		ok = slot.keep.witness(pos, path)
	case d == focusIdx:
		ok = b.focus.witness(pos, path)
	default:
		return false
	}
	if !ok {
		return false
	}
	path.push(tripleExcluding(b.childHashes(), d))
	return true
}

func (b *branchFocus) forget(pos Position, tag uint32) bool {
	d := pos.digit(b.ht)
	focusIdx := uint8(len(b.siblings))
	switch {
	case d < focusIdx:
		slot := b.siblings[d]
		if !slot.isKeep() {
			return false
		}
		newNode, changed := slot.keep.forget(pos, tag)
		if !changed {
			return false
		}
		if newNode == nil {
			b.siblings[d] = hashSlot(slot.keep.Hash())
		} else {
			b.siblings[d] = keepSlot(newNode)
		}
		if tag > b.forgotten[d] {
			b.forgotten[d] = tag
		}
		return true
	case d == focusIdx:
		if !b.focus.forget(pos, tag) {
			return false
		}
		if tag > b.forgotten[d] {
			b.forgotten[d] = tag
		}
		return true
	default:
		return false
	}
}
