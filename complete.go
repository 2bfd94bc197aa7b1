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

// completeLeaf is a finalized, witnessed commitment: a leaf that was
// written while still the frontier's focus, then pushed into a sibling
// slot once its parent advanced past it.
type completeLeaf struct {
	commitment Commitment
	hash       Hash
}

func (l *completeLeaf) Hash() Hash     { return l.hash }
func (l *completeLeaf) height() Height { return LeafHeight }

func (l *completeLeaf) witness(pos Position, path *AuthPath) bool {
	return true
}

// forget always collapses a completed leaf: once nobody can append to it
// again, a bare hash is all that's worth keeping. The caller (the parent
// branch) is responsible for replacing this leaf's slot with the leaf's
// hash and for recording the forgotten tag.
func (l *completeLeaf) forget(pos Position, tag uint32) (completeNode, bool) {
	return nil, true
}

// completeBranch is a finalized internal node: either a subtree that
// filled up naturally, or one that was cut short by EndBlock/EndEpoch and
// padded with Hash::one below the cut. Its children may themselves be
// materialized or already collapsed to bare hashes.
type completeBranch struct {
	ht        Height
	children  [NodeWidth]insertSlot
	forgotten [NodeWidth]uint32
	cached    *Hash
}

func (b *completeBranch) Hash() Hash {
	if b.cached != nil {
		return *b.cached
	}
	h := node(b.ht, b.children[0].Hash(), b.children[1].Hash(), b.children[2].Hash(), b.children[3].Hash())
	b.cached = &h
	return h
}

func (b *completeBranch) height() Height { return b.ht }

func (b *completeBranch) witness(pos Position, path *AuthPath) bool {
	d := pos.digit(b.ht)
	slot := b.children[d]
	if !slot.isKeep() {
		return false
	}
	if !slot.keep.witness(pos, path) {
		return false
	}
	var hs [NodeWidth]Hash
	for i, c := range b.children {
		hs[i] = c.Hash()
	}
	path.push(tripleExcluding(hs, d))
	return true
}

// forget marks pos forgotten, collapsing wherever that loses no other
// live witness, and cascades: if every child slot has become a bare hash,
// the whole branch collapses too, letting the parent drop it in turn.
// The Merkle hash never changes; only presence does.
func (b *completeBranch) forget(pos Position, tag uint32) (completeNode, bool) {
	d := pos.digit(b.ht)
	slot := b.children[d]
	if !slot.isKeep() {
		return b, false
	}
	newChild, changed := slot.keep.forget(pos, tag)
	if !changed {
		return b, false
	}
	if newChild == nil {
		b.children[d] = hashSlot(slot.keep.Hash())
	} else {
		b.children[d] = keepSlot(newChild)
	}
	if tag > b.forgotten[d] {
		b.forgotten[d] = tag
	}
	for _, c := range b.children {
		if c.isKeep() {
			return b, true
		}
	}
	return nil, true
}
