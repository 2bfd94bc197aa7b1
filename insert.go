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

// completeNode is a fully-built, immutable child of a finalized subtree: a
// commitment or internal node that is either still materialized (its shape
// is known and it can still produce witnesses for its descendants) or
// already forgotten down to nothing but its hash.
//
// A completeNode only exists for slots that are still worth keeping around;
// once forget has collapsed a slot, the slot itself reverts to a bare Hash
// and no completeNode remains at all. insertSlot is the union of the two
// states.
type completeNode interface {
	Hash() Hash
	height() Height
	witness(pos Position, path *AuthPath) bool
	forget(pos Position, tag uint32) (completeNode, bool)
}

// insertSlot is one child of a branch: either Keep (a still-materialized
// completeNode) or Hash (a bare, collapsed digest). This mirrors the
// teacher's own pattern of letting a child slot be either a concrete
// VerkleNode or a HashedNode standing in for one that was never expanded.
type insertSlot struct {
	keep completeNode
	hash Hash
}

// keepSlot wraps a still-materialized subtree.
func keepSlot(n completeNode) insertSlot { return insertSlot{keep: n} }

// hashSlot wraps a bare digest, with no materialized subtree behind it.
func hashSlot(h Hash) insertSlot { return insertSlot{hash: h} }

// completeSlot builds the slot that results from finalizing a focus node:
// Keep if it was ever written to, otherwise a bare Hash::one — a focus that
// was never written still becomes part of a completed subtree once
// finalized, so it pads the same way any other absent completed child does,
// never with the live frontier's Hash::zero padding.
func completeSlot(n completeNode) insertSlot {
	if n == nil {
		return hashSlot(oneHash)
	}
	return keepSlot(n)
}

// Hash returns the slot's digest, however it is currently represented.
func (s insertSlot) Hash() Hash {
	if s.keep != nil {
		return s.keep.Hash()
	}
	return s.hash
}

// isKeep reports whether the slot still holds a materialized subtree.
func (s insertSlot) isKeep() bool { return s.keep != nil }

// tripleExcluding returns the three sibling hashes of hs, in ascending
// index order, skipping index d: the triple recorded in an auth path.
// Verify (proof.go) does the inverse placement inline when recomputing a
// node's hash from one.
func tripleExcluding(hs [NodeWidth]Hash, d uint8) Triple {
	var t Triple
	j := 0
	for i := 0; i < NodeWidth; i++ {
		if uint8(i) == d {
			continue
		}
		t[j] = hs[i]
		j++
	}
	return t
}
