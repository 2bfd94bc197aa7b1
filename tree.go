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

// Package tct implements a quaternary (base-4) incremental Merkle tree
// used as a state-commitment primitive: commitments are appended one at a
// time, the root is cheap to recompute after every append, and witnessed
// commitments can later be forgotten to reclaim memory without disturbing
// the root or any other witness's proof.
//
// The tree is height 24, arranged as three stacked 8-level tiers (an
// epoch tier over a block tier over a commitment tier), which a Position's
// 48 meaningful bits address directly: 16 bits of epoch, 16 of block, 16
// of commitment. EndBlock and EndEpoch force early finalization of the
// current commitment or block tier, padding any unused capacity.
package tct

// Tree is a quaternary incremental Merkle tree. The zero value is not
// usable; construct one with New.
type Tree struct {
	root             *branchFocus
	position         Position
	touched          bool
	idx              *index
	forgottenVersion uint32
}

// New returns an empty tree. Root() on a freshly constructed tree is
// Hash::one(), not the all-zero node hash an untouched frontier would
// otherwise compute, since an empty tree is a distinguished, fully
// defined structure rather than "a partially built one with nothing in
// it yet".
func New() *Tree {
	return &Tree{
		root: &branchFocus{ht: MaxHeight, focus: newFocus(MaxHeight - 1)},
		idx:  newIndex(),
	}
}

// Append inserts c at the next available position, returning that
// position. It returns ErrFull if the tree has no remaining capacity.
func (t *Tree) Append(c Commitment) (Position, error) {
	if uint64(t.position) >= Capacity {
		return 0, ErrFull
	}
	pos := t.position
	if err := t.root.insert(c); err != nil {
		return 0, err
	}
	t.idx.insert(c, pos)
	t.position = Position(uint64(pos) + 1)
	t.touched = true
	return pos, nil
}

// EndBlock forces the current commitment tier to finalize early, even if
// it isn't full, so that the next Append starts a fresh block. It returns
// ErrFull if the tree itself has no remaining capacity for a new block.
func (t *Tree) EndBlock() error {
	if err := t.root.forceFinalizeAt(TierHeight); err != nil {
		return err
	}
	t.position = endOfBlock(t.position)
	t.touched = true
	return nil
}

// EndEpoch forces both the current block and commitment tiers to finalize
// early, so that the next Append starts a fresh epoch. It returns ErrFull
// if the tree itself has no remaining capacity for a new epoch.
func (t *Tree) EndEpoch() error {
	if err := t.root.forceFinalizeAt(2 * TierHeight); err != nil {
		return err
	}
	t.position = endOfEpoch(t.position)
	t.touched = true
	return nil
}

// Root returns the tree's current root hash.
func (t *Tree) Root() Hash {
	if !t.touched {
		return oneHash
	}
	return t.root.Hash()
}

// Position returns the position the next Append will use.
func (t *Tree) Position() Position {
	return t.position
}

// Len returns the number of commitments currently indexed (witnessed).
func (t *Tree) Len() int {
	return t.idx.len()
}

// Witness returns a proof that c is present in the tree, or ErrNotWitnessed
// if c was never appended or has since been forgotten.
func (t *Tree) Witness(c Commitment) (*Proof, error) {
	pos, ok := t.idx.lookup(c)
	if !ok {
		return nil, ErrNotWitnessed
	}
	var path AuthPath
	if !t.root.witness(pos, &path) {
		return nil, ErrNotWitnessed
	}
	return &Proof{Commitment: c, Position: pos, AuthPath: path}, nil
}

// Forget removes c from the index and, where doing so loses no other live
// witness, collapses its materialized subtree down to a bare hash. It
// reports whether c was present to forget.
//
// The index entry is removed unconditionally, before the structural
// forget even runs (mirroring the source's own phrasing: first look up
// the position, then remove the entry and invoke the structural forget at
// that position). When c is still the frontier's in-progress focus leaf,
// the structural forget is a no-op, so the leaf remains witnessable by
// position even though it is no longer indexed; ValidateIndex exempts
// exactly this leaf from its UnindexedWitnessError check rather than
// treating it as a defect.
func (t *Tree) Forget(c Commitment) bool {
	pos, ok := t.idx.lookup(c)
	if !ok {
		return false
	}
	t.idx.remove(c)
	t.forgottenVersion++
	t.root.forget(pos, t.forgottenVersion)
	return true
}
