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

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Serialize writes a preorder walk of the tree to a binary format: a
// small header (position, forgotten-version) followed by one record per
// node. A node's shape (whether it's still the frontier's mutable path
// or a finalized subtree) is never written explicitly: it is entirely
// determined by Position, which Deserialize reads from the header before
// it reconstructs a single byte of tree structure.
//
// Each branch record is a single presence byte (via bitset, one bit per
// child: set if the child is materialized, clear if it has collapsed to
// a bare hash) followed by each child's record in slot order.
func (t *Tree) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	var hdr [12]byte
	binary.BigEndian.PutUint64(hdr[0:8], uint64(t.position))
	binary.BigEndian.PutUint32(hdr[8:12], t.forgottenVersion)
	buf.Write(hdr[:])
	writeFocus(&buf, t.root)
	return buf.Bytes(), nil
}

func writeFocus(buf *bytes.Buffer, b *branchFocus) {
	focusIdx := len(b.siblings)
	var kinds [NodeWidth]bool // true => materialized
	for i := 0; i < NodeWidth; i++ {
		switch {
		case i < focusIdx:
			kinds[i] = b.siblings[i].isKeep()
		case i == focusIdx:
			kinds[i] = true // the focus itself is always "materialized" while live
		}
	}
	buf.WriteByte(presenceByte(kinds))
	for i := 0; i < NodeWidth; i++ {
		switch {
		case i < focusIdx:
			writeSlot(buf, b.siblings[i])
		case i == focusIdx:
			writeFocusChild(buf, b.focus)
		default:
			writeHash(buf, zeroHash)
		}
	}
}

func writeFocusChild(buf *bytes.Buffer, f focusNode) {
	switch n := f.(type) {
	case *branchFocus:
		writeFocus(buf, n)
	case *leafFocus:
		if !n.set {
			writeHash(buf, zeroHash)
			return
		}
		buf.WriteByte(1)
		buf.Write(n.commitment[:])
	}
}

func writeSlot(buf *bytes.Buffer, s insertSlot) {
	if !s.isKeep() {
		writeHash(buf, s.hash)
		return
	}
	switch n := s.keep.(type) {
	case *completeLeaf:
		buf.WriteByte(1)
		buf.Write(n.commitment[:])
	case *completeBranch:
		materialized := false
		for _, c := range n.children {
			if c.isKeep() {
				materialized = true
			}
		}
		if !materialized {
			// A zero presence byte would read back as a hash record's tag,
			// so a branch with no materialized child is written as its hash.
			writeHash(buf, n.Hash())
			return
		}
		writeCompleteBranch(buf, n)
	}
}

func writeCompleteBranch(buf *bytes.Buffer, b *completeBranch) {
	var kinds [NodeWidth]bool
	for i, c := range b.children {
		kinds[i] = c.isKeep()
	}
	buf.WriteByte(presenceByte(kinds))
	for _, c := range b.children {
		writeSlot(buf, c)
	}
}

func writeHash(buf *bytes.Buffer, h Hash) {
	buf.WriteByte(0)
	buf.Write(h[:])
}

func presenceByte(kinds [NodeWidth]bool) byte {
	mask := bitset.New(NodeWidth)
	for i, materialized := range kinds {
		if materialized {
			mask.Set(uint(i))
		}
	}
	var b byte
	for i := uint(0); i < NodeWidth; i++ {
		if mask.Test(i) {
			b |= 1 << i
		}
	}
	return b
}

func testBit(presence byte, i uint) bool {
	return presence&(1<<i) != 0
}

// Deserialize reconstructs a Tree previously produced by Serialize. The
// header's Position tells it exactly which child slot is the live focus
// at every level, so (unlike the wire format's presence bits, which exist
// only to tell a materialized child from a collapsed one) there is never
// any ambiguity about tree shape to resolve while reading.
func Deserialize(data []byte) (*Tree, error) {
	if len(data) < 12 {
		return nil, ErrMalformed
	}
	r := bytes.NewReader(data)
	var hdr [12]byte
	if _, err := r.Read(hdr[:]); err != nil {
		return nil, ErrMalformed
	}
	t := &Tree{
		position:         Position(binary.BigEndian.Uint64(hdr[0:8])),
		forgottenVersion: binary.BigEndian.Uint32(hdr[8:12]),
		idx:              newIndex(),
	}
	root, err := readFocus(r, MaxHeight, t.position, t.idx)
	if err != nil {
		return nil, err
	}
	t.root = root
	t.touched = t.position != 0 || t.forgottenVersion != 0
	return t, nil
}

func readFocus(r *bytes.Reader, ht Height, pos Position, idx *index) (*branchFocus, error) {
	presence, err := r.ReadByte()
	if err != nil {
		return nil, ErrMalformed
	}
	focusIdx := int(pos.digit(ht))
	b := &branchFocus{ht: ht}
	for i := 0; i < NodeWidth; i++ {
		childPos := childPosition(pos, ht, i)
		switch {
		case i < focusIdx:
			if !testBit(presence, uint(i)) {
				h, err := readHashOnly(r)
				if err != nil {
					return nil, err
				}
				b.siblings = append(b.siblings, hashSlot(h))
				continue
			}
			slot, err := readSlot(r, ht-1, childPos, idx)
			if err != nil {
				return nil, err
			}
			b.siblings = append(b.siblings, slot)
		case i == focusIdx:
			if ht == 1 {
				leaf, err := readFocusLeaf(r, childPos, idx)
				if err != nil {
					return nil, err
				}
				b.focus = leaf
				continue
			}
			child, err := readFocus(r, ht-1, pos, idx)
			if err != nil {
				return nil, err
			}
			b.focus = child
		default:
			if _, err := readHashOnly(r); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// childPosition returns the position of the first leaf under the i'th
// child of the branch at height ht covering pos: identical to pos in
// every digit above ht, digit i at height ht, and zero below.
func childPosition(pos Position, ht Height, i int) Position {
	shift := (uint(ht) - 1) * NodeBitWidth
	highMask := ^Position((uint64(1) << (uint(ht) * NodeBitWidth)) - 1)
	return (pos & highMask) | (Position(uint64(i)) << shift)
}

func readFocusLeaf(r *bytes.Reader, pos Position, idx *index) (*leafFocus, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return nil, ErrMalformed
	}
	if tag == 0 {
		var h [32]byte
		if _, err := r.Read(h[:]); err != nil {
			return nil, ErrMalformed
		}
		return &leafFocus{}, nil
	}
	var c Commitment
	if _, err := r.Read(c[:]); err != nil {
		return nil, ErrMalformed
	}
	idx.insert(c, pos)
	return &leafFocus{commitment: c, set: true}, nil
}

func readHashOnly(r *bytes.Reader) (Hash, error) {
	tag, err := r.ReadByte()
	if err != nil || tag != 0 {
		return Hash{}, ErrMalformed
	}
	var h [32]byte
	if _, err := r.Read(h[:]); err != nil {
		return Hash{}, ErrMalformed
	}
	return Hash(h), nil
}

func readSlot(r *bytes.Reader, ht Height, pos Position, idx *index) (insertSlot, error) {
	tag, err := r.ReadByte()
	if err != nil {
		return insertSlot{}, ErrMalformed
	}
	switch {
	case tag == 0:
		var h [32]byte
		if _, err := r.Read(h[:]); err != nil {
			return insertSlot{}, ErrMalformed
		}
		return hashSlot(Hash(h)), nil
	case ht == 0:
		var c Commitment
		if _, err := r.Read(c[:]); err != nil {
			return insertSlot{}, ErrMalformed
		}
		idx.insert(c, pos)
		return keepSlot(&completeLeaf{commitment: c, hash: leaf(c)}), nil
	default:
		// The tag byte here is the presence mask of a nested
		// completeBranch; rewind and read it as such.
		if err := r.UnreadByte(); err != nil {
			return insertSlot{}, ErrMalformed
		}
		branch, err := readCompleteBranch(r, ht, pos, idx)
		if err != nil {
			return insertSlot{}, err
		}
		return keepSlot(branch), nil
	}
}

func readCompleteBranch(r *bytes.Reader, ht Height, pos Position, idx *index) (*completeBranch, error) {
	presence, err := r.ReadByte()
	if err != nil {
		return nil, ErrMalformed
	}
	b := &completeBranch{ht: ht}
	for i := 0; i < NodeWidth; i++ {
		childPos := childPosition(pos, ht, i)
		if !testBit(presence, uint(i)) {
			h, err := readHashOnly(r)
			if err != nil {
				return nil, err
			}
			b.children[i] = hashSlot(h)
			continue
		}
		slot, err := readSlot(r, ht-1, childPos, idx)
		if err != nil {
			return nil, err
		}
		b.children[i] = slot
	}
	return b, nil
}

// buildNode is the scratch representation used by the out-of-order
// reconstruction builder: unlike the live tree types, it tolerates gaps
// (children nobody has visited yet) and an explicit hash override that
// may disagree with the children until FinishInitialize checks it.
type buildNode struct {
	height   Height
	hash     *Hash
	leaf     *Commitment
	children [NodeWidth]*buildNode
}

// Builder reconstructs a tree out of order: callers may interleave
// InsertCommitment and SetHash calls in any sequence, then call
// FinishInitialize once to validate and materialize the result.
type Builder struct {
	position         Position
	forgottenVersion uint32
	root             *buildNode
}

// Uninitialized starts a new out-of-order reconstruction for a tree that
// is known to be at the given position and forgotten-version, but whose
// contents haven't been supplied yet.
func Uninitialized(position Position, forgottenVersion uint32) *Builder {
	return &Builder{
		position:         position,
		forgottenVersion: forgottenVersion,
		root:             &buildNode{height: MaxHeight},
	}
}

func (x *Builder) descend(pos Position, height Height) *buildNode {
	n := x.root
	for h := MaxHeight; h > height; h-- {
		d := pos.digit(h)
		if n.children[d] == nil {
			n.children[d] = &buildNode{height: h - 1}
		}
		n = n.children[d]
	}
	return n
}

// InsertCommitment records c as the commitment at pos, regardless of the
// order in which positions are supplied.
func (x *Builder) InsertCommitment(pos Position, c Commitment) {
	n := x.descend(pos, LeafHeight)
	n.leaf = &c
	n.hash = nil
}

// SetHash records that the subtree rooted at (pos, height) is known to
// have hash h, without needing its contents to be supplied at all. It
// panics if height exceeds the tree's height: a caller contract violation,
// not a runtime condition worth threading an error through every call site
// for.
func (x *Builder) SetHash(pos Position, height Height, h Hash) {
	if height > MaxHeight {
		panic("tct: SetHash height exceeds tree height")
	}
	n := x.descend(pos, height)
	n.hash = &h
}

// FinishInitialize validates the accumulated state and returns a usable
// Tree, or ErrMalformed if a recorded hash on a completed (left-of-focus)
// node disagrees with one computed from its children. Hashes recorded on
// the frontier path itself are not checked.
func (x *Builder) FinishInitialize() (*Tree, error) {
	idx := newIndex()
	root, err := finishBranchAt(x.root, MaxHeight, x.position, idx)
	if err != nil {
		return nil, err
	}
	t := &Tree{
		root:             root,
		position:         x.position,
		forgottenVersion: x.forgottenVersion,
		idx:              idx,
		touched:          x.position != 0 || x.forgottenVersion != 0,
	}
	return t, nil
}

// finishBranchAt materializes the branch at height ht whose frontier
// passes through pos: every slot left of pos's digit at this height is a
// finalized sibling, the slot at that digit continues as the live focus
// (recursing the same way), and slots to the right are untouched.
func finishBranchAt(n *buildNode, ht Height, pos Position, idx *index) (*branchFocus, error) {
	focusIdx := int(pos.digit(ht))
	b := &branchFocus{ht: ht}
	for i := 0; i < focusIdx; i++ {
		childPos := childPosition(pos, ht, i)
		child := n.children[i]
		if child == nil {
			// An unsupplied sibling left of the focus must be a completed
			// subtree (this.ht-1 is keyed by pos's own higher digits, which
			// already passed this slot), so its padding is Hash::one, not
			// Hash::zero.
			b.siblings = append(b.siblings, hashSlot(oneHash))
			continue
		}
		slot, err := finishSlot(child, childPos, idx)
		if err != nil {
			return nil, err
		}
		b.siblings = append(b.siblings, slot)
	}
	switch {
	case ht == 1:
		b.focus = &leafFocus{}
	default:
		child := n.children[focusIdx]
		if child == nil {
			b.focus = newFocus(ht - 1)
		} else {
			fb, err := finishBranchAt(child, ht-1, pos, idx)
			if err != nil {
				return nil, err
			}
			b.focus = fb
		}
	}
	return b, nil
}

func finishSlot(n *buildNode, pos Position, idx *index) (insertSlot, error) {
	if n.height == LeafHeight {
		if n.leaf != nil {
			h := leaf(*n.leaf)
			if n.hash != nil && *n.hash != h {
				return insertSlot{}, fmt.Errorf("%w: leaf hash mismatch at height 0", ErrMalformed)
			}
			idx.insert(*n.leaf, pos)
			return keepSlot(&completeLeaf{commitment: *n.leaf, hash: h}), nil
		}
		if n.hash != nil {
			return hashSlot(*n.hash), nil
		}
		// A leaf slot reached via finishSlot is always part of an already
		// completed subtree; an unsupplied one pads with Hash::one, the
		// completed-subtree sentinel, never Hash::zero.
		return hashSlot(oneHash), nil
	}
	anyChild := false
	for _, c := range n.children {
		if c != nil {
			anyChild = true
			break
		}
	}
	if !anyChild {
		if n.hash != nil {
			return hashSlot(*n.hash), nil
		}
		return hashSlot(oneHash), nil
	}
	branch := &completeBranch{ht: n.height}
	for i := 0; i < NodeWidth; i++ {
		childPos := childPosition(pos, n.height, i)
		child := n.children[i]
		if child == nil {
			branch.children[i] = hashSlot(oneHash)
			continue
		}
		slot, err := finishSlot(child, childPos, idx)
		if err != nil {
			return insertSlot{}, err
		}
		branch.children[i] = slot
	}
	h := branch.Hash()
	if n.hash != nil && *n.hash != h {
		return insertSlot{}, fmt.Errorf("%w: branch hash mismatch at height %d", ErrMalformed, n.height)
	}
	return keepSlot(branch), nil
}
