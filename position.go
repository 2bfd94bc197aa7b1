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

// Position addresses a single commitment slot in the tree. Only the low 48
// bits are ever meaningful: a 16-bit epoch index, a 16-bit block index
// within the epoch, and a 16-bit commitment index within the block, packed
// most-significant-first. This is exactly the base-4 digit string read from
// the root (height 24) down to a leaf (height 0): each tier of the tree
// consumes one 16-bit (eight base-4 digit) field.
type Position uint64

const (
	// NodeWidth is the tree's fixed arity.
	NodeWidth = 4

	// NodeBitWidth is log2(NodeWidth): the number of bits consumed by one
	// base-4 digit of a Position.
	NodeBitWidth = 2

	// Capacity is the number of leaf slots in a completely full tree:
	// 4^24 == 2^48, the span of the 48 meaningful Position bits.
	Capacity uint64 = 1 << 48
)

// Epoch returns the epoch-tier index of p (bits 32..47).
func (p Position) Epoch() uint16 { return uint16(p >> 32) }

// Block returns the block-tier index of p within its epoch (bits 16..31).
func (p Position) Block() uint16 { return uint16(p >> 16) }

// Index returns the commitment-tier index of p within its block
// (bits 0..15).
func (p Position) Index() uint16 { return uint16(p) }

// digit returns the base-4 digit of p that selects a child at the given
// height: height 24 selects the top-level child of the root, height 1
// selects the immediate parent of a leaf.
func (p Position) digit(height Height) uint8 {
	shift := (uint(height) - 1) * NodeBitWidth
	return uint8((uint64(p) >> shift) & 0b11)
}

// Full reports whether p addresses the last leaf slot of a completely full
// tree (4^24 - 1), i.e. whether appending at p leaves no further capacity.
func (p Position) Full() bool {
	return uint64(p) == Capacity-1
}

// endOfBlock rounds p up to the first position of the next block: the
// smallest position strictly greater than p whose low 16 bits are zero.
func endOfBlock(p Position) Position {
	return Position((uint64(p) &^ 0xFFFF) + 0x10000)
}

// endOfEpoch rounds p up to the first position of the next epoch: the
// smallest position strictly greater than p whose low 32 bits are zero.
func endOfEpoch(p Position) Position {
	return Position((uint64(p) &^ 0xFFFFFFFF) + 0x100000000)
}
