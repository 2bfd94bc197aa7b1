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
	"crypto/sha256"

	"github.com/crate-crypto/go-ipa/bandersnatch/fr"
)

// Height is the number of levels between a node and the leaves, in units of
// one base-4 digit. Leaves sit at height 0, the root of a full tree at 24.
type Height = uint8

const (
	// LeafHeight is the height of a leaf.
	LeafHeight Height = 0

	// MaxHeight is the height of the root of a completely full tree:
	// three stacked 8-level tiers (epoch, block, commitment).
	MaxHeight Height = 24

	// TierHeight is the height of a single epoch/block/commitment tier.
	TierHeight Height = 8
)

// domain separators, folded into the hash input ahead of the height byte so
// that a leaf hash can never collide with an internal node hash of height 0.
const (
	domainLeaf byte = 0x4c // 'L'
	domainNode byte = 0x4e // 'N'
)

// Hash is a 32-byte element of the bandersnatch scalar field: the digest
// produced by the tree's internal hash function, and the type of both a
// commitment and a node's hash.
type Hash [32]byte

// Commitment is an opaque, caller-supplied leaf value: a 32-byte element of
// the same prime field as Hash. The tree never inspects its content.
type Commitment [32]byte

var (
	// zeroHash pads an absent child of a *frontier* internal node.
	zeroHash = func() Hash {
		var zero fr.Element
		return Hash(zero.Bytes())
	}()

	// oneHash pads an absent child of a *complete* (finalized) internal
	// node. It is deliberately distinct from zeroHash: a frontier root
	// and the root of that same tree finalized early therefore differ
	// unless the tree was exactly full (spec.md §4.2, §8 property 8).
	oneHash = func() Hash {
		var one fr.Element
		one.SetOne()
		return Hash(one.Bytes())
	}()

	// uninitializedHash is the reserved reconstruction poison value. The
	// out-of-order Builder (serialize.go) never stores it: it marks an
	// unsupplied hash with a nil pointer. fr.Element.Bytes() always returns the canonical
	// little-endian encoding of a value strictly less than the
	// bandersnatch scalar field modulus, whose top byte can never be
	// 0xff; an all-0xff pattern is therefore never a legitimate hash.
	uninitializedHash = Hash{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	}
)

// HashZero returns the sentinel used to pad an absent child of a frontier
// (still-growing) internal node.
func HashZero() Hash { return zeroHash }

// HashOne returns the sentinel used to pad an absent child of a complete
// (finalized) internal node.
func HashOne() Hash { return oneHash }

// HashUninitialized returns the reserved reconstruction poison value, which
// no legitimate hash ever equals.
func HashUninitialized() Hash { return uninitializedHash }

// IsUninitialized reports whether h is the reconstruction poison value.
func (h Hash) IsUninitialized() bool { return h == uninitializedHash }

// reduce folds an arbitrary-length digest into a field element by modulus
// reduction, delegated to fr.Element's own SetBytes instead of hand-rolled
// math/big arithmetic.
func reduce(digest []byte) Hash {
	var e fr.Element
	e.SetBytes(digest)
	return Hash(e.Bytes())
}

// node computes the hash of an internal node at the given height from its
// four children's hashes, in slot order. It is a pure function: no domain
// state, no caching. height is folded in so that hashes of same-shaped
// subtrees at different heights never collide.
func node(height Height, a, b, c, d Hash) Hash {
	h := sha256.New()
	h.Write([]byte{domainNode, height})
	h.Write(a[:])
	h.Write(b[:])
	h.Write(c[:])
	h.Write(d[:])
	return reduce(h.Sum(nil))
}

// leaf computes the hash of a single commitment sitting at height 0.
func leaf(c Commitment) Hash {
	h := sha256.New()
	h.Write([]byte{domainLeaf, byte(LeafHeight)})
	h.Write(c[:])
	h.Write(zeroHash[:])
	h.Write(zeroHash[:])
	h.Write(zeroHash[:])
	return reduce(h.Sum(nil))
}
