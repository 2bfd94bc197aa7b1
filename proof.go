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
	"context"

	"github.com/karalabe/ssz"
	"golang.org/x/sync/errgroup"
)

// Triple holds the three sibling hashes excluded from a node's path to one
// of its four children, in ascending slot-index order.
type Triple [3]Hash

// AuthPath is the bottom-up sequence of sibling triples from a leaf's
// immediate parent (height 1) up to the root (height MaxHeight).
type AuthPath struct {
	triples [MaxHeight]Triple
	n       int
}

func (p *AuthPath) push(t Triple) {
	p.triples[p.n] = t
	p.n++
}

// Complete reports whether the path reaches all the way to the root.
func (p *AuthPath) Complete() bool {
	return p.n == int(MaxHeight)
}

// Proof attests that Commitment was appended at Position, via the sibling
// hashes in AuthPath.
type Proof struct {
	Commitment Commitment
	Position   Position
	AuthPath   AuthPath
}

// Verify recomputes the root from a proof's commitment, position, and
// auth path, and reports whether it matches root. It is a pure function
// of its arguments: it never touches a *Tree, which is what makes
// VerifyBatch's concurrency safe.
func Verify(p *Proof, root Hash) bool {
	if !p.AuthPath.Complete() {
		return false
	}
	cur := leaf(p.Commitment)
	for i := 0; i < int(MaxHeight); i++ {
		height := Height(i + 1)
		d := p.Position.digit(height)
		t := p.AuthPath.triples[i]
		var hs [NodeWidth]Hash
		j := 0
		for k := 0; k < NodeWidth; k++ {
			if uint8(k) == d {
				hs[k] = cur
			} else {
				hs[k] = t[j]
				j++
			}
		}
		cur = node(height, hs[0], hs[1], hs[2], hs[3])
	}
	return cur == root
}

// VerifyBatch verifies many proofs against the same root concurrently.
// Verify has no access to the tree being proved against, so fanning it
// out across goroutines is safe even though the tree itself must never
// be mutated concurrently.
func VerifyBatch(ctx context.Context, proofs []*Proof, root Hash) ([]bool, error) {
	results := make([]bool, len(proofs))
	g, _ := errgroup.WithContext(ctx)
	for i, p := range proofs {
		i, p := i, p
		g.Go(func() error {
			results[i] = Verify(p, root)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// authPathBytes is the flattened wire size of an AuthPath: MaxHeight
// triples of three 32-byte hashes each.
const authPathBytes = int(MaxHeight) * 3 * 32

// sszProof is the flat, fixed-size shape Proof marshals to for SSZ: the
// codec has no notion of this package's Hash/Triple/AuthPath types, so the
// auth path collapses to one contiguous byte blob.
type sszProof struct {
	Commitment [32]byte
	Position   uint64
	Path       [authPathBytes]byte
}

func (p *sszProof) SizeSSZ() uint32 {
	return 32 + 8 + uint32(authPathBytes)
}

func (p *sszProof) DefineSSZ(codec *ssz.Codec) {
	ssz.DefineStaticBytes(codec, &p.Commitment)
	ssz.DefineUint64(codec, &p.Position)
	ssz.DefineStaticBytes(codec, &p.Path)
}

func (p *Proof) toWire() *sszProof {
	w := &sszProof{
		Commitment: p.Commitment,
		Position:   uint64(p.Position),
	}
	for i := 0; i < int(MaxHeight); i++ {
		for j := 0; j < 3; j++ {
			copy(w.Path[(i*3+j)*32:(i*3+j+1)*32], p.AuthPath.triples[i][j][:])
		}
	}
	return w
}

func (p *Proof) fromWire(w *sszProof) {
	p.Commitment = w.Commitment
	p.Position = Position(w.Position)
	p.AuthPath.n = int(MaxHeight)
	for i := 0; i < int(MaxHeight); i++ {
		for j := 0; j < 3; j++ {
			copy(p.AuthPath.triples[i][j][:], w.Path[(i*3+j)*32:(i*3+j+1)*32])
		}
	}
}

// MarshalSSZ encodes a Proof to its fixed-size wire format.
func (p *Proof) MarshalSSZ() ([]byte, error) {
	return ssz.EncodeToBytes(p.toWire())
}

// UnmarshalSSZ decodes a Proof from its fixed-size wire format.
func (p *Proof) UnmarshalSSZ(buf []byte) error {
	w := new(sszProof)
	if err := ssz.DecodeFromBytes(buf, w); err != nil {
		return err
	}
	p.fromWire(w)
	return nil
}
