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
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	tr := New()
	var commitments []Commitment
	for i := 0; i < 10; i++ {
		c := testCommitment(byte(i + 1))
		commitments = append(commitments, c)
		if _, err := tr.Append(c); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := tr.EndBlock(); err != nil {
		t.Fatalf("EndBlock: %v", err)
	}
	if _, err := tr.Append(testCommitment(200)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	blob, err := tr.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	got, err := Deserialize(blob)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	if got.Root() != tr.Root() {
		t.Fatalf("round-tripped root %x != original %x; original = %s", got.Root(), tr.Root(), spew.Sdump(tr))
	}
	if got.Position() != tr.Position() {
		t.Fatalf("round-tripped position %d != original %d", got.Position(), tr.Position())
	}
	for _, c := range append(commitments, testCommitment(200)) {
		proof, err := got.Witness(c)
		if err != nil {
			t.Fatalf("Witness(%x) after round-trip: %v", c, err)
		}
		if !Verify(proof, got.Root()) {
			t.Fatalf("proof for %x does not verify after round-trip", c)
		}
	}
}

func TestDeserializeRejectsShortInput(t *testing.T) {
	if _, err := Deserialize([]byte{1, 2, 3}); err == nil {
		t.Fatal("Deserialize accepted input shorter than the header")
	}
}

func TestOutOfOrderReconstruction(t *testing.T) {
	c0 := testCommitment(1)
	c2 := testCommitment(3)

	b := Uninitialized(3, 0)
	// Insert positions out of order: 2 before 0.
	b.InsertCommitment(2, c2)
	b.InsertCommitment(0, c0)
	b.SetHash(1, 0, leaf(testCommitment(2)))

	tr, err := b.FinishInitialize()
	if err != nil {
		t.Fatalf("FinishInitialize: %v", err)
	}
	proof, err := tr.Witness(c0)
	if err != nil {
		t.Fatalf("Witness(c0): %v", err)
	}
	if !Verify(proof, tr.Root()) {
		t.Fatal("out-of-order reconstructed c0 does not verify")
	}
	proof2, err := tr.Witness(c2)
	if err != nil {
		t.Fatalf("Witness(c2): %v", err)
	}
	if !Verify(proof2, tr.Root()) {
		t.Fatal("out-of-order reconstructed c2 does not verify")
	}
}

func TestSetHashRejectsOversizedHeight(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("SetHash with height > MaxHeight should panic")
		}
	}()
	b := Uninitialized(0, 0)
	b.SetHash(0, MaxHeight+1, zeroHash)
}
