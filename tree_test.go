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
	"testing/quick"

	"github.com/davecgh/go-spew/spew"
)

func testCommitment(seed byte) Commitment {
	var c Commitment
	for i := range c {
		c[i] = seed
	}
	c[31] = seed // ensure non-zero even for seed 0 collisions across tests
	return c
}

func TestNewTreeRootIsOne(t *testing.T) {
	tr := New()
	if got := tr.Root(); got != oneHash {
		t.Fatalf("root of a virgin tree = %x, want Hash::one() = %x", got, oneHash)
	}
}

func TestAppendChangesRoot(t *testing.T) {
	tr := New()
	before := tr.Root()
	if _, err := tr.Append(testCommitment(1)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	after := tr.Root()
	if before == after {
		t.Fatalf("root did not change after Append; tree = %s", spew.Sdump(tr))
	}
}

func TestAppendAssignsSequentialPositions(t *testing.T) {
	tr := New()
	for i := 0; i < 16; i++ {
		pos, err := tr.Append(testCommitment(byte(i + 1)))
		if err != nil {
			t.Fatalf("Append #%d: %v", i, err)
		}
		if pos != Position(i) {
			t.Fatalf("Append #%d returned position %d, want %d", i, pos, i)
		}
	}
}

func TestWitnessRoundTrip(t *testing.T) {
	tr := New()
	var commitments []Commitment
	for i := 0; i < 20; i++ {
		c := testCommitment(byte(i + 1))
		commitments = append(commitments, c)
		if _, err := tr.Append(c); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	root := tr.Root()
	for _, c := range commitments {
		proof, err := tr.Witness(c)
		if err != nil {
			t.Fatalf("Witness(%x): %v", c, err)
		}
		if !Verify(proof, root) {
			t.Fatalf("Verify failed for commitment %x; proof = %s", c, spew.Sdump(proof))
		}
	}
}

func TestForgetRemovesWitness(t *testing.T) {
	tr := New()
	c := testCommitment(7)
	if _, err := tr.Append(c); err != nil {
		t.Fatalf("Append: %v", err)
	}
	other := testCommitment(9)
	if _, err := tr.Append(other); err != nil {
		t.Fatalf("Append: %v", err)
	}
	root := tr.Root()
	if !tr.Forget(c) {
		t.Fatal("Forget reported the commitment as absent")
	}
	if _, err := tr.Witness(c); err == nil {
		t.Fatal("forgotten commitment is still witnessed")
	}
	if tr.Root() != root {
		t.Fatal("forgetting a commitment must not change the root")
	}
	proof, err := tr.Witness(other)
	if err != nil {
		t.Fatalf("Witness(other) after unrelated Forget: %v", err)
	}
	if !Verify(proof, tr.Root()) {
		t.Fatal("unrelated witness broke after Forget")
	}
}

func TestForgetUnknownCommitmentIsNoop(t *testing.T) {
	tr := New()
	if tr.Forget(testCommitment(1)) {
		t.Fatal("Forget on an absent commitment must report false")
	}
}

func TestEndBlockAdvancesPosition(t *testing.T) {
	tr := New()
	if _, err := tr.Append(testCommitment(1)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := tr.EndBlock(); err != nil {
		t.Fatalf("EndBlock: %v", err)
	}
	if tr.Position().Block() != 1 {
		t.Fatalf("Position().Block() = %d after EndBlock, want 1", tr.Position().Block())
	}
	if tr.Position().Index() != 0 {
		t.Fatalf("Position().Index() = %d after EndBlock, want 0", tr.Position().Index())
	}
}

func TestEndEpochAdvancesPosition(t *testing.T) {
	tr := New()
	if _, err := tr.Append(testCommitment(1)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := tr.EndEpoch(); err != nil {
		t.Fatalf("EndEpoch: %v", err)
	}
	if tr.Position().Epoch() != 1 {
		t.Fatalf("Position().Epoch() = %d after EndEpoch, want 1", tr.Position().Epoch())
	}
	if tr.Position().Block() != 0 || tr.Position().Index() != 0 {
		t.Fatalf("EndEpoch must also reset block and index, got block=%d index=%d",
			tr.Position().Block(), tr.Position().Index())
	}
}

func TestEndBlockOnEmptyBlockStillChangesRoot(t *testing.T) {
	tr := New()
	before := tr.Root()
	if err := tr.EndBlock(); err != nil {
		t.Fatalf("EndBlock: %v", err)
	}
	if tr.Root() == before {
		t.Fatal("closing even an empty block is a real state transition and must change the root")
	}
}

func TestWitnessedCommitmentsSurviveAcrossBlocks(t *testing.T) {
	tr := New()
	c := testCommitment(3)
	if _, err := tr.Append(c); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := tr.EndBlock(); err != nil {
		t.Fatalf("EndBlock: %v", err)
	}
	if _, err := tr.Append(testCommitment(4)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	proof, err := tr.Witness(c)
	if err != nil {
		t.Fatalf("Witness across block boundary: %v", err)
	}
	if !Verify(proof, tr.Root()) {
		t.Fatal("proof across block boundary does not verify")
	}
}

// TestAppendSequencePropertiesQuick checks, for a handful of random
// append-and-forget sequences, that every still-live commitment remains
// witnessable and that the final tree passes every structural validator,
// forgotten-counter machinery included.
func TestAppendSequencePropertiesQuick(t *testing.T) {
	prop := func(seeds []byte) bool {
		if len(seeds) > 64 {
			seeds = seeds[:64]
		}
		tr := New()
		seen := map[Commitment]bool{}
		var appended []Commitment
		for _, s := range seeds {
			c := testCommitment(s)
			if seen[c] {
				continue // duplicate commitments are allowed but only the latest position is indexed
			}
			seen[c] = true
			if _, err := tr.Append(c); err != nil {
				t.Logf("unexpected Append error: %v", err)
				return false
			}
			appended = append(appended, c)
			// Interleave random forgets: every third seed forgets whatever
			// commitment was appended two positions back, exercising the
			// forgotten-counter propagation on a subtree that is still
			// otherwise live.
			if s%3 == 0 && len(appended) > 2 {
				victim := appended[len(appended)-2]
				if seen[victim] {
					tr.Forget(victim)
					delete(seen, victim)
				}
			}
		}
		root := tr.Root()
		for c := range seen {
			proof, err := tr.Witness(c)
			if err != nil {
				t.Logf("Witness(%x): %v", c, err)
				return false
			}
			if !Verify(proof, root) {
				return false
			}
		}
		if r := ValidateIndex(tr); !r.OK() {
			t.Logf("ValidateIndex: %v", r.Errors)
			return false
		}
		if r := ValidateAllProofs(tr); !r.OK() {
			t.Logf("ValidateAllProofs: %v", r.Errors)
			return false
		}
		if r := ValidateCachedHashes(tr); !r.OK() {
			t.Logf("ValidateCachedHashes: %v", r.Errors)
			return false
		}
		if r := ValidateForgotten(tr); !r.OK() {
			t.Logf("ValidateForgotten: %v", r.Errors)
			return false
		}
		return true
	}
	if err := quick.Check(prop, &quick.Config{MaxLen: 64}); err != nil {
		t.Error(err)
	}
}
