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
	"errors"
	"fmt"
)

// ErrFull is returned by Append/EndBlock/EndEpoch when the tree (or the
// tier being closed) has no remaining capacity.
var ErrFull = errors.New("tct: tree is full")

// ErrNotWitnessed is returned by Witness when the requested commitment is
// not present, or is present but unwitnessed (forgotten, or hashed away).
var ErrNotWitnessed = errors.New("tct: commitment is not witnessed")

// ErrMalformed is returned by Deserialize and FinishInitialize when the
// wire-format input cannot describe a valid tree.
var ErrMalformed = errors.New("tct: malformed tree encoding")

// IndexError reports a mismatch between the index and the tree structure.
type IndexError struct {
	Commitment Commitment
	Position   Position
	Reason     string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("tct: index error at position %d for commitment %x: %s", e.Position, e.Commitment, e.Reason)
}

// UnindexedWitnessError reports a commitment that is structurally witnessed
// (materialized in the tree) but absent from the index.
type UnindexedWitnessError struct {
	Position Position
}

func (e *UnindexedWitnessError) Error() string {
	return fmt.Sprintf("tct: position %d is witnessed but not indexed", e.Position)
}

// WitnessError reports a problem discovered while checking that every
// witnessed commitment produces a valid proof.
type WitnessError struct {
	Position Position
	Reason   string
}

func (e *WitnessError) Error() string {
	return fmt.Sprintf("tct: witness error at position %d: %s", e.Position, e.Reason)
}

// UnwitnessedCommitmentError reports an index entry whose position is no
// longer structurally witnessed (it was forgotten but the index wasn't
// updated).
type UnwitnessedCommitmentError struct {
	Commitment Commitment
	Position   Position
}

func (e *UnwitnessedCommitmentError) Error() string {
	return fmt.Sprintf("tct: commitment %x indexed at position %d is no longer witnessed", e.Commitment, e.Position)
}

// InvalidProofError reports a witnessed commitment whose auth path does not
// recompute to the tree's root.
type InvalidProofError struct {
	Position Position
}

func (e *InvalidProofError) Error() string {
	return fmt.Sprintf("tct: position %d produces an invalid proof", e.Position)
}

// CachedHashError reports a cached node hash that disagrees with the hash
// recomputed from that node's children.
type CachedHashError struct {
	Height   Height
	Position Position
	Cached   Hash
	Actual   Hash
}

func (e *CachedHashError) Error() string {
	return fmt.Sprintf("tct: cached hash at height %d position %d is stale: cached %x, actual %x", e.Height, e.Position, e.Cached, e.Actual)
}

// ForgottenError reports a forgotten counter that violates monotonicity:
// it must never decrease, and a hashed-away child must have a strictly
// greater forgotten count than it had while still materialized.
type ForgottenError struct {
	Height   Height
	Position Position
	Reason   string
}

func (e *ForgottenError) Error() string {
	return fmt.Sprintf("tct: forgotten-counter error at height %d position %d: %s", e.Height, e.Position, e.Reason)
}
