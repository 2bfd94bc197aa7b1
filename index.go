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

// index maintains the commitment-to-position mapping a Tree needs to
// answer Witness/Forget by commitment instead of by position. It is kept
// as its own small type, rather than a bare map on Tree, so that the four
// structural validators (validate.go) can exercise it independently of
// the tree's node structure.
type index struct {
	byCommitment map[Commitment]Position
}

func newIndex() *index {
	return &index{byCommitment: make(map[Commitment]Position)}
}

func (x *index) insert(c Commitment, p Position) {
	x.byCommitment[c] = p
}

func (x *index) lookup(c Commitment) (Position, bool) {
	p, ok := x.byCommitment[c]
	return p, ok
}

func (x *index) remove(c Commitment) {
	delete(x.byCommitment, c)
}

func (x *index) len() int {
	return len(x.byCommitment)
}

func (x *index) each(f func(Commitment, Position)) {
	for c, p := range x.byCommitment {
		f(c, p)
	}
}
