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

import "testing"

func TestPositionFields(t *testing.T) {
	cases := []struct {
		pos          Position
		epoch, block uint16
		index        uint16
	}{
		{0, 0, 0, 0},
		{1, 0, 0, 1},
		{0x10000, 0, 1, 0},
		{0x100000000, 1, 0, 0},
		{0x1_0002_0003, 1, 2, 3},
	}
	for _, c := range cases {
		if got := c.pos.Epoch(); got != c.epoch {
			t.Errorf("Position(%#x).Epoch() = %d, want %d", uint64(c.pos), got, c.epoch)
		}
		if got := c.pos.Block(); got != c.block {
			t.Errorf("Position(%#x).Block() = %d, want %d", uint64(c.pos), got, c.block)
		}
		if got := c.pos.Index(); got != c.index {
			t.Errorf("Position(%#x).Index() = %d, want %d", uint64(c.pos), got, c.index)
		}
	}
}

func TestPositionDigits(t *testing.T) {
	pos := Position(0b11_10_01_00)
	if d := pos.digit(1); d != 0b00 {
		t.Errorf("digit(1) = %b, want 00", d)
	}
	if d := pos.digit(2); d != 0b01 {
		t.Errorf("digit(2) = %b, want 01", d)
	}
	if d := pos.digit(3); d != 0b10 {
		t.Errorf("digit(3) = %b, want 10", d)
	}
	if d := pos.digit(4); d != 0b11 {
		t.Errorf("digit(4) = %b, want 11", d)
	}
}

func TestPositionFull(t *testing.T) {
	if Position(0).Full() {
		t.Fatal("position 0 must not be Full")
	}
	if !Position(Capacity - 1).Full() {
		t.Fatal("the last valid position must be Full")
	}
}

func TestEndOfBlockAndEpoch(t *testing.T) {
	if got, want := endOfBlock(Position(5)), Position(0x10000); got != want {
		t.Errorf("endOfBlock(5) = %#x, want %#x", uint64(got), uint64(want))
	}
	if got, want := endOfEpoch(Position(5)), Position(0x100000000); got != want {
		t.Errorf("endOfEpoch(5) = %#x, want %#x", uint64(got), uint64(want))
	}
}
