// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package g1320d

import "testing"

func TestTwosComplement(t *testing.T) {
	for _, x := range []struct {
		v      uint32
		bitlen uint
		want   int
	}{
		{0, 5, 0},
		{0xf, 5, 15},
		{0x10, 5, -16},
		{0x1f, 5, -1},
		{0x1d, 5, -3},
		{0x3ff, 11, 1023},
		{0x400, 11, -1024},
		{0x7ff, 11, -1},
	} {
		if got := twosComplement(x.v, x.bitlen); got != x.want {
			t.Error("twosComplement", x.v, x.bitlen, "got", got,
				"want", x.want)
		}
	}
}

func TestLdfSplit(t *testing.T) {
	for i := 0; i < 1<<16; i++ {
		raw := uint16(i)
		mant, exp := ldfSplit(raw)
		if mant < -1024 || mant > 1023 {
			t.Fatal("mantissa out of range for", raw, ":", mant)
		}
		if exp < -16 || exp > 15 {
			t.Fatal("exponent out of range for", raw, ":", exp)
		}
		back := uint16(exp&0x1f)<<11 | uint16(mant&0x7ff)
		if back != raw {
			t.Fatal("split of", raw, "recomposed to", back)
		}
	}
}

func TestLdfDecode(t *testing.T) {
	for _, x := range []struct {
		raw     uint16
		current bool
		want    int
	}{
		{0x0000, false, 0},
		{0x0000, true, 0},
		// exp -3, mant 4
		{0xe804, true, 500},
		{0xe804, false, 0},
		// exp 2, mant 100
		{0x1064, false, 400},
		{0x1064, true, 400000},
		// exp 0, mant -1
		{0x07ff, false, -1},
		{0x07ff, true, -1000},
		// exp -1, mant -2
		{0xfffe, true, -1000},
		// exp 5, mant 300: fan rpm style reading
		{0x292c, false, 9600},
	} {
		if got := ldfDecode(x.raw, x.current); got != x.want {
			t.Error("ldfDecode", x.raw, x.current, "got", got,
				"want", x.want)
		}
	}
}
