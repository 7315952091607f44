// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package g1320d

const (
	ldfExpBits  = 5
	ldfMantBits = 11
	ldfMantMask = 1<<ldfMantBits - 1
)

// twosComplement sign extends a field of bitlen bits.
func twosComplement(v uint32, bitlen uint) int {
	if v&(1<<(bitlen-1)) != 0 {
		return int(v) - 1<<bitlen
	}
	return int(v)
}

// ldfSplit separates a linear-data-format word into its 11-bit mantissa
// and 5-bit exponent, both two's complement.
func ldfSplit(raw uint16) (mant, exp int) {
	mant = twosComplement(uint32(raw)&ldfMantMask, ldfMantBits)
	exp = twosComplement(uint32(raw)>>ldfMantBits, ldfExpBits)
	return
}

// ldfDecode converts a linear-data-format word to an integer reading,
// mantissa * 2^exponent. Current readings are scaled by 1000 before the
// power-of-two divide so milliamp precision survives; other kinds keep
// the chip's native unit and truncate.
func ldfDecode(raw uint16, current bool) int {
	mant, exp := ldfSplit(raw)
	if current {
		mant *= 1000
	}
	if exp < 0 {
		return mant / (1 << uint(-exp))
	}
	return mant * (1 << uint(exp))
}
