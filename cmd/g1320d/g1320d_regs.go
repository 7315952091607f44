// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package g1320d

type reg8 byte
type reg8b byte
type reg16r [2]byte

// Memory map
// offsets are 16-bit to accomodate the mixed 8-bit 16-bit accesses
// the offset function has a divide by two to restore to proper address
type regs struct {
	_        [0x20 * 2]byte
	VoutMode reg8 // 0x20
	_        byte
	_        [0x6a * 2]byte
	Vout     reg16r // 0x8b
	Iout     reg16r // 0x8c
	Temp1    reg16r // 0x8d
	_        [0x02 * 2]byte
	FanSpeed reg16r // 0x90
	_        [0x05 * 2]byte
	Pout     reg16r // 0x96
	_        [0x02 * 2]byte
	MfgId    reg8b // 0x99
	_        byte
}
