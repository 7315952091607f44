// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ina237d

type reg16 [2]byte
type reg24 [3]byte

// Memory map
// offsets are 16-bit, the offset function has a divide by two to
// restore to proper address
type regs struct {
	Config    reg16 // 0x00
	AdcConfig reg16 // 0x01
	ShuntCal  reg16 // 0x02
	_         [0x01 * 2]byte
	Vshunt    reg16 // 0x04
	Vbus      reg16 // 0x05
	DieTemp   reg16 // 0x06
	Current   reg16 // 0x07
	Power     reg24 // 0x08, 24-bit block read
	_         [3]byte
	DiagAlrt  reg16 // 0x0b
	Sovl      reg16 // 0x0c
	Suvl      reg16 // 0x0d
	Bovl      reg16 // 0x0e
	Buvl      reg16 // 0x0f
	TempLimit reg16 // 0x10
	PwrLimit  reg16 // 0x11
	_         [0x2c * 2]byte
	MfrId     reg16 // 0x3e
	DeviceId  reg16 // 0x3f
}
