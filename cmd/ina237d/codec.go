// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ina237d

const (
	defaultShuntUohms   = 2000
	defaultMaxCurrentUa = 16 * 1000 * 1000
	currentLsbDivisor   = 32768 // 2^15

	// CONFIG ADCRANGE bit selects the shunt full-scale range
	adcRangeBit = 0x08
)

// divRoundClosest divides rounding half away from zero. d must be
// positive.
func divRoundClosest(n, d int) int {
	if n >= 0 {
		return (n + d/2) / d
	}
	return (n - d/2) / d
}

func twosComp16(raw uint16) int {
	v := int(raw & 0x7fff)
	if raw&0x8000 != 0 {
		v -= 32768
	}
	return v
}

// shuntLsbNv is the shunt voltage lsb in nanovolts for the given
// CONFIG register value.
func shuntLsbNv(config uint16) int {
	if config&adcRangeBit == 0 {
		return 5000
	}
	return 1250
}

// currentLsbUa derives the current lsb in microamps from the expected
// full-scale current.
func currentLsbUa(maxExpectCurrentUa int) int {
	return divRoundClosest(maxExpectCurrentUa, currentLsbDivisor)
}

func busMillivolts(raw uint16) int {
	return divRoundClosest(twosComp16(raw)*3125, 1000)
}

func shuntMicrovolts(raw uint16, config uint16) int {
	return divRoundClosest(twosComp16(raw)*shuntLsbNv(config), 1000)
}

func currentMilliamps(raw uint16, lsbUa int) int {
	return divRoundClosest(twosComp16(raw)*lsbUa, 1000)
}

// powerWatts converts the 24-bit POWER register. The register is
// unsigned, power lsb is 200/1000 of the current lsb.
func powerWatts(raw uint32, lsbUa int) int {
	plsb := divRoundClosest(lsbUa*200, 1000)
	return divRoundClosest(int(raw)*plsb, 1000*1000)
}

// the PWR_LIMIT register counts in units of 256 power lsbs
func powerLimitLsb(lsbUa int) int {
	return divRoundClosest(256*200*lsbUa, 1000)
}

func powerLimitWatts(raw uint16, lsbUa int) int {
	return divRoundClosest(int(raw)*powerLimitLsb(lsbUa), 1000*1000)
}

func powerLimitReg(watts, lsbUa int) uint16 {
	return uint16(divRoundClosest(watts*1000*1000, powerLimitLsb(lsbUa)))
}

// BOVL and BUVL count in bus voltage lsbs of 3.125 mV
func busLimitReg(millivolts int) uint16 {
	return uint16(divRoundClosest(millivolts*1000, 3125))
}

func busLimitMillivolts(raw uint16) int {
	return busMillivolts(raw)
}

// dieTempMillidegrees converts the 12-bit DIETEMP field, 125 m°C per
// count, truncating like the chip does.
func dieTempMillidegrees(raw uint16) int {
	return int(raw>>4) * 125
}

// shuntCalReg computes the SHUNT_CAL value, 819.2e6 scaled into two
// rounded integer steps.
func shuntCalReg(shuntUohms, lsbUa int) uint16 {
	tmp := divRoundClosest(lsbUa*819, 1000)
	return uint16(divRoundClosest(tmp*shuntUohms, 1000))
}
