// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ina237d

import "testing"

func TestDivRoundClosest(t *testing.T) {
	for _, x := range []struct{ n, d, want int }{
		{0, 1000, 0},
		{499, 1000, 0},
		{500, 1000, 1},
		{-499, 1000, 0},
		{-500, 1000, -1},
		{5, 2, 3},
		{-5, 2, -3},
		{399672, 1000, 400},
	} {
		if got := divRoundClosest(x.n, x.d); got != x.want {
			t.Error("divRoundClosest", x.n, x.d, "got", got,
				"want", x.want)
		}
	}
}

func TestTwosComp16(t *testing.T) {
	for _, x := range []struct {
		raw  uint16
		want int
	}{
		{0x0000, 0},
		{0x0001, 1},
		{0x7fff, 32767},
		{0x8000, -32768},
		{0xffff, -1},
	} {
		if got := twosComp16(x.raw); got != x.want {
			t.Error("twosComp16", x.raw, "got", got, "want", x.want)
		}
	}
}

func TestShuntCal(t *testing.T) {
	lsb := currentLsbUa(defaultMaxCurrentUa)
	if lsb != 488 {
		t.Error("current lsb for 16A full scale:", lsb)
	}
	if cal := shuntCalReg(defaultShuntUohms, lsb); cal != 800 {
		t.Error("shunt cal for 2000 uohm, 16A:", cal)
	}
}

func TestBusMillivolts(t *testing.T) {
	if v := busMillivolts(0x1000); v != 12800 {
		t.Error("vbus 0x1000:", v)
	}
	if v := busMillivolts(0xf000); v != -12800 {
		t.Error("vbus 0xf000:", v)
	}
	if v := busMillivolts(0); v != 0 {
		t.Error("vbus 0:", v)
	}
}

func TestShuntMicrovolts(t *testing.T) {
	if v := shuntLsbNv(0); v != 5000 {
		t.Error("shunt lsb, adcrange 0:", v)
	}
	if v := shuntLsbNv(adcRangeBit); v != 1250 {
		t.Error("shunt lsb, adcrange 1:", v)
	}
	if v := shuntMicrovolts(100, 0); v != 500 {
		t.Error("vshunt 100, adcrange 0:", v)
	}
	if v := shuntMicrovolts(100, adcRangeBit); v != 125 {
		t.Error("vshunt 100, adcrange 1:", v)
	}
}

func TestCurrentMilliamps(t *testing.T) {
	if v := currentMilliamps(1000, 488); v != 488 {
		t.Error("current 1000 counts:", v)
	}
	if v := currentMilliamps(0xfc18, 488); v != -488 {
		t.Error("current -1000 counts:", v)
	}
}

func TestPowerWatts(t *testing.T) {
	if v := powerWatts(0, 488); v != 0 {
		t.Error("power 0:", v)
	}
	// power lsb is 98 uW at 16A full scale
	if v := powerWatts(1000000, 488); v != 98 {
		t.Error("power 1000000 counts:", v)
	}
}

func TestLimitRoundTrip(t *testing.T) {
	reg := busLimitReg(12000)
	if reg != 3840 {
		t.Error("bovl reg for 12000 mV:", reg)
	}
	if v := busLimitMillivolts(reg); v != 12000 {
		t.Error("bovl round trip:", v)
	}

	preg := powerLimitReg(100, 488)
	if v := powerLimitWatts(preg, 488); v != 100 {
		t.Error("power limit round trip:", v)
	}
}

func TestDieTemp(t *testing.T) {
	if v := dieTempMillidegrees(0x0010); v != 125 {
		t.Error("dietemp 0x0010:", v)
	}
	if v := dieTempMillidegrees(0xffff); v != 511875 {
		t.Error("dietemp 0xffff:", v)
	}
	if v := dieTempMillidegrees(0x000f); v != 0 {
		t.Error("dietemp sub-lsb bits:", v)
	}
}
