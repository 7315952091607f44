// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ina237d

import "testing"

func TestRegOffsets(t *testing.T) {
	r := getRegs()
	for _, x := range []struct {
		name string
		got  uint8
		want uint8
	}{
		{"Config", r.Config.offset(), 0x00},
		{"AdcConfig", r.AdcConfig.offset(), 0x01},
		{"ShuntCal", r.ShuntCal.offset(), 0x02},
		{"Vshunt", r.Vshunt.offset(), 0x04},
		{"Vbus", r.Vbus.offset(), 0x05},
		{"DieTemp", r.DieTemp.offset(), 0x06},
		{"Current", r.Current.offset(), 0x07},
		{"Power", r.Power.offset(), 0x08},
		{"DiagAlrt", r.DiagAlrt.offset(), 0x0b},
		{"Sovl", r.Sovl.offset(), 0x0c},
		{"Suvl", r.Suvl.offset(), 0x0d},
		{"Bovl", r.Bovl.offset(), 0x0e},
		{"Buvl", r.Buvl.offset(), 0x0f},
		{"TempLimit", r.TempLimit.offset(), 0x10},
		{"PwrLimit", r.PwrLimit.offset(), 0x11},
		{"MfrId", r.MfrId.offset(), 0x3e},
		{"DeviceId", r.DeviceId.offset(), 0x3f},
	} {
		if x.got != x.want {
			t.Errorf("%s offset 0x%02x, want 0x%02x",
				x.name, x.got, x.want)
		}
	}
}
