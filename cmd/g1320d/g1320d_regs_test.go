// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package g1320d

import "testing"

func TestRegOffsets(t *testing.T) {
	r := getRegs()
	for _, x := range []struct {
		name string
		got  uint8
		want uint8
	}{
		{"VoutMode", r.VoutMode.offset(), 0x20},
		{"Vout", r.Vout.offset(), 0x8b},
		{"Iout", r.Iout.offset(), 0x8c},
		{"Temp1", r.Temp1.offset(), 0x8d},
		{"FanSpeed", r.FanSpeed.offset(), 0x90},
		{"Pout", r.Pout.offset(), 0x96},
		{"MfgId", r.MfgId.offset(), 0x99},
	} {
		if x.got != x.want {
			t.Errorf("%s offset 0x%02x, want 0x%02x",
				x.name, x.got, x.want)
		}
	}
}
