// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package fdtutil

import (
	"testing"

	"github.com/platinasystems/fdt"
)

func TestPropU32(t *testing.T) {
	n := &fdt.Node{
		Name: "ina237@40",
		Properties: map[string][]byte{
			"shunt-resistor-uohms":  []byte{0x00, 0x00, 0x07, 0xd0},
			"max-expect-current-ua": []byte{0x00, 0xf4, 0x24, 0x00},
			"runt":                  []byte{0x01},
		},
	}
	if v := PropU32(n, "shunt-resistor-uohms", 1); v != 2000 {
		t.Error("shunt-resistor-uohms:", v)
	}
	if v := PropU32(n, "max-expect-current-ua", 1); v != 16000000 {
		t.Error("max-expect-current-ua:", v)
	}
	if v := PropU32(n, "missing", 42); v != 42 {
		t.Error("default for missing property:", v)
	}
	if v := PropU32(n, "runt", 42); v != 42 {
		t.Error("default for runt property:", v)
	}
}
