// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package fdtutil parses the machine devicetree blob for the gpio pin map
// and the per-device monitor configuration.
package fdtutil

import (
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/platinasystems/fdt"
	"github.com/platinasystems/gpio"
)

func LoadTree(file string) (*fdt.Tree, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", file, err)
	}
	t := &fdt.Tree{Debug: false, IsLittleEndian: false}
	if err = t.Parse(b); err != nil {
		return nil, fmt.Errorf("%s: %v", file, err)
	}
	return t, nil
}

// Build map of gpio aliases for this machine
func GatherAliases(n *fdt.Node) {
	for p, pn := range n.Properties {
		if strings.Contains(p, "gpio") {
			val := strings.Split(string(pn), "\x00")
			v := strings.Split(val[0], "/")
			gpio.Aliases[p] = v[len(v)-1]
		}
	}
}

// Build map of gpio pins for this gpio controller
func GatherPins(n *fdt.Node, name string, value string) {
	var pn []string
	var mode string

	buildPinMap := func(name, mode, bank, index string) {
		i, _ := strconv.Atoi(index)
		gpio.Pins[name] = gpio.GpioPinMode[mode] |
			gpio.GpioBankToBase[bank] |
			gpio.Pin(i)
	}

	for na, al := range gpio.Aliases {
		if al == n.Name {
			for _, c := range n.Children {
				for p, _ := range c.Properties {
					switch p {
					case "gpio-pin-desc":
						pn = strings.Split(c.Name, "@")
					case "output-high", "output-low", "input":
						mode = p
					}
				}
				if mode != "" {
					buildPinMap(pn[0], mode, na, pn[1])
				}
				mode = ""
			}
		}
	}
}

// PropU32 returns the named u32 cell of a node, or def when the property
// is absent or malformed.
func PropU32(n *fdt.Node, name string, def uint32) uint32 {
	p, found := n.Properties[name]
	if !found || len(p) < 4 {
		return def
	}
	return binary.BigEndian.Uint32(p)
}

// NodeU32 returns the named u32 cell of the named node, or def when
// either is absent.
func NodeU32(t *fdt.Tree, node, name string, def uint32) uint32 {
	v := def
	if t == nil {
		return v
	}
	t.MatchNode(node, func(n *fdt.Node) {
		v = PropU32(n, name, def)
	})
	return v
}
