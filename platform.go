// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package main

import (
	"fmt"
	"strconv"

	"github.com/platinasystems/goes/external/log"
	"github.com/platinasystems/gpio"

	"github.com/platinasystems/goes-mon1-bmc/cmd/g1320d"
	"github.com/platinasystems/goes-mon1-bmc/cmd/ina237d"
	"github.com/platinasystems/goes-mon1-bmc/internal/fdtutil"
)

const dtbFile = "/boot/mon1-bmc.dtb"

func confGpioHook() error {
	gpio.Aliases = make(gpio.GpioAliasMap)
	gpio.Pins = make(gpio.PinMap)
	t, err := fdtutil.LoadTree(dtbFile)
	if err != nil {
		return err
	}
	t.MatchNode("aliases", fdtutil.GatherAliases)
	t.EachProperty("gpio-controller", "", fdtutil.GatherPins)
	for name, pin := range gpio.Pins {
		if err := pin.SetDirection(); err != nil {
			fmt.Printf("%s: %v\n", name, err)
		}
	}
	// release the psu i2c mux from reset
	if pin, found := gpio.Pins["I2C_MUX_RST_L"]; found {
		pin.SetValue(true)
	}
	return nil
}

func gpioInit() {
	if len(gpio.Pins) > 0 {
		return
	}
	if err := confGpioHook(); err != nil {
		log.Print("gpio: ", err)
	}
}

func g1320dInit() {
	g1320d.Vdev[0].Slot = 1
	g1320d.Vdev[0].Bus = 1
	g1320d.Vdev[0].Addr = 0x58
	g1320d.Vdev[0].MuxBus = 1
	g1320d.Vdev[0].MuxAddr = 0x72
	g1320d.Vdev[0].MuxValue = 0x01
	g1320d.Vdev[0].GpioPwrok = "PSU0_PWROK"
	g1320d.Vdev[0].GpioPrsntL = "PSU0_PRSNT_L"
	g1320d.Vdev[0].GpioPwronL = "PSU0_PWRON_L"

	g1320d.Vdev[1].Slot = 2
	g1320d.Vdev[1].Bus = 1
	g1320d.Vdev[1].Addr = 0x58
	g1320d.Vdev[1].MuxBus = 1
	g1320d.Vdev[1].MuxAddr = 0x72
	g1320d.Vdev[1].MuxValue = 0x02
	g1320d.Vdev[1].GpioPwrok = "PSU1_PWROK"
	g1320d.Vdev[1].GpioPrsntL = "PSU1_PRSNT_L"
	g1320d.Vdev[1].GpioPwronL = "PSU1_PWRON_L"

	t, err := fdtutil.LoadTree(dtbFile)
	if err != nil {
		log.Print("warning: ", err)
	}
	// the devicetree may renumber the published supply, default is
	// the slot number
	g1320d.Vdev[0].Unit = int(fdtutil.NodeU32(t, "psu@1", "g1320,unit",
		uint32(g1320d.Vdev[0].Slot)))
	g1320d.Vdev[1].Unit = int(fdtutil.NodeU32(t, "psu@2", "g1320,unit",
		uint32(g1320d.Vdev[1].Slot)))

	g1320d.VpageByKey = make(map[string]uint8)
	for i := range g1320d.Vdev {
		p := "psu" + strconv.Itoa(g1320d.Vdev[i].Unit)
		for _, f := range []string{
			"status",
			"admin.state",
			"present",
			"mfg_id",
			"v_out.units.V",
			"i_out.units.mA",
			"p_out.units.W",
			"temp1.units.C",
			"fan_speed.units.rpm",
		} {
			g1320d.VpageByKey[p+"."+f] = uint8(i)
		}
		g1320d.WrRegDv[p] = p
		g1320d.WrRegFn[p+".admin.state"] = "admin.state"
		g1320d.WrRegRng[p+".admin.state"] = []string{"enable", "disable"}
	}
	g1320d.WrRegDv["psu"] = "psu"
	g1320d.WrRegFn["psu.powercycle"] = "powercycle"
	g1320d.WrRegRng["psu.powercycle"] = []string{"true"}
}

func ina237dInit() {
	ina237d.Vdev[0].Slot = 1
	ina237d.Vdev[0].Unit = 1
	ina237d.Vdev[0].Bus = 0
	ina237d.Vdev[0].Addr = 0x40

	ina237d.Vdev[1].Slot = 2
	ina237d.Vdev[1].Unit = 2
	ina237d.Vdev[1].Bus = 0
	ina237d.Vdev[1].Addr = 0x41

	t, err := fdtutil.LoadTree(dtbFile)
	if err != nil {
		log.Print("warning: ", err)
	}
	for i := range ina237d.Vdev {
		node := "ina237@4" + strconv.Itoa(i)
		ina237d.Vdev[i].ShuntResistorUohms = int(fdtutil.NodeU32(t,
			node, "shunt-resistor-uohms", 2000))
		ina237d.Vdev[i].MaxExpectCurrentUa = int(fdtutil.NodeU32(t,
			node, "max-expect-current-ua", 16000000))
	}

	ina237d.VpageByKey = make(map[string]uint8)
	for i := range ina237d.Vdev {
		p := "rail" + strconv.Itoa(ina237d.Vdev[i].Unit)
		for _, f := range []string{
			"mfr_id",
			"device_id",
			"v_bus.units.mV",
			"v_bus.max.units.mV",
			"v_bus.min.units.mV",
			"v_shunt.units.uV",
			"v_shunt.max.units.uV",
			"v_shunt.min.units.uV",
			"shunt_resistor.units.uohms",
			"current.units.mA",
			"power.units.W",
			"power.max.units.W",
			"temp.units.mC",
		} {
			ina237d.VpageByKey[p+"."+f] = uint8(i)
		}
		ina237d.WrRegDv[p] = p
		ina237d.WrRegFn[p+".v_bus.max.units.mV"] = "v_bus.max"
		ina237d.WrRegFn[p+".v_bus.min.units.mV"] = "v_bus.min"
		ina237d.WrRegFn[p+".power.max.units.W"] = "power.max"
		// bus limits count in 3.125 mV steps of a signed 16-bit reg
		ina237d.WrRegRng[p+".v_bus.max.units.mV"] = []string{"0", "102396"}
		ina237d.WrRegRng[p+".v_bus.min.units.mV"] = []string{"0", "102396"}
	}
}
