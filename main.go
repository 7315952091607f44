// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the mon1 baseboard management controller.
package main

import (
	"fmt"
	"os"

	"github.com/platinasystems/goes"
	"github.com/platinasystems/goes/cmd"
	"github.com/platinasystems/goes/cmd/bang"
	"github.com/platinasystems/goes/cmd/cat"
	"github.com/platinasystems/goes/cmd/cd"
	"github.com/platinasystems/goes/cmd/cli"
	"github.com/platinasystems/goes/cmd/daemons"
	"github.com/platinasystems/goes/cmd/echo"
	"github.com/platinasystems/goes/cmd/env"
	"github.com/platinasystems/goes/cmd/exit"
	"github.com/platinasystems/goes/cmd/export"
	"github.com/platinasystems/goes/cmd/function"
	"github.com/platinasystems/goes/cmd/install"
	"github.com/platinasystems/goes/cmd/kill"
	"github.com/platinasystems/goes/cmd/ln"
	"github.com/platinasystems/goes/cmd/ls"
	"github.com/platinasystems/goes/cmd/mkdir"
	"github.com/platinasystems/goes/cmd/mount"
	"github.com/platinasystems/goes/cmd/ping"
	"github.com/platinasystems/goes/cmd/pwd"
	"github.com/platinasystems/goes/cmd/reboot"
	"github.com/platinasystems/goes/cmd/redisd"
	"github.com/platinasystems/goes/cmd/reload"
	"github.com/platinasystems/goes/cmd/rm"
	"github.com/platinasystems/goes/cmd/sleep"
	"github.com/platinasystems/goes/cmd/start"
	"github.com/platinasystems/goes/cmd/stop"
	"github.com/platinasystems/goes/cmd/umount"
	"github.com/platinasystems/goes/cmd/uptime"
	"github.com/platinasystems/goes/cmd/version"
	"github.com/platinasystems/goes/lang"

	"github.com/platinasystems/goes-mon1-bmc/cmd/g1320d"
	"github.com/platinasystems/goes-mon1-bmc/cmd/ina237d"
)

var Goes = &goes.Goes{
	NAME: "goes-mon1-bmc",
	APROPOS: lang.Alt{
		lang.EnUS: "mon1 baseboard management controller",
	},
	ByName: map[string]cmd.Cmd{
		"!":        bang.Command{},
		"cat":      cat.Command{},
		"cd":       &cd.Command{},
		"cli":      &cli.Command{},
		"echo":     echo.Command{},
		"env":      &env.Command{},
		"exit":     exit.Command{},
		"export":   export.Command{},
		"function": function.Command{},
		"g1320d": &g1320d.Command{
			Init: g1320dInit,
			Gpio: gpioInit,
		},
		"goes-daemons": &daemons.Server{
			Init: [][]string{
				[]string{"redisd"},
				[]string{"g1320d"},
				[]string{"ina237d"},
			},
		},
		"ina237d": &ina237d.Command{
			Init: ina237dInit,
		},
		"install": &install.Command{},
		"kill":    kill.Command{},
		"ln":      ln.Command{},
		"ls":      ls.Command{},
		"mkdir":   mkdir.Command{},
		"mount":   mount.Command{},
		"ping":    ping.Command{},
		"pwd":     pwd.Command{},
		"reboot":  &reboot.Command{},
		"redisd": &redisd.Command{
			Devs:    []string{"lo", "eth0"},
			Machine: "mon1-bmc",
		},
		"reload": reload.Command{},
		"rm":     rm.Command{},
		"sleep":  sleep.Command{},
		"start": &start.Command{
			ConfGpioHook: confGpioHook,
		},
		"stop":    &stop.Command{},
		"umount":  umount.Command{},
		"uptime":  uptime.Command{},
		"version": &version.Command{},
	},
}

func main() {
	if err := Goes.Main(os.Args...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
