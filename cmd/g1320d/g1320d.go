// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package g1320d provides access to the G1320 power supply units

package g1320d

import (
	"fmt"
	"net/rpc"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/platinasystems/goes/cmd"
	"github.com/platinasystems/goes/external/atsock"
	"github.com/platinasystems/goes/external/log"
	"github.com/platinasystems/goes/external/redis"
	"github.com/platinasystems/goes/external/redis/publisher"
	"github.com/platinasystems/goes/external/redis/rpc/args"
	"github.com/platinasystems/goes/external/redis/rpc/reply"
	"github.com/platinasystems/goes/lang"
	"github.com/platinasystems/gpio"
)

var (
	Vdev [2]I2cDev

	VpageByKey map[string]uint8

	WrRegDv  = make(map[string]string)
	WrRegFn  = make(map[string]string)
	WrRegVal = make(map[string]string)
	WrRegRng = make(map[string][]string)

	command *Command
)

// the supply reports linear-mode vout with this VOUT_MODE value
const voutModeLinear = 0x17

type Command struct {
	Info
	Init func()
	init sync.Once
	Gpio func()
	gpio sync.Once
}

type Info struct {
	mutex sync.Mutex
	rpc   *atsock.RpcServer
	pub   *publisher.Publisher
	stop  chan struct{}
	lasti map[string]int
	lasts map[string]string
}

type I2cDev struct {
	Slot       int
	Unit       int
	Installed  int
	Bus        int
	Addr       int
	MuxBus     int
	MuxAddr    int
	MuxValue   int
	GpioPwrok  string
	GpioPrsntL string
	GpioPwronL string
	Update     bool
	Delete     bool
}

func (*Command) String() string { return "g1320d" }

func (*Command) Usage() string { return "g1320d" }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "g1320 power supply daemon, publishes to redis",
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func (c *Command) Main(...string) error {
	var si syscall.Sysinfo_t

	command = c
	c.init.Do(c.Init)

	err := redis.IsReady()
	if err != nil {
		return err
	}

	c.stop = make(chan struct{})
	c.lasti = make(map[string]int)
	c.lasts = make(map[string]string)

	if c.pub, err = publisher.New(); err != nil {
		return err
	}

	if err = syscall.Sysinfo(&si); err != nil {
		return err
	}

	if c.rpc, err = atsock.NewRpcServer("g1320d"); err != nil {
		return err
	}

	rpc.Register(&c.Info)
	for _, v := range WrRegDv {
		err = redis.Assign(redis.DefaultHash+":"+v+".", "g1320d", "Info")
		if err != nil {
			return err
		}
	}

	holdOff := 3
	t := time.NewTicker(1 * time.Second)
	tm := time.NewTicker(5 * time.Second)
	for {
		select {
		case <-c.stop:
			return nil
		case <-t.C:
			if holdOff == 0 {
				if err = c.update(); err != nil {
					holdOff = 5
				}
			}
		case <-tm.C:
			if holdOff > 0 {
				holdOff--
			}
			if holdOff == 0 {
				if err = c.updateMon(); err != nil {
					holdOff = 5
				}
			}
		}
	}
}

func (c *Command) Close() error {
	close(c.stop)
	return nil
}

func (c *Command) update() error {
	if err := writeRegs(); err != nil {
		return err
	}

	for k, i := range VpageByKey {
		if strings.Contains(k, "status") {
			v := Vdev[i].PsuStatus()
			if v != c.lasts[k] {
				c.pub.Print(k, ": ", v)
				c.lasts[k] = v
			}
		}
		if strings.Contains(k, "admin.state") {
			v := Vdev[i].GetAdminState()
			if v != c.lasts[k] {
				c.pub.Print(k, ": ", v)
				c.lasts[k] = v
			}
		}
		if strings.Contains(k, "present") {
			v := "false"
			if p, err := Vdev[i].Present(); err == nil && p {
				v = "true"
			}
			if v != c.lasts[k] {
				c.pub.Print(k, ": ", v)
				c.lasts[k] = v
			}
		}
		if Vdev[i].Installed == 1 && Vdev[i].Update {
			if strings.Contains(k, "mfg_id") {
				v, err := Vdev[i].MfgIdent()
				if err != nil {
					return err
				}
				if v != c.lasts[k] {
					c.pub.Print(k, ": ", v)
					c.lasts[k] = v
				}
				Vdev[i].Update = false
			}
		}
		if Vdev[i].Delete {
			p := "psu" + strconv.Itoa(Vdev[i].Unit)
			for _, f := range []string{
				".mfg_id",
				".v_out.units.V",
				".i_out.units.mA",
				".p_out.units.W",
				".temp1.units.C",
				".fan_speed.units.rpm",
			} {
				c.pub.Print("delete: ", p+f)
				c.lasts[p+f] = ""
				delete(c.lasti, p+f)
			}
			Vdev[i].Delete = false
		}
	}
	return nil
}

func (c *Command) updateMon() error {
	if err := writeRegs(); err != nil {
		return err
	}

	for k, i := range VpageByKey {
		if Vdev[i].Installed == 0 {
			continue
		}
		if strings.Contains(k, "v_out") {
			v, err := Vdev[i].VoutVolts()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "i_out") {
			v, err := Vdev[i].IoutMilliamps()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "p_out") {
			v, err := Vdev[i].PoutWatts()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "temp1") {
			v, err := Vdev[i].Temp1Celsius()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "fan_speed.units.rpm") {
			v, err := Vdev[i].FanSpeedRpm()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
	}
	return nil
}

// Present probes VOUT_MODE; the supply answers with the linear-mode
// byte when installed and powered.
func (h *I2cDev) Present() (bool, error) {
	r := getRegs()
	t, err := r.VoutMode.get(h)
	if err != nil {
		return false, err
	}
	return t == voutModeLinear, nil
}

func (h *I2cDev) VoutVolts() (int, error) {
	r := getRegs()
	t, err := r.Vout.get(h)
	if err != nil {
		return 0, err
	}
	return int(t) / 512, nil
}

func (h *I2cDev) IoutMilliamps() (int, error) {
	r := getRegs()
	t, err := r.Iout.get(h)
	if err != nil {
		return 0, err
	}
	return ldfDecode(t, true), nil
}

func (h *I2cDev) PoutWatts() (int, error) {
	r := getRegs()
	t, err := r.Pout.get(h)
	if err != nil {
		return 0, err
	}
	return ldfDecode(t, false), nil
}

func (h *I2cDev) Temp1Celsius() (int, error) {
	r := getRegs()
	t, err := r.Temp1.get(h)
	if err != nil {
		return 0, err
	}
	return ldfDecode(t, false), nil
}

func (h *I2cDev) FanSpeedRpm() (int, error) {
	r := getRegs()
	t, err := r.FanSpeed.get(h)
	if err != nil {
		return 0, err
	}
	return ldfDecode(t, false), nil
}

func (h *I2cDev) MfgIdent() (string, error) {
	r := getRegs()
	t, err := r.MfgId.get(h)
	if err != nil {
		return "error", err
	}
	if t == "" {
		t = "unknown"
	}
	return t, nil
}

func (h *I2cDev) PsuStatus() string {
	command.gpio.Do(command.Gpio)
	pin, found := gpio.Pins[h.GpioPrsntL]
	if !found {
		// no presence pin on this board, probe the device
		p, err := h.Present()
		if err != nil || !p {
			if h.Installed == 1 {
				h.Delete = true
			}
			h.Installed = 0
			return "not_installed"
		}
	} else {
		t, err := pin.Value()
		if err != nil {
			h.Installed = 0
			return err.Error()
		} else if t {
			if h.Installed == 1 {
				h.Delete = true
			}
			h.Installed = 0
			return "not_installed"
		}
	}
	if h.Installed == 0 {
		h.Update = true
	}
	h.Installed = 1
	pin, found = gpio.Pins[h.GpioPwrok]
	if !found {
		return "undetermined"
	}
	t, err := pin.Value()
	if err != nil {
		return err.Error()
	}
	if !t {
		return "powered_off"
	}
	return "powered_on"
}

func (h *I2cDev) SetAdminState(s string) {
	pin, found := gpio.Pins[h.GpioPwronL]
	if found {
		switch s {
		case "disable":
			pin.SetValue(true)
			log.Print("notice: psu", h.Unit, " ", s)
		case "enable":
			pin.SetValue(false)
			log.Print("notice: psu", h.Unit, " ", s)
		}
	}
}

func (h *I2cDev) GetAdminState() string {
	pin, found := gpio.Pins[h.GpioPwronL]
	if !found {
		return "not found"
	}
	t, err := pin.Value()
	if err != nil {
		return err.Error()
	}
	if t {
		return "disabled"
	}
	return "enabled"
}

func powerCycle() error {
	log.Print("initiate manual power cycle")
	for i := range Vdev {
		pin, found := gpio.Pins[Vdev[i].GpioPwronL]
		if found {
			pin.SetValue(true)
		}
	}
	time.Sleep(1 * time.Second)
	for i := range Vdev {
		pin, found := gpio.Pins[Vdev[i].GpioPwronL]
		if found {
			pin.SetValue(false)
		}
	}
	time.Sleep(1 * time.Second)
	return nil
}

func writeRegs() error {
	for k, v := range WrRegVal {
		switch WrRegFn[k] {
		case "powercycle":
			if v == "true" {
				powerCycle()
			}
		case "admin.state":
			for i := range Vdev {
				p := "psu" + strconv.Itoa(Vdev[i].Unit)
				if strings.Contains(k, p) {
					Vdev[i].SetAdminState(v)
				}
			}
		}
		delete(WrRegVal, k)
	}
	return nil
}

func (i *Info) Hset(args args.Hset, reply *reply.Hset) error {
	_, p := WrRegFn[args.Field]
	if !p {
		return fmt.Errorf("cannot hset: %s", args.Field)
	}
	_, q := WrRegRng[args.Field]
	if !q {
		err := i.set(args.Field, string(args.Value), false)
		if err == nil {
			*reply = 1
			WrRegVal[args.Field] = string(args.Value)
		}
		return err
	}
	var a [2]int
	var e [2]error
	if len(WrRegRng[args.Field]) == 2 {
		for i, v := range WrRegRng[args.Field] {
			a[i], e[i] = strconv.Atoi(v)
		}
		if e[0] == nil && e[1] == nil {
			val, err := strconv.Atoi(string(args.Value))
			if err != nil {
				return err
			}
			if val >= a[0] && val <= a[1] {
				err := i.set(args.Field,
					string(args.Value), false)
				if err == nil {
					*reply = 1
					WrRegVal[args.Field] = string(args.Value)
				}
				return err
			}
			return fmt.Errorf("Cannot hset.  Valid range is: %s",
				WrRegRng[args.Field])
		}
	}
	for _, v := range WrRegRng[args.Field] {
		if v == string(args.Value) {
			err := i.set(args.Field, string(args.Value), false)
			if err == nil {
				*reply = 1
				WrRegVal[args.Field] = string(args.Value)
			}
			return err
		}
	}
	return fmt.Errorf("Cannot hset.  Valid values are: %s",
		WrRegRng[args.Field])
}

func (i *Info) set(key, value string, isReadyEvent bool) error {
	i.pub.Print(key, ": ", value)
	return nil
}
