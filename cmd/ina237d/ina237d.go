// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package ina237d publishes the INA237 current/power monitor rails to redis

package ina237d

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

type Command struct {
	Info
	Init func()
	init sync.Once
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
	Slot               int
	Unit               int
	Bus                int
	Addr               int
	MuxBus             int
	MuxAddr            int
	MuxValue           int
	ShuntResistorUohms int
	MaxExpectCurrentUa int
	CalWritten         bool
	Update             bool
}

func (*Command) String() string { return "ina237d" }

func (*Command) Usage() string { return "ina237d" }

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "ina237 current/power monitor daemon, publishes to redis",
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

	if c.rpc, err = atsock.NewRpcServer("ina237d"); err != nil {
		return err
	}

	rpc.Register(&c.Info)
	for _, v := range WrRegDv {
		err = redis.Assign(redis.DefaultHash+":"+v+".", "ina237d", "Info")
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
	for i := range Vdev {
		if !Vdev[i].CalWritten {
			if err := Vdev[i].ShuntCalInit(); err != nil {
				return err
			}
			Vdev[i].CalWritten = true
			Vdev[i].Update = true
			log.Print("notice: rail", Vdev[i].Unit,
				" shunt calibration written")
		}
	}
	if err := writeRegs(); err != nil {
		return err
	}

	for k, i := range VpageByKey {
		if Vdev[i].Update {
			if strings.Contains(k, "mfr_id") {
				v, err := Vdev[i].MfrIdent()
				if err != nil {
					return err
				}
				if v != c.lasts[k] {
					c.pub.Print(k, ": ", v)
					c.lasts[k] = v
				}
			}
			if strings.Contains(k, "device_id") {
				v, err := Vdev[i].DeviceIdent()
				if err != nil {
					return err
				}
				if v != c.lasts[k] {
					c.pub.Print(k, ": ", v)
					c.lasts[k] = v
				}
			}
		}
		if strings.Contains(k, "v_bus.max") {
			v, err := Vdev[i].BusLimitMaxMillivolts()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "v_bus.min") {
			v, err := Vdev[i].BusLimitMinMillivolts()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "v_shunt.max") {
			v, err := Vdev[i].ShuntLimitMaxMicrovolts()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "v_shunt.min") {
			v, err := Vdev[i].ShuntLimitMinMicrovolts()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "power.max") {
			v, err := Vdev[i].PowerLimitMaxWatts()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "shunt_resistor") {
			v := Vdev[i].ShuntResistorUohms
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
	}
	for i := range Vdev {
		Vdev[i].Update = false
	}
	return nil
}

func (c *Command) updateMon() error {
	if err := writeRegs(); err != nil {
		return err
	}

	for k, i := range VpageByKey {
		if strings.Contains(k, "v_bus.units") {
			v, err := Vdev[i].BusMillivolts()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "v_shunt.units") {
			v, err := Vdev[i].ShuntMicrovolts()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "current.units") {
			v, err := Vdev[i].CurrentMilliamps()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "power.units") {
			v, err := Vdev[i].PowerWatts()
			if err != nil {
				return err
			}
			if v != c.lasti[k] {
				c.pub.Print(k, ": ", v)
				c.lasti[k] = v
			}
		}
		if strings.Contains(k, "temp.units") {
			v, err := Vdev[i].DieTempMillidegrees()
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

func (h *I2cDev) lsbUa() int {
	return currentLsbUa(h.MaxExpectCurrentUa)
}

// ShuntCalInit writes SHUNT_CAL from the configured shunt resistance
// and full-scale current. Readings are garbage until this lands.
func (h *I2cDev) ShuntCalInit() error {
	r := getRegs()
	return r.ShuntCal.set(h, shuntCalReg(h.ShuntResistorUohms, h.lsbUa()))
}

func (h *I2cDev) BusMillivolts() (int, error) {
	r := getRegs()
	t, err := r.Vbus.get(h)
	if err != nil {
		return 0, err
	}
	return busMillivolts(t), nil
}

func (h *I2cDev) ShuntMicrovolts() (int, error) {
	r := getRegs()
	cfg, err := r.Config.get(h)
	if err != nil {
		return 0, err
	}
	t, err := r.Vshunt.get(h)
	if err != nil {
		return 0, err
	}
	return shuntMicrovolts(t, cfg), nil
}

func (h *I2cDev) CurrentMilliamps() (int, error) {
	r := getRegs()
	t, err := r.Current.get(h)
	if err != nil {
		return 0, err
	}
	return currentMilliamps(t, h.lsbUa()), nil
}

func (h *I2cDev) PowerWatts() (int, error) {
	r := getRegs()
	t, err := r.Power.get(h)
	if err != nil {
		return 0, err
	}
	return powerWatts(t, h.lsbUa()), nil
}

func (h *I2cDev) DieTempMillidegrees() (int, error) {
	r := getRegs()
	t, err := r.DieTemp.get(h)
	if err != nil {
		return 0, err
	}
	return dieTempMillidegrees(t), nil
}

func (h *I2cDev) BusLimitMaxMillivolts() (int, error) {
	r := getRegs()
	t, err := r.Bovl.get(h)
	if err != nil {
		return 0, err
	}
	return busLimitMillivolts(t), nil
}

func (h *I2cDev) BusLimitMinMillivolts() (int, error) {
	r := getRegs()
	t, err := r.Buvl.get(h)
	if err != nil {
		return 0, err
	}
	return busLimitMillivolts(t), nil
}

func (h *I2cDev) ShuntLimitMaxMicrovolts() (int, error) {
	r := getRegs()
	cfg, err := r.Config.get(h)
	if err != nil {
		return 0, err
	}
	t, err := r.Sovl.get(h)
	if err != nil {
		return 0, err
	}
	return shuntMicrovolts(t, cfg), nil
}

func (h *I2cDev) ShuntLimitMinMicrovolts() (int, error) {
	r := getRegs()
	cfg, err := r.Config.get(h)
	if err != nil {
		return 0, err
	}
	t, err := r.Suvl.get(h)
	if err != nil {
		return 0, err
	}
	return shuntMicrovolts(t, cfg), nil
}

func (h *I2cDev) PowerLimitMaxWatts() (int, error) {
	r := getRegs()
	t, err := r.PwrLimit.get(h)
	if err != nil {
		return 0, err
	}
	return powerLimitWatts(t, h.lsbUa()), nil
}

func (h *I2cDev) SetBusLimitMax(millivolts int) error {
	r := getRegs()
	return r.Bovl.set(h, busLimitReg(millivolts))
}

func (h *I2cDev) SetBusLimitMin(millivolts int) error {
	r := getRegs()
	return r.Buvl.set(h, busLimitReg(millivolts))
}

func (h *I2cDev) SetPowerLimit(watts int) error {
	r := getRegs()
	return r.PwrLimit.set(h, powerLimitReg(watts, h.lsbUa()))
}

func (h *I2cDev) MfrIdent() (string, error) {
	r := getRegs()
	t, err := r.MfrId.get(h)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("0x%04X", t), nil
}

func (h *I2cDev) DeviceIdent() (string, error) {
	r := getRegs()
	t, err := r.DeviceId.get(h)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("0x%04X", t), nil
}

func writeRegs() error {
	for k, v := range WrRegVal {
		for i := range Vdev {
			p := "rail" + strconv.Itoa(Vdev[i].Unit)
			if !strings.Contains(k, p) {
				continue
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				break
			}
			switch WrRegFn[k] {
			case "v_bus.max":
				err = Vdev[i].SetBusLimitMax(n)
			case "v_bus.min":
				err = Vdev[i].SetBusLimitMin(n)
			case "power.max":
				err = Vdev[i].SetPowerLimit(n)
			}
			if err != nil {
				log.Print("ina237d write error: ", k, ": ", err)
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
