// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package ina237d

import (
	"sync"
	"unsafe"

	"github.com/platinasystems/i2c"
)

var (
	dummy       byte
	regsPointer = unsafe.Pointer(&dummy)
	regsAddr    = uintptr(unsafe.Pointer(&dummy))

	mutex sync.Mutex
)

func getRegs() *regs { return (*regs)(regsPointer) }

// offset function has divide by two for 16-bit offset struct
func (r *reg16) offset() uint8 { return uint8((uintptr(unsafe.Pointer(r)) - regsAddr) >> 1) }
func (r *reg24) offset() uint8 { return uint8((uintptr(unsafe.Pointer(r)) - regsAddr) >> 1) }

func (h *I2cDev) i2cDo(rw i2c.RW, regOffset uint8, size i2c.SMBusSize, data *i2c.SMBusData) (err error) {
	var bus i2c.Bus

	err = bus.Open(h.Bus)
	if err != nil {
		return
	}
	defer bus.Close()

	err = bus.ForceSlaveAddress(h.Addr)
	if err != nil {
		return
	}

	err = bus.Do(rw, regOffset, size, data)
	return
}

func (h *I2cDev) selectMux() error {
	if h.MuxAddr == 0 {
		return nil
	}

	var bus i2c.Bus
	var data i2c.SMBusData

	err := bus.Open(h.MuxBus)
	if err != nil {
		return err
	}
	defer bus.Close()

	err = bus.ForceSlaveAddress(h.MuxAddr)
	if err != nil {
		return err
	}

	data[0] = byte(h.MuxValue)
	return bus.Do(i2c.Write, 0, i2c.ByteData, &data)
}

// word registers are most-significant byte first on the wire
func (r *reg16) get(h *I2cDev) (uint16, error) {
	var data i2c.SMBusData
	mutex.Lock()
	defer mutex.Unlock()

	if err := h.selectMux(); err != nil {
		return 0, err
	}
	if err := h.i2cDo(i2c.Read, r.offset(), i2c.WordData, &data); err != nil {
		return 0, err
	}
	return uint16(data[0])<<8 | uint16(data[1]), nil
}

func (r *reg16) set(h *I2cDev, v uint16) error {
	var data i2c.SMBusData
	mutex.Lock()
	defer mutex.Unlock()

	if err := h.selectMux(); err != nil {
		return err
	}
	data[0] = uint8(v >> 8)
	data[1] = uint8(v)
	return h.i2cDo(i2c.Write, r.offset(), i2c.WordData, &data)
}

func (r *reg24) get(h *I2cDev) (uint32, error) {
	var data i2c.SMBusData
	mutex.Lock()
	defer mutex.Unlock()

	if err := h.selectMux(); err != nil {
		return 0, err
	}
	data[0] = 3
	err := h.i2cDo(i2c.Read, r.offset(), i2c.I2CBlockData, &data)
	if err != nil {
		return 0, err
	}
	return uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3]), nil
}
