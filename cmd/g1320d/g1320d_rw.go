// Copyright © 2021 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package g1320d

import (
	"strings"
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
func (r *reg8) offset() uint8   { return uint8((uintptr(unsafe.Pointer(r)) - regsAddr) >> 1) }
func (r *reg8b) offset() uint8  { return uint8((uintptr(unsafe.Pointer(r)) - regsAddr) >> 1) }
func (r *reg16r) offset() uint8 { return uint8((uintptr(unsafe.Pointer(r)) - regsAddr) >> 1) }

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

// selectMux steers the i2c mux ahead of the device access. A zero
// MuxAddr means the device hangs directly off the bus.
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

func (r *reg8) get(h *I2cDev) (byte, error) {
	var data i2c.SMBusData
	mutex.Lock()
	defer mutex.Unlock()

	if err := h.selectMux(); err != nil {
		return 0, err
	}
	if err := h.i2cDo(i2c.Read, r.offset(), i2c.ByteData, &data); err != nil {
		return 0, err
	}
	return data[0], nil
}

// word registers are least-significant byte first on the wire
func (r *reg16r) get(h *I2cDev) (uint16, error) {
	var data i2c.SMBusData
	mutex.Lock()
	defer mutex.Unlock()

	if err := h.selectMux(); err != nil {
		return 0, err
	}
	if err := h.i2cDo(i2c.Read, r.offset(), i2c.WordData, &data); err != nil {
		return 0, err
	}
	return uint16(data[1])<<8 | uint16(data[0]), nil
}

func (r *reg16r) set(h *I2cDev, v uint16) error {
	var data i2c.SMBusData
	mutex.Lock()
	defer mutex.Unlock()

	if err := h.selectMux(); err != nil {
		return err
	}
	data[0] = uint8(v)
	data[1] = uint8(v >> 8)
	return h.i2cDo(i2c.Write, r.offset(), i2c.WordData, &data)
}

func (r *reg8b) get(h *I2cDev) (string, error) {
	var data i2c.SMBusData
	mutex.Lock()
	defer mutex.Unlock()

	if err := h.selectMux(); err != nil {
		return "", err
	}
	if err := h.i2cDo(i2c.Read, r.offset(), i2c.BlockData, &data); err != nil {
		return "", err
	}
	n := data[0]
	if n == 0 || n == 0xff {
		return "", nil
	}
	if n > 32 {
		n = 32
	}
	return strings.Trim(string(data[1:n+1]), "#"), nil
}
