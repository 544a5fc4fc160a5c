// Package bus implements the NES CPU-side system bus: it routes reads and
// writes among RAM, PPU registers, APU/controller I/O, and the cartridge
// mapper, and maintains the CPU's open-bus latch.
package bus

import (
	"github.com/samukallio/nes/pkg/apu"
	"github.com/samukallio/nes/pkg/cartridge"
	"github.com/samukallio/nes/pkg/controller"
	"github.com/samukallio/nes/pkg/ppu"
)

// Bus implements the CPU's view of the NES memory map:
//
//	$0000-$1FFF: 2 KiB internal RAM, mirrored four times
//	$2000-$3FFF: Eight PPU registers, mirrored every 8 bytes
//	$4000-$4013, $4015, $4017 (write): APU
//	$4014: OAM DMA trigger
//	$4016 (write): controller strobe; (read): controller 1 shift
//	$4017 (read): controller 2 shift
//	$4020-$FFFF: cartridge (mapper-routed)
type Bus struct {
	ram [2048]uint8

	PPU     *ppu.PPU
	APU     *apu.APU
	Mapper  cartridge.Mapper

	Controller1 *controller.Controller
	Controller2 *controller.Controller

	openBus uint8

	// OAM DMA request state; the machine's step loop drains this into a
	// CPU stall and performs the 256 bus transactions.
	dmaRequested bool
	dmaPage      uint8
}

// New creates a bus wired to the given PPU, APU, and cartridge mapper.
func New(p *ppu.PPU, a *apu.APU, mapper cartridge.Mapper) *Bus {
	return &Bus{
		PPU:         p,
		APU:         a,
		Mapper:      mapper,
		Controller1: controller.NewController(),
		Controller2: controller.NewController(),
	}
}

// Read performs a CPU memory read and updates the open-bus latch with
// whatever the responder actually drove.
func (b *Bus) Read(addr uint16) uint8 {
	var value uint8
	switch {
	case addr < 0x2000:
		value = b.ram[addr&0x07FF]

	case addr < 0x4000:
		value = b.PPU.ReadCPURegister(0x2000 + (addr & 0x0007))

	case addr == 0x4015:
		value = b.APU.ReadStatus()

	case addr == 0x4016:
		value = b.Controller1.Read() | (b.openBus & 0xE0)

	case addr == 0x4017:
		value = b.Controller2.Read() | (b.openBus & 0xE0)

	case addr >= 0x4020:
		value = b.Mapper.ReadPRG(addr)

	default:
		value = b.openBus
	}

	b.openBus = value
	return value
}

// Write performs a CPU memory write and updates the open-bus latch with
// the written byte.
func (b *Bus) Write(addr uint16, value uint8) {
	b.openBus = value

	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value

	case addr < 0x4000:
		b.PPU.WriteCPURegister(0x2000+(addr&0x0007), value)

	case addr == 0x4014:
		b.dmaRequested = true
		b.dmaPage = value

	case addr == 0x4016:
		b.Controller1.Write(value)
		b.Controller2.Write(value)

	case addr == 0x4015 || addr == 0x4017:
		b.APU.WriteRegister(addr, value)

	case addr >= 0x4000 && addr <= 0x4013:
		b.APU.WriteRegister(addr, value)

	case addr >= 0x4020:
		b.Mapper.WritePRG(addr, value)
	}
}

// TakeOAMDMA reports and clears a pending OAM DMA request, returning the
// source page and whether one was pending.
func (b *Bus) TakeOAMDMA() (page uint8, ok bool) {
	if !b.dmaRequested {
		return 0, false
	}
	b.dmaRequested = false
	return b.dmaPage, true
}

// WriteOAM writes directly to the PPU's OAMDATA register ($2004), used by
// the OAM DMA sequence to deliver each of the 256 bytes.
func (b *Bus) WriteOAM(value uint8) {
	b.PPU.WriteCPURegister(0x2004, value)
}

// OpenBus returns the CPU's last-driven bus byte.
func (b *Bus) OpenBus() uint8 {
	return b.openBus
}
