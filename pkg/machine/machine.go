// Package machine ties the CPU, PPU, APU, cartridge mapper and bus
// together and drives them on the shared master-cycle schedule.
package machine

import (
	"io"

	"github.com/samukallio/nes/pkg/apu"
	"github.com/samukallio/nes/pkg/bus"
	"github.com/samukallio/nes/pkg/cartridge"
	"github.com/samukallio/nes/pkg/cpu"
	"github.com/samukallio/nes/pkg/ppu"
)

// mapperIRQHoldCycles is the number of master cycles a mapper IRQ pulse
// stays asserted once raised, guaranteeing at least one CPU polling
// opportunity per pulse.
const mapperIRQHoldCycles = 8

// DefaultSampleRate is the host audio rate the APU resamples to by default.
const DefaultSampleRate = 44100.0

// Machine owns every NES sub-unit and advances them on the master clock.
type Machine struct {
	CPU       *cpu.CPU
	PPU       *ppu.PPU
	APU       *apu.APU
	Bus       *bus.Bus
	cartridge *cartridge.Cartridge

	loaded bool

	masterCycle uint64

	mapperIRQCountdown int

	trace io.Writer
}

// New constructs an unloaded machine. Call Load before running it.
func New() *Machine {
	return &Machine{}
}

// SetTrace installs (or, with nil, removes) the CPU instruction trace
// sink. Purely observational; it never affects emulated state.
func (m *Machine) SetTrace(w io.Writer) {
	m.trace = w
	if m.CPU != nil {
		m.CPU.Trace = w
	}
}

// Load binds a cartridge and wires up a fresh CPU/PPU/APU/Bus, then
// performs a hardware reset.
func (m *Machine) Load(cart *cartridge.Cartridge, sampleRate float64) {
	mapper := cart.GetMapper()

	p := ppu.NewPPU()
	p.SetMapper(mapper)
	p.SetMirroring(cart.GetMirroring())

	b := bus.New(p, nil, mapper)
	a := apu.New(b, sampleRate)
	b.APU = a

	c := cpu.New(b)
	c.Trace = m.trace

	m.cartridge = cart
	m.PPU = p
	m.APU = a
	m.Bus = b
	m.CPU = c
	m.loaded = true
	m.masterCycle = 0
	m.mapperIRQCountdown = 0

	m.Reset()
}

// Unload releases the cartridge and sub-units, returning the machine to
// its empty state.
func (m *Machine) Unload() {
	m.cartridge = nil
	m.CPU = nil
	m.PPU = nil
	m.APU = nil
	m.Bus = nil
	m.loaded = false
	m.masterCycle = 0
	m.mapperIRQCountdown = 0
}

// Loaded reports whether a cartridge is currently bound.
func (m *Machine) Loaded() bool {
	return m.loaded
}

// Reset performs a synchronous, idempotent hardware reset of the PPU, APU
// and CPU, and drops any held mapper IRQ. The mapper's bank and IRQ
// registers, system RAM and the controllers are not reset.
func (m *Machine) Reset() {
	if !m.loaded {
		return
	}
	m.PPU.Reset()
	m.APU.Reset()
	m.CPU.Reset()
	m.mapperIRQCountdown = 0
}

// RunUntilVerticalBlank advances the machine, one master tick at a time,
// until the PPU's vblank counter increments, then returns.
func (m *Machine) RunUntilVerticalBlank() {
	if !m.loaded {
		return
	}
	start := m.PPU.VBlankCount()
	for m.PPU.VBlankCount() == start {
		m.step()
	}
}

// Step1 advances the machine until the CPU has completed exactly one
// instruction (or interrupt sequence) from a fetch boundary. Used by
// interactive tooling; RunUntilVerticalBlank does not use this, since it
// does not need to stop mid-frame at instruction granularity.
func (m *Machine) Step1() {
	if !m.loaded {
		return
	}
	for {
		m.step()
		if m.CPU.QueueLen() == 0 {
			return
		}
	}
}

// step advances every sub-unit by exactly one master tick: three PPU
// dots, one APU cycle, and one CPU sub-cycle, in the fixed sub-phase
// order that lets a vblank set on the PPU's first dot be visible to the
// CPU's very next polling point.
func (m *Machine) step() {
	m.serviceOAMDMA()

	// 1. PPU dot, APU cycle, CPU sub-cycle.
	m.PPU.Clock()
	m.APU.Step()
	m.CPU.Stall += m.APU.TakeStall()
	m.CPU.Tick()

	// 2. PPU dot.
	m.PPU.Clock()

	// 3. Sample NMI/IRQ lines and run the CPU's edge detectors.
	m.serviceMapperIRQ()
	nmiLevel := m.PPU.GetNMI()
	irqLevel := m.Bus.Mapper.IRQPending() || m.mapperIRQCountdown > 0 || m.APU.FrameInterrupt() || m.APU.DMCInterrupt()
	m.CPU.SampleInterrupts(nmiLevel, irqLevel)

	// 4. PPU dot.
	m.PPU.Clock()

	// 5. Commit the master cycle and decrement any mapper IRQ hold.
	m.masterCycle++
	if m.mapperIRQCountdown > 0 {
		m.mapperIRQCountdown--
	}
}

// serviceMapperIRQ latches a freshly raised mapper IRQ into an 8-cycle
// hold so the CPU is guaranteed at least one polling opportunity even
// though the mapper's own pending flag can be cleared well before then.
func (m *Machine) serviceMapperIRQ() {
	if m.Bus.Mapper.IRQPending() && m.mapperIRQCountdown == 0 {
		m.mapperIRQCountdown = mapperIRQHoldCycles
		m.Bus.Mapper.ClearIRQ()
	}
}

// serviceOAMDMA performs a pending $4014 OAM DMA transfer. The 256
// transactions happen in one go; the CPU stall counter (513 or 514
// cycles, the extra one added when the DMA starts on an odd CPU cycle)
// reproduces the time it actually occupies the bus.
func (m *Machine) serviceOAMDMA() {
	page, ok := m.Bus.TakeOAMDMA()
	if !ok {
		return
	}
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		value := m.Bus.Read(base + uint16(i))
		m.Bus.WriteOAM(value)
	}
	stall := uint16(513)
	if m.CPU.Cycles%2 == 1 {
		stall = 514
	}
	m.CPU.Stall += stall
}
