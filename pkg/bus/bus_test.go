package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samukallio/nes/pkg/apu"
	"github.com/samukallio/nes/pkg/cartridge"
	"github.com/samukallio/nes/pkg/controller"
	"github.com/samukallio/nes/pkg/ppu"
)

type stubMapper struct {
	prg [0x10000]uint8
}

func (m *stubMapper) ReadPRG(addr uint16) uint8         { return m.prg[addr] }
func (m *stubMapper) WritePRG(addr uint16, value uint8) { m.prg[addr] = value }
func (m *stubMapper) ReadCHR(addr uint16) uint8         { return 0 }
func (m *stubMapper) WriteCHR(addr uint16, value uint8) {}
func (m *stubMapper) NotifyA12Rise()                    {}
func (m *stubMapper) GetMirroring() uint8               { return cartridge.MirrorHorizontal }
func (m *stubMapper) IRQPending() bool                  { return false }
func (m *stubMapper) ClearIRQ()                         {}

func newTestBus() (*Bus, *stubMapper) {
	p := ppu.NewPPU()
	mapper := &stubMapper{}
	p.SetMapper(mapper)
	a := apu.New(nil, 44100.0)
	b := New(p, a, mapper)
	return b, mapper
}

func TestRAMIsMirroredEvery2KiB(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0x0000, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0x0800))
	assert.Equal(t, uint8(0x42), b.Read(0x1800))
}

func TestPPURegistersAreMirroredEveryEightBytes(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0x2000, 0x80) // PPUCTRL, NMI enable
	b.Write(0x2008, 0x00) // mirrors $2000
	// $200A mirrors PPUSTATUS; the read also resets the address latch.
	assert.NotPanics(t, func() { b.Read(0x200A) })

	// Set PPUADDR and write PPUDATA through the $2008 mirror, then read the
	// palette byte back through the last mirror ($3FF8-$3FFF).
	b.Write(0x200E, 0x3F)
	b.Write(0x200E, 0x00)
	b.Write(0x200F, 0x16)
	b.Write(0x3FFE, 0x3F)
	b.Write(0x3FFE, 0x00)
	assert.Equal(t, uint8(0x16), b.Read(0x3FFF)&0x3F)
}

func TestCartridgeSpaceRoutesToMapper(t *testing.T) {
	b, mapper := newTestBus()
	mapper.prg[0x8000] = 0x99
	assert.Equal(t, uint8(0x99), b.Read(0x8000))

	b.Write(0x6000, 0x55)
	assert.Equal(t, uint8(0x55), mapper.prg[0x6000])
}

func TestOpenBusLatchesLastDrivenByte(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0x0000, 0x7E)
	assert.Equal(t, uint8(0x7E), b.OpenBus())
}

func TestOAMDMARequestIsOneShot(t *testing.T) {
	b, _ := newTestBus()
	b.Write(0x4014, 0x02)

	page, ok := b.TakeOAMDMA()
	require.True(t, ok)
	assert.Equal(t, uint8(0x02), page)

	_, ok = b.TakeOAMDMA()
	assert.False(t, ok, "a second TakeOAMDMA before another $4014 write must report nothing pending")
}

func TestControllerStrobeWritesBothPads(t *testing.T) {
	b, _ := newTestBus()
	b.Controller1.SetButton(controller.ButtonA, true)
	b.Controller2.SetButton(controller.ButtonA, true)
	b.Write(0x4016, 0x01)               // strobe high: latches button state
	b.Write(0x4016, 0x00)               // strobe low: begin shifting

	first := b.Read(0x4016) & 0x01
	assert.Equal(t, uint8(1), first)
	second := b.Read(0x4017) & 0x01
	assert.Equal(t, uint8(1), second)
}
