package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBus is a flat 64 KiB RAM image standing in for the system bus.
type testBus struct {
	mem [65536]uint8
}

func (b *testBus) Read(addr uint16) uint8         { return b.mem[addr] }
func (b *testBus) Write(addr uint16, value uint8) { b.mem[addr] = value }

func (b *testBus) load(addr uint16, program ...uint8) {
	copy(b.mem[addr:], program)
}

func newTestCPU(resetVector uint16) (*CPU, *testBus) {
	b := &testBus{}
	b.load(resetVector, 0x00, 0x80) // reset vector -> $8000
	c := New(b)
	c.Reset()
	return c, b
}

func runInstruction(c *CPU) {
	// The first Tick queues the fetch (or interrupt) sequence; then tick
	// until the queue drains. A fetch delayed by a pending stall stays
	// queued, so the second loop also covers the stalled cycles.
	for c.QueueLen() == 0 {
		c.Tick()
	}
	for c.QueueLen() > 0 {
		c.Tick()
	}
}

func TestResetLoadsVectorAndFlags(t *testing.T) {
	c, _ := newTestCPU(resetVector)
	assert.Equal(t, uint16(0x8000), c.PC)
	assert.Equal(t, uint8(0xFD), c.SP)
	assert.True(t, c.I)
}

func TestLDAImmediateSetsZeroAndNegative(t *testing.T) {
	c, b := newTestCPU(resetVector)
	b.load(0x8000, 0xA9, 0x00) // LDA #$00
	runInstruction(c)
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.Z)
	assert.False(t, c.N)

	b.load(0x8002, 0xA9, 0x80) // LDA #$80
	runInstruction(c)
	assert.Equal(t, uint8(0x80), c.A)
	assert.False(t, c.Z)
	assert.True(t, c.N)
}

func TestADCSetsOverflowWithoutCarry(t *testing.T) {
	c, b := newTestCPU(resetVector)
	b.load(0x8000, 0xA9, 0x7F) // LDA #$7F
	runInstruction(c)
	b.load(0x8002, 0x69, 0x01) // ADC #$01 -> overflow into negative
	runInstruction(c)
	assert.Equal(t, uint8(0x80), c.A)
	assert.True(t, c.V)
	assert.False(t, c.C)
	assert.True(t, c.N)
}

func TestSBCBorrow(t *testing.T) {
	c, b := newTestCPU(resetVector)
	b.load(0x8000, 0x38)       // SEC
	runInstruction(c)
	b.load(0x8001, 0xA9, 0x00) // LDA #$00
	runInstruction(c)
	b.load(0x8003, 0xE9, 0x01) // SBC #$01
	runInstruction(c)
	assert.Equal(t, uint8(0xFF), c.A)
	assert.False(t, c.C) // borrow occurred
	assert.True(t, c.N)
}

func TestBranchCycleCounts(t *testing.T) {
	// BEQ with Z set and no page crossing takes 3 cycles.
	c, b := newTestCPU(resetVector)
	b.load(0x8000, 0xA9, 0x00) // LDA #$00 sets Z
	runInstruction(c)
	b.load(0x8002, 0xF0, 0x02) // BEQ +2
	before := c.Cycles
	runInstruction(c)
	assert.Equal(t, uint64(3), c.Cycles-before)
	assert.Equal(t, uint16(0x8006), c.PC)
}

func TestBranchNotTakenIsTwoCycles(t *testing.T) {
	c, b := newTestCPU(resetVector)
	b.load(0x8000, 0xA9, 0x01) // LDA #$01 clears Z
	runInstruction(c)
	b.load(0x8002, 0xF0, 0x02) // BEQ, not taken
	before := c.Cycles
	runInstruction(c)
	assert.Equal(t, uint64(2), c.Cycles-before)
	assert.Equal(t, uint16(0x8004), c.PC)
}

func TestStackPushPull(t *testing.T) {
	c, b := newTestCPU(resetVector)
	b.load(0x8000, 0xA9, 0x42) // LDA #$42
	runInstruction(c)
	b.load(0x8002, 0x48) // PHA
	runInstruction(c)
	b.load(0x8003, 0xA9, 0x00) // LDA #$00
	runInstruction(c)
	b.load(0x8005, 0x68) // PLA
	runInstruction(c)
	assert.Equal(t, uint8(0x42), c.A)
}

func TestJSRRTSRoundTrip(t *testing.T) {
	c, b := newTestCPU(resetVector)
	b.load(0x8000, 0x20, 0x00, 0x90) // JSR $9000
	runInstruction(c)
	require.Equal(t, uint16(0x9000), c.PC)

	b.load(0x9000, 0x60) // RTS
	runInstruction(c)
	assert.Equal(t, uint16(0x8003), c.PC)
}

func TestIndirectJumpPageWrapBug(t *testing.T) {
	c, b := newTestCPU(resetVector)
	b.mem[0x02FF] = 0x00
	b.mem[0x0200] = 0x90 // the buggy high-byte fetch wraps to $0200, not $0300
	b.mem[0x0300] = 0xFF
	b.load(0x8000, 0x6C, 0xFF, 0x02) // JMP ($02FF)
	runInstruction(c)
	assert.Equal(t, uint16(0x9000), c.PC)
}

func TestNMITakesPriorityOverIRQ(t *testing.T) {
	c, b := newTestCPU(resetVector)
	b.mem[nmiVector] = 0x00
	b.mem[nmiVector+1] = 0xA0
	b.load(0x8000, 0xEA, 0xEA) // NOP; NOP

	c.SampleInterrupts(true, true)
	runInstruction(c) // first NOP's end-of-instruction poll latches the NMI
	runInstruction(c) // this fetch services it instead of the second NOP
	assert.Equal(t, uint16(0xA000), c.PC)
}

func TestIRQServicedOnlyAfterCLITakesEffect(t *testing.T) {
	c, b := newTestCPU(resetVector)
	b.mem[irqVector] = 0x00
	b.mem[irqVector+1] = 0xB0
	b.load(0x8000, 0x58, 0xEA) // CLI; NOP

	runInstruction(c) // CLI: I flag clears, but its own poll still uses the pre-CLI I
	c.SampleInterrupts(false, true)
	runInstruction(c) // NOP: fetched with I already clear, so its poll latches the IRQ
	runInstruction(c) // this fetch services it
	assert.Equal(t, uint16(0xB000), c.PC)
}

func TestIRQIgnoredWhenIIsSet(t *testing.T) {
	c, b := newTestCPU(resetVector)
	c.SampleInterrupts(false, true) // I is set from Reset; IRQ must not be serviced
	pcBefore := c.PC
	b.load(0x8000, 0xEA) // NOP
	runInstruction(c)
	assert.Equal(t, pcBefore+1, c.PC)
}

func TestStallDelaysMemoryAccessingCyclesOnly(t *testing.T) {
	c, b := newTestCPU(resetVector)
	b.load(0x8000, 0xEA) // NOP: implied, does not access memory mid-instruction
	c.Stall = 5
	cyclesBefore := c.Cycles
	runInstruction(c)
	// NOP's fetch cycle accesses memory and is delayed by the stall, but
	// its single implied sub-cycle is not memory-accessing and proceeds.
	assert.Equal(t, uint16(0), c.Stall)
	assert.True(t, c.Cycles-cyclesBefore >= 6)
}
