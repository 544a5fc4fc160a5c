package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samukallio/nes/pkg/cartridge"
)

// buildNROM assembles a minimal mapper-0 ROM with a reset vector pointing
// at a tight infinite loop, so RunUntilVerticalBlank has something to
// execute without ever completing on its own.
func buildNROM() *cartridge.Cartridge {
	const inesHeaderSize = 16
	const prgBankSize = 16384
	data := make([]byte, inesHeaderSize+prgBankSize)
	copy(data, []byte{'N', 'E', 'S', 0x1A})
	data[4] = 1 // 1 PRG bank
	data[5] = 0 // CHR-RAM

	prg := data[inesHeaderSize:]
	// Reset vector $FFFC/$FFFD -> $8000.
	prg[prgBankSize-4] = 0x00
	prg[prgBankSize-3] = 0x80
	// $8000: JMP $8000 (infinite loop)
	prg[0] = 0x4C
	prg[1] = 0x00
	prg[2] = 0x80

	cart, err := cartridge.LoadFromBytes(data)
	if err != nil {
		panic(err)
	}
	return cart
}

func newTestMachine() *Machine {
	m := New()
	m.Load(buildNROM(), DefaultSampleRate)
	return m
}

func TestLoadResetsCPUToVector(t *testing.T) {
	m := newTestMachine()
	assert.Equal(t, uint16(0x8000), m.CPU.PC)
	assert.True(t, m.Loaded())
}

func TestStep1AdvancesExactlyOneInstruction(t *testing.T) {
	m := newTestMachine()
	cyclesBefore := m.CPU.Cycles
	m.Step1()
	assert.Greater(t, m.CPU.Cycles, cyclesBefore)
	assert.Equal(t, 0, m.CPU.QueueLen())
}

func TestRunUntilVerticalBlankStopsAtFirstVBlank(t *testing.T) {
	m := newTestMachine()
	start := m.PPU.VBlankCount()
	m.RunUntilVerticalBlank()
	assert.Equal(t, start+1, m.PPU.VBlankCount())
}

func TestOAMDMAStallsCPUFor513OrMoreCycles(t *testing.T) {
	m := newTestMachine()
	cyclesBefore := m.CPU.Cycles
	m.Bus.Write(0x4014, 0x02) // trigger OAM DMA from page $02
	m.Step1()                 // drains the stall, then completes the loop's JMP
	assert.GreaterOrEqual(t, m.CPU.Cycles-cyclesBefore, uint64(513))
	assert.Equal(t, uint16(0), m.CPU.Stall)
}

func TestResetReturnsToVectorWithZeroedCountersNotDiscardingCartridge(t *testing.T) {
	m := newTestMachine()
	m.RunUntilVerticalBlank()
	require.Greater(t, m.PPU.VBlankCount(), uint64(0))

	m.Reset()
	assert.Equal(t, uint16(0x8000), m.CPU.PC)
	assert.Equal(t, uint64(0), m.PPU.VBlankCount())
	assert.True(t, m.Loaded())
}
