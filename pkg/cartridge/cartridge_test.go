package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildINES assembles a minimal iNES image: header, optional trainer,
// PRG-ROM, and CHR-ROM, all filled with a recognizable byte pattern.
func buildINES(mapperID uint8, prgBanks, chrBanks uint8, mirroring uint8, trainer bool) []byte {
	flags6 := (mapperID & 0x0F) << 4
	if mirroring == MirrorVertical {
		flags6 |= 0x01
	}
	if trainer {
		flags6 |= 0x04
	}
	flags7 := mapperID & 0xF0

	header := []byte{'N', 'E', 'S', 0x1A, prgBanks, chrBanks, flags6, flags7, 0, 0, 0, 0, 0, 0, 0, 0}

	var data []byte
	data = append(data, header...)
	if trainer {
		data = append(data, make([]byte, 512)...)
	}
	prg := make([]byte, int(prgBanks)*prgROMBankSize)
	for i := range prg {
		prg[i] = uint8(i)
	}
	data = append(data, prg...)

	chr := make([]byte, int(chrBanks)*chrROMBankSize)
	for i := range chr {
		chr[i] = uint8(i ^ 0xFF)
	}
	data = append(data, chr...)
	return data
}

func TestLoadFromBytesRejectsBadMagic(t *testing.T) {
	_, err := LoadFromBytes([]byte("not an ines file at all"))
	assert.Error(t, err)
}

func TestLoadFromBytesRejectsTruncatedPRG(t *testing.T) {
	data := buildINES(0, 2, 0, MirrorHorizontal, false)
	_, err := LoadFromBytes(data[:len(data)-100])
	assert.Error(t, err)
}

func TestLoadFromBytesParsesMapper0Header(t *testing.T) {
	data := buildINES(0, 2, 1, MirrorVertical, false)
	cart, err := LoadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), cart.GetMapperID())
	assert.Equal(t, uint8(2), cart.GetPRGBanks())
	assert.Equal(t, uint8(1), cart.GetCHRBanks())
	assert.Equal(t, uint8(MirrorVertical), cart.GetMirroring())
	assert.False(t, cart.HasSaveRAM())
}

func TestLoadFromBytesSkipsTrainer(t *testing.T) {
	data := buildINES(0, 1, 1, MirrorHorizontal, true)
	cart, err := LoadFromBytes(data)
	require.NoError(t, err)
	// PRG must start right after the trainer, not inside it. The trainer
	// is all zeros, so byte 1 (0x01) is the one that tells them apart.
	assert.Equal(t, uint8(0x00), cart.GetMapper().ReadPRG(0x8000))
	assert.Equal(t, uint8(0x01), cart.GetMapper().ReadPRG(0x8001))
}

func TestLoadFromBytesRejectsUnsupportedMapper(t *testing.T) {
	data := buildINES(99, 1, 1, MirrorHorizontal, false)
	_, err := LoadFromBytes(data)
	assert.Error(t, err)
}

func TestMapper4IRQFiresAfterCounterReachesZero(t *testing.T) {
	data := buildINES(4, 2, 1, MirrorHorizontal, false)
	cart, err := LoadFromBytes(data)
	require.NoError(t, err)
	mapper := cart.GetMapper()

	mapper.WritePRG(0x8000, 0x00) // bank select; does not touch the IRQ counter
	mapper.WritePRG(0xC000, 0x02) // IRQ latch = 2
	mapper.WritePRG(0xC001, 0x00) // IRQ reload
	mapper.WritePRG(0xE001, 0x00) // IRQ enable

	for i := 0; i < 3; i++ {
		mapper.NotifyA12Rise()
	}
	assert.True(t, mapper.IRQPending())

	mapper.ClearIRQ()
	assert.False(t, mapper.IRQPending())
}
