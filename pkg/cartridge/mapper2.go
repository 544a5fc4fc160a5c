package cartridge

// Mapper2 implements iNES Mapper 2 (UxROM): a switchable 16KB PRG-ROM
// window at $8000-$BFFF plus a fixed window at $C000-$FFFF pinned to the
// last bank, backed by 8KB of fixed CHR-RAM.
type Mapper2 struct {
	prgROM []uint8
	chrRAM []uint8

	prgBanks uint8
	prgBank  uint8

	mirroring uint8
	prgMap    [2]uint32
}

// NewMapper2 creates a new UxROM mapper (Mapper 2).
func NewMapper2(prgROM, chrROM []uint8, mirroring uint8) *Mapper2 {
	m := &Mapper2{
		prgROM:    append([]uint8(nil), prgROM...),
		chrRAM:    make([]uint8, 8192),
		prgBanks:  uint8(len(prgROM) / 16384),
		mirroring: mirroring,
	}
	m.computeBankMap()
	return m
}

func (m *Mapper2) computeBankMap() {
	m.prgMap[0] = uint32(m.prgBank) * 0x4000
	m.prgMap[1] = uint32(m.prgBanks-1) * 0x4000
}

// ReadPRG reads from PRG-ROM (CPU $8000-$FFFF).
func (m *Mapper2) ReadPRG(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	return pagedRead(m.prgROM, m.prgMap[:], 0x4000, addr-0x8000)
}

// WritePRG selects the switchable PRG bank; any write to $8000-$FFFF does it.
func (m *Mapper2) WritePRG(addr uint16, value uint8) {
	if addr < 0x8000 || m.prgBanks == 0 {
		return
	}
	m.prgBank = value & (m.prgBanks - 1)
	m.computeBankMap()
}

// ReadCHR reads from CHR-RAM (PPU $0000-$1FFF).
func (m *Mapper2) ReadCHR(addr uint16) uint8 {
	if int(addr) < len(m.chrRAM) {
		return m.chrRAM[addr]
	}
	return 0
}

// WriteCHR writes to CHR-RAM (PPU $0000-$1FFF).
func (m *Mapper2) WriteCHR(addr uint16, value uint8) {
	if int(addr) < len(m.chrRAM) {
		m.chrRAM[addr] = value
	}
}

// NotifyA12Rise is a no-op; UxROM has no IRQ logic.
func (m *Mapper2) NotifyA12Rise() {}

// IRQPending always reports false for UxROM.
func (m *Mapper2) IRQPending() bool { return false }

// ClearIRQ is a no-op for UxROM.
func (m *Mapper2) ClearIRQ() {}

// GetMirroring returns the nametable mirroring mode.
func (m *Mapper2) GetMirroring() uint8 { return m.mirroring }
