package cartridge

// Mapper1 implements iNES Mapper 1 (MMC1): a 5-bit serial shift register
// feeding four control registers (load writes one bit per $8000-$FFFF
// write; the fifth write latches the shifted value into Control/CHRBank0/
// CHRBank1/PRGBank depending on which address range it landed in).
//
// Bank offsets are recomputed into prgMap/chrMap whenever a control
// register changes, mirroring original_source/src/mapper.cpp's
// M001ComputeBankMaps -- reads and writes then just index through
// pagedRead/pagedWrite instead of re-deriving the bank number from the
// address range on every access.
type Mapper1 struct {
	prgROM []uint8
	chrMem []uint8
	prgRAM []uint8

	prgBanks uint8
	chrIsRAM bool

	shiftRegister uint8
	shiftCount    uint8

	control  uint8 // mirroring (bits 0-1), PRG mode (bits 2-3), CHR mode (bit 4)
	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	prgRAMEnabled bool

	prgMap [2]uint32 // byte offset of the 16KB window at $8000 and $C000
	chrMap [2]uint32 // byte offset of the 4KB window at $0000 and $1000
}

// NewMapper1 creates a new MMC1 mapper (Mapper 1).
func NewMapper1(prgROM, chrROM []uint8, mirroring uint8) *Mapper1 {
	m := &Mapper1{
		prgROM:        append([]uint8(nil), prgROM...),
		prgRAM:        make([]uint8, 8192),
		prgBanks:      uint8(len(prgROM) / 16384),
		shiftRegister: 0x10,
		control:       (mirroring & 0x03) | 0x0C, // power-on: PRG mode 3 (fix last bank)
		prgRAMEnabled: true,
	}

	if len(chrROM) > 0 {
		m.chrMem = append([]uint8(nil), chrROM...)
	} else {
		m.chrMem = make([]uint8, 8192)
		m.chrIsRAM = true
	}

	m.computeBankMaps()
	return m
}

func (m *Mapper1) prgMode() uint8 { return (m.control >> 2) & 0x03 }
func (m *Mapper1) chrMode() uint8 { return (m.control >> 4) & 0x01 }

// computeBankMaps rebuilds prgMap/chrMap from the current control/bank
// registers, following the four PRG modes and two CHR modes MMC1 defines.
func (m *Mapper1) computeBankMaps() {
	switch m.prgMode() {
	case 0, 1:
		m.prgMap[0] = uint32(m.prgBank&0xFE) * 0x4000
		m.prgMap[1] = uint32(m.prgBank|0x01) * 0x4000
	case 2:
		m.prgMap[0] = 0
		m.prgMap[1] = uint32(m.prgBank) * 0x4000
	case 3:
		m.prgMap[0] = uint32(m.prgBank) * 0x4000
		m.prgMap[1] = uint32(m.prgBanks-1) * 0x4000
	}

	if m.chrMode() != 0 {
		m.chrMap[0] = uint32(m.chrBank0) * 0x1000
		m.chrMap[1] = uint32(m.chrBank1) * 0x1000
	} else {
		m.chrMap[0] = uint32(m.chrBank0&0xFE) * 0x1000
		m.chrMap[1] = uint32(m.chrBank0|0x01) * 0x1000
	}
}

// ReadPRG reads from PRG space (CPU $6000-$FFFF).
func (m *Mapper1) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		return pagedRead(m.prgROM, m.prgMap[:], 0x4000, addr-0x8000)
	case addr >= 0x6000:
		if m.prgRAMEnabled {
			return m.prgRAM[addr-0x6000]
		}
	}
	return 0
}

// WritePRG handles writes to PRG space (CPU $6000-$FFFF): PRG-RAM below
// $8000, the shift register above it.
func (m *Mapper1) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x8000:
		if value&0x80 != 0 {
			m.shiftRegister = 0x10
			m.shiftCount = 0
			m.control |= 0x0C
			m.computeBankMaps()
			return
		}

		m.shiftRegister = (m.shiftRegister >> 1) | (value&0x01)<<4
		m.shiftCount++
		if m.shiftCount != 5 {
			return
		}

		switch addr & 0xE000 {
		case 0x8000:
			m.control = m.shiftRegister
		case 0xA000:
			m.chrBank0 = m.shiftRegister
		case 0xC000:
			m.chrBank1 = m.shiftRegister
		case 0xE000:
			m.prgBank = m.shiftRegister & 0x0F
			m.prgRAMEnabled = m.shiftRegister&0x10 == 0
		}
		m.shiftRegister = 0x10
		m.shiftCount = 0
		m.computeBankMaps()

	case addr >= 0x6000:
		if m.prgRAMEnabled {
			m.prgRAM[addr-0x6000] = value
		}
	}
}

// ReadCHR reads from CHR-ROM/RAM (PPU $0000-$1FFF).
func (m *Mapper1) ReadCHR(addr uint16) uint8 {
	return pagedRead(m.chrMem, m.chrMap[:], 0x1000, addr)
}

// WriteCHR writes to CHR-RAM (PPU $0000-$1FFF); CHR-ROM is read-only.
func (m *Mapper1) WriteCHR(addr uint16, value uint8) {
	if m.chrIsRAM {
		pagedWrite(m.chrMem, m.chrMap[:], 0x1000, addr, value)
	}
}

// NotifyA12Rise is a no-op; MMC1 has no IRQ logic.
func (m *Mapper1) NotifyA12Rise() {}

// IRQPending always reports false for MMC1.
func (m *Mapper1) IRQPending() bool { return false }

// ClearIRQ is a no-op for MMC1.
func (m *Mapper1) ClearIRQ() {}

// GetMirroring returns the current nametable mirroring mode; MMC1 can
// change it at any time via the control register's low two bits.
func (m *Mapper1) GetMirroring() uint8 {
	switch m.control & 0x03 {
	case 0:
		return MirrorSingleLow
	case 1:
		return MirrorSingleHigh
	case 2:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}
