package cartridge

// Mapper4 implements iNES Mapper 4 (MMC3): four switchable/fixed 8KB PRG
// windows, eight switchable 1-2KB CHR windows, and a filtered-A12-edge
// scanline counter that can assert an IRQ.
//
// Bank offsets are rebuilt into prgMap/chrMap whenever the bank-select or
// bank-data registers change, and the IRQ counter's reload/decrement/fire
// sequence is ported directly from original_source/src/mapper.cpp's
// ComputeBankMaps_Mapper4 and NotifyMapper4 (the filtered-A12-edge model):
// on each notified edge, reload from the latch if the counter is at zero
// or a reload was requested, otherwise decrement, and request IRQ only if
// enabled and the counter lands on zero.
type Mapper4 struct {
	prgROM []uint8
	chrMem []uint8
	prgRAM []uint8

	prgBanks uint8
	chrIsRAM bool

	bankSelect uint8 // which of registers[8] the next bank-data write updates
	prgMode    uint8 // bit 6 of the bank-select write
	chrMode    uint8 // bit 7 of the bank-select write
	registers  [8]uint8

	mirroring uint8

	prgRAMEnabled      bool
	prgRAMWriteProtect bool

	irqLatch      uint8
	irqCounter    uint8
	irqEnabled    bool
	irqPending    bool
	irqReloadFlag bool

	prgMap [4]uint32 // byte offset of each 8KB PRG window, $8000/$A000/$C000/$E000
	chrMap [8]uint32 // byte offset of each CHR window per chrMode's layout
}

// NewMapper4 creates a new MMC3 mapper (Mapper 4).
func NewMapper4(prgROM, chrROM []uint8, mirroring uint8) *Mapper4 {
	m := &Mapper4{
		prgROM:        append([]uint8(nil), prgROM...),
		prgRAM:        make([]uint8, 8192),
		prgBanks:      uint8(len(prgROM) / 8192),
		mirroring:     mirroring,
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

// computeBankMaps rebuilds prgMap/chrMap from the current bank-select mode
// and bank-data registers, following MMC3's two PRG layouts and two CHR
// layouts exactly as original_source/src/mapper.cpp's
// ComputeBankMaps_Mapper4 does.
func (m *Mapper4) computeBankMaps() {
	last8K := uint32(m.prgBanks-1) * 0x2000
	r6 := uint32(m.registers[6]) * 0x2000
	r7 := uint32(m.registers[7]) * 0x2000

	if m.prgMode&0x01 != 0 {
		m.prgMap[0] = last8K - 0x2000
		m.prgMap[1] = r7
		m.prgMap[2] = r6
		m.prgMap[3] = last8K
	} else {
		m.prgMap[0] = r6
		m.prgMap[1] = r7
		m.prgMap[2] = last8K - 0x2000
		m.prgMap[3] = last8K
	}

	r := &m.registers
	if m.chrMode&0x01 != 0 {
		m.chrMap[0] = uint32(r[2]) * 0x0400
		m.chrMap[1] = uint32(r[3]) * 0x0400
		m.chrMap[2] = uint32(r[4]) * 0x0400
		m.chrMap[3] = uint32(r[5]) * 0x0400
		m.chrMap[4] = uint32(r[0]&0xFE) * 0x0400
		m.chrMap[5] = uint32(r[0]|0x01) * 0x0400
		m.chrMap[6] = uint32(r[1]&0xFE) * 0x0400
		m.chrMap[7] = uint32(r[1]|0x01) * 0x0400
	} else {
		m.chrMap[0] = uint32(r[0]&0xFE) * 0x0400
		m.chrMap[1] = uint32(r[0]|0x01) * 0x0400
		m.chrMap[2] = uint32(r[1]&0xFE) * 0x0400
		m.chrMap[3] = uint32(r[1]|0x01) * 0x0400
		m.chrMap[4] = uint32(r[2]) * 0x0400
		m.chrMap[5] = uint32(r[3]) * 0x0400
		m.chrMap[6] = uint32(r[4]) * 0x0400
		m.chrMap[7] = uint32(r[5]) * 0x0400
	}
}

// ReadPRG reads from PRG space (CPU $6000-$FFFF).
func (m *Mapper4) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x8000:
		return pagedRead(m.prgROM, m.prgMap[:], 0x2000, addr-0x8000)
	case addr >= 0x6000:
		if m.prgRAMEnabled {
			return m.prgRAM[addr-0x6000]
		}
	}
	return 0
}

// WritePRG handles writes to PRG space (CPU $6000-$FFFF): PRG-RAM below
// $8000, MMC3's eight even/odd mapper registers above it.
func (m *Mapper4) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x8000 && addr < 0xA000:
		if addr&1 == 0 {
			m.bankSelect = value & 0x07
			m.prgMode = (value >> 6) & 0x01
			m.chrMode = (value >> 7) & 0x01
		} else {
			m.registers[m.bankSelect] = value
		}
		m.computeBankMaps()

	case addr >= 0xA000 && addr < 0xC000:
		if addr&1 == 0 {
			if value&1 == 0 {
				m.mirroring = MirrorVertical
			} else {
				m.mirroring = MirrorHorizontal
			}
		} else {
			m.prgRAMWriteProtect = value&0x40 != 0
			m.prgRAMEnabled = value&0x80 != 0
		}

	case addr >= 0xC000 && addr < 0xE000:
		if addr&1 == 0 {
			m.irqLatch = value
		} else {
			m.irqCounter = 0
			m.irqReloadFlag = true
		}

	case addr >= 0xE000:
		if addr&1 == 0 {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}

	case addr >= 0x6000:
		if m.prgRAMEnabled && !m.prgRAMWriteProtect {
			m.prgRAM[addr-0x6000] = value
		}
	}
}

// ReadCHR reads from CHR-ROM/RAM (PPU $0000-$1FFF).
func (m *Mapper4) ReadCHR(addr uint16) uint8 {
	return pagedRead(m.chrMem, m.chrMap[:], 0x0400, addr)
}

// WriteCHR writes to CHR-RAM (PPU $0000-$1FFF); CHR-ROM is read-only.
func (m *Mapper4) WriteCHR(addr uint16, value uint8) {
	if m.chrIsRAM {
		pagedWrite(m.chrMem, m.chrMap[:], 0x0400, addr, value)
	}
}

// NotifyA12Rise clocks the MMC3 scanline/IRQ counter on a filtered PPU
// pattern-bus A12 rising edge: reload from the latch if the counter is
// already at zero or a reload was requested by a $C001 write, otherwise
// decrement; either way, a counter that lands on zero requests an IRQ only
// if IRQs are currently enabled.
func (m *Mapper4) NotifyA12Rise() {
	if m.irqCounter == 0 || m.irqReloadFlag {
		m.irqCounter = m.irqLatch
		m.irqReloadFlag = false
	} else {
		m.irqCounter--
	}

	if m.irqCounter == 0 && m.irqEnabled {
		m.irqPending = true
	}
}

// GetMirroring returns the current nametable mirroring mode.
func (m *Mapper4) GetMirroring() uint8 { return m.mirroring }

// IRQPending reports whether the mapper currently wants to assert IRQ.
func (m *Mapper4) IRQPending() bool { return m.irqPending }

// ClearIRQ acknowledges a delivered mapper IRQ.
func (m *Mapper4) ClearIRQ() { m.irqPending = false }
