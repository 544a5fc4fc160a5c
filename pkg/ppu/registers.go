package ppu

// flagRegister is a bit-addressable byte shared by the three CPU-visible
// registers below (PPUCTRL/PPUMASK/PPUSTATUS), so the shift-mask-compare
// idiom for a single flag or field is written once instead of five times.
type flagRegister struct {
	value uint8
}

// Set writes the raw register value.
func (f *flagRegister) Set(v uint8) { f.value = v }

// Get returns the raw register value.
func (f *flagRegister) Get() uint8 { return f.value }

func (f *flagRegister) bit(pos uint8) bool {
	return f.value&(1<<pos) != 0
}

func (f *flagRegister) setBit(pos uint8, v bool) {
	if v {
		f.value |= 1 << pos
	} else {
		f.value &^= 1 << pos
	}
}

// field reads a width-bit field starting at pos.
func (f *flagRegister) field(pos, width uint8) uint8 {
	return (f.value >> pos) & ((1 << width) - 1)
}

// PPUControl is PPUCTRL ($2000, write only): nametable base, VRAM address
// increment step, pattern-table selects, sprite size, and NMI enable.
//
// Bit layout (VPHB SINN):
//
//	7: V = NMI enable                 3: S = sprite pattern table
//	6: P = master/slave (unused)      2: I = VRAM increment (1 or 32)
//	5: H = sprite size (8x8/8x16)   1-0: NN = base nametable
//	4: B = background pattern table
type PPUControl struct{ flagRegister }

func (c *PPUControl) NametableX() uint8 { return c.field(0, 1) }
func (c *PPUControl) NametableY() uint8 { return c.field(1, 1) }

// IncrementMode returns the VRAM address step a PPUDATA access applies: 1
// (across a row) or 32 (down a column).
func (c *PPUControl) IncrementMode() uint16 {
	if c.bit(2) {
		return 32
	}
	return 1
}

func (c *PPUControl) SpritePatternTable() uint16 {
	if c.bit(3) {
		return 0x1000
	}
	return 0x0000
}

func (c *PPUControl) BackgroundPatternTable() uint16 {
	if c.bit(4) {
		return 0x1000
	}
	return 0x0000
}

func (c *PPUControl) SpriteSize() uint8 { return c.field(5, 1) }
func (c *PPUControl) SlaveMode() bool   { return c.bit(6) }
func (c *PPUControl) EnableNMI() bool   { return c.bit(7) }

// PPUMask is PPUMASK ($2001, write only): grayscale, left-column masking,
// background/sprite enable, and color emphasis.
//
// Bit layout (BGRs bMmG):
//
//	7-5: emphasize blue/green/red     1: show background, leftmost 8px
//	  4: show sprites                 0: grayscale
//	  3: show background
//	  2: show sprites, leftmost 8px
type PPUMask struct{ flagRegister }

func (m *PPUMask) Grayscale() bool           { return m.bit(0) }
func (m *PPUMask) RenderBackgroundLeft() bool { return m.bit(1) }
func (m *PPUMask) RenderSpritesLeft() bool    { return m.bit(2) }
func (m *PPUMask) RenderBackground() bool     { return m.bit(3) }
func (m *PPUMask) RenderSprites() bool        { return m.bit(4) }
func (m *PPUMask) EmphasizeRed() bool         { return m.bit(5) }
func (m *PPUMask) EmphasizeGreen() bool       { return m.bit(6) }
func (m *PPUMask) EmphasizeBlue() bool        { return m.bit(7) }

// IsRenderingEnabled reports whether either layer is on.
func (m *PPUMask) IsRenderingEnabled() bool {
	return m.RenderBackground() || m.RenderSprites()
}

// PPUStatus is PPUSTATUS ($2002, read only): vblank, sprite-0 hit, and
// sprite-overflow flags. Bits 4-0 carry whatever was last driven onto the
// PPU's internal data bus (handled by the open-bus latch in ppu.go, not
// here).
//
// Bit layout (VSO- ----): 7 = vblank, 6 = sprite-0 hit, 5 = overflow.
type PPUStatus struct{ flagRegister }

func (s *PPUStatus) SetVBlank(v bool)         { s.setBit(7, v) }
func (s *PPUStatus) VBlank() bool             { return s.bit(7) }
func (s *PPUStatus) SetSprite0Hit(v bool)     { s.setBit(6, v) }
func (s *PPUStatus) Sprite0Hit() bool         { return s.bit(6) }
func (s *PPUStatus) SetSpriteOverflow(v bool) { s.setBit(5, v) }
func (s *PPUStatus) SpriteOverflow() bool     { return s.bit(5) }

// Loopy register field widths/offsets (named after Loopy's scroll-register
// documentation): a 15-bit value laid out yyy NN YYYYY XXXXX.
const (
	loopyCoarseXPos, loopyCoarseXWidth     = 0, 5
	loopyCoarseYPos, loopyCoarseYWidth     = 5, 5
	loopyNametableXPos                     = 10
	loopyNametableYPos                     = 11
	loopyFineYPos, loopyFineYWidth         = 12, 3
	loopyMask                      uint16 = 0x7FFF
)

// LoopyRegister is the PPU's internal 15-bit VRAM address/scroll register
// ("v" and "t" in Loopy's documentation): nametable select plus coarse and
// fine scroll position, packed so that incrementing it by 1 also steps the
// nametable fetch address.
type LoopyRegister struct {
	register uint16
}

func (l *LoopyRegister) Set(value uint16) { l.register = value & loopyMask }
func (l *LoopyRegister) Get() uint16      { return l.register }

func (l *LoopyRegister) loopyField(pos, width uint16) uint16 {
	return (l.register >> pos) & ((1 << width) - 1)
}

func (l *LoopyRegister) setLoopyField(pos, width, value uint16) {
	shiftMask := uint16((1 << width) - 1)
	l.register = (l.register &^ (shiftMask << pos)) | ((value & shiftMask) << pos)
}

func (l *LoopyRegister) CoarseX() uint16 { return l.loopyField(loopyCoarseXPos, loopyCoarseXWidth) }
func (l *LoopyRegister) SetCoarseX(v uint16) {
	l.setLoopyField(loopyCoarseXPos, loopyCoarseXWidth, v)
}

func (l *LoopyRegister) CoarseY() uint16 { return l.loopyField(loopyCoarseYPos, loopyCoarseYWidth) }
func (l *LoopyRegister) SetCoarseY(v uint16) {
	l.setLoopyField(loopyCoarseYPos, loopyCoarseYWidth, v)
}

func (l *LoopyRegister) NametableX() uint16 { return l.loopyField(loopyNametableXPos, 1) }
func (l *LoopyRegister) SetNametableX(v uint16) {
	l.setLoopyField(loopyNametableXPos, 1, v)
}

func (l *LoopyRegister) NametableY() uint16 { return l.loopyField(loopyNametableYPos, 1) }
func (l *LoopyRegister) SetNametableY(v uint16) {
	l.setLoopyField(loopyNametableYPos, 1, v)
}

func (l *LoopyRegister) FineY() uint16 { return l.loopyField(loopyFineYPos, loopyFineYWidth) }
func (l *LoopyRegister) SetFineY(v uint16) {
	l.setLoopyField(loopyFineYPos, loopyFineYWidth, v)
}

// IncrementX moves one tile right, wrapping coarse X at 32 and flipping the
// horizontal nametable bit when it does.
func (l *LoopyRegister) IncrementX() {
	if l.CoarseX() == 31 {
		l.SetCoarseX(0)
		l.SetNametableX(l.NametableX() ^ 1)
	} else {
		l.SetCoarseX(l.CoarseX() + 1)
	}
}

// IncrementY moves one scanline down: fine Y first, then coarse Y once fine
// Y wraps. Coarse Y 30/31 are the documented hardware quirk -- the
// nametable is only 30 rows tall, so 29->0 flips nametables but the
// unused 30/31 encoding (reachable only by direct register writes) wraps
// to 0 without flipping.
func (l *LoopyRegister) IncrementY() {
	if l.FineY() < 7 {
		l.SetFineY(l.FineY() + 1)
		return
	}

	l.SetFineY(0)
	switch y := l.CoarseY(); y {
	case 29:
		l.SetCoarseY(0)
		l.SetNametableY(l.NametableY() ^ 1)
	case 31:
		l.SetCoarseY(0)
	default:
		l.SetCoarseY(y + 1)
	}
}

// TransferX copies coarse X and nametable X from source (cycle 257: reset
// horizontal position for the next scanline).
func (l *LoopyRegister) TransferX(source *LoopyRegister) {
	const horizontalBits = 0x041F
	l.register = (l.register &^ horizontalBits) | (source.register & horizontalBits)
}

// TransferY copies fine Y, coarse Y, and nametable Y from source (cycles
// 280-304 of the pre-render line: reset vertical position for the frame).
func (l *LoopyRegister) TransferY(source *LoopyRegister) {
	const verticalBits = 0x7BE0
	l.register = (l.register &^ verticalBits) | (source.register & verticalBits)
}
