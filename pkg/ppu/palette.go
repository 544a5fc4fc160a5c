package ppu

// Color represents an RGBA color, alpha always opaque.
type Color struct {
	R, G, B, A uint8
}

// hardwarePalette is the 64-entry NTSC NES color table, transcribed from
// the reference implementation's 0xAARRGGBB constants rather than
// re-derived, since hand-tuned palettes disagree with each other in the
// low-saturation entries.
var hardwarePalette = [64]Color{
	argb(0xFF666666), argb(0xFF002A88), argb(0xFF1412A7), argb(0xFF3B00A4),
	argb(0xFF5C007E), argb(0xFF6E0040), argb(0xFF6C0600), argb(0xFF561D00),
	argb(0xFF333500), argb(0xFF0B4800), argb(0xFF005200), argb(0xFF004F08),
	argb(0xFF00404D), argb(0xFF000000), argb(0xFF000000), argb(0xFF000000),
	argb(0xFFADADAD), argb(0xFF155FD9), argb(0xFF4240FF), argb(0xFF7527FE),
	argb(0xFFA01ACC), argb(0xFFB71E7B), argb(0xFFB53120), argb(0xFF994E00),
	argb(0xFF6B6D00), argb(0xFF388700), argb(0xFF0C9300), argb(0xFF008F32),
	argb(0xFF007C8D), argb(0xFF000000), argb(0xFF000000), argb(0xFF000000),
	argb(0xFFFFFEFF), argb(0xFF64B0FF), argb(0xFF9290FF), argb(0xFFC676FF),
	argb(0xFFF36AFF), argb(0xFFFE6ECC), argb(0xFFFE8170), argb(0xFFEA9E22),
	argb(0xFFBCBE00), argb(0xFF88D800), argb(0xFF5CE430), argb(0xFF45E082),
	argb(0xFF48CDDE), argb(0xFF4F4F4F), argb(0xFF000000), argb(0xFF000000),
	argb(0xFFFFFEFF), argb(0xFFC0DFFF), argb(0xFFD3D2FF), argb(0xFFE8C8FF),
	argb(0xFFFBC2FF), argb(0xFFFEC4EA), argb(0xFFFECCC5), argb(0xFFF7D8A5),
	argb(0xFFE4E594), argb(0xFFCFEF96), argb(0xFFBDF4AB), argb(0xFFB3F3CC),
	argb(0xFFB5EBF2), argb(0xFFB8B8B8), argb(0xFF000000), argb(0xFF000000),
}

func argb(v uint32) Color {
	return Color{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// GetColorFromPalette retrieves an RGB color through the palette RAM.
//
// paletteIndex: which of the 8 palettes (0-3 background, 4-7 sprite)
// pixelValue: which color within the palette (0-3)
func (p *PPU) GetColorFromPalette(paletteIndex uint8, pixelValue uint8) Color {
	address := uint16((paletteIndex << 2) | (pixelValue & 0x03))
	colorIndex := p.ppuRead(0x3F00+address) & 0x3F
	return hardwarePalette[colorIndex]
}
