package cpu

// Addressing modes.
const (
	modeImp uint8 = iota // implied, no operand
	modeAcc              // accumulator
	modeImm              // immediate
	modeZp
	modeZpx
	modeZpy
	modeAbs
	modeAbsx
	modeAbsy
	modeInd
	modeIndx
	modeIndy
	modeRel
)

// Instruction kinds, orthogonal to addressing mode: they determine which
// micro-op shape (read-only, write-only, read-modify-write, or control
// flow) the addressing mode builder appends.
const (
	kindRead uint8 = iota
	kindWrite
	kindRMW
	kindImplied // operates on registers only, one extra cycle with no bus access
	kindBranch
	kindJump // JMP absolute / JMP indirect
	kindJSR
	kindRTS
	kindRTI
	kindPush
	kindPull
	kindBRK
	kindJam
)

type instruction struct {
	name string
	mode uint8
	kind uint8
}

// instructionTable is indexed by opcode byte. Unofficial opcodes are named
// by their commonly used mnemonics (SLO, RLA, SRE, RRA, DCP, ISC, LAX, SAX,
// ANC, ALR, ARR, AXS, LAS, SHX, SHY, TAS, AHX, XAA); JAM entries halt.
var instructionTable = [256]instruction{
	0x00: {"BRK", modeImp, kindBRK},
	0x01: {"ORA", modeIndx, kindRead},
	0x02: {"JAM", modeImp, kindJam},
	0x03: {"SLO", modeIndx, kindRMW},
	0x04: {"NOP", modeZp, kindRead},
	0x05: {"ORA", modeZp, kindRead},
	0x06: {"ASL", modeZp, kindRMW},
	0x07: {"SLO", modeZp, kindRMW},
	0x08: {"PHP", modeImp, kindPush},
	0x09: {"ORA", modeImm, kindRead},
	0x0A: {"ASL", modeAcc, kindImplied},
	0x0B: {"ANC", modeImm, kindRead},
	0x0C: {"NOP", modeAbs, kindRead},
	0x0D: {"ORA", modeAbs, kindRead},
	0x0E: {"ASL", modeAbs, kindRMW},
	0x0F: {"SLO", modeAbs, kindRMW},

	0x10: {"BPL", modeRel, kindBranch},
	0x11: {"ORA", modeIndy, kindRead},
	0x12: {"JAM", modeImp, kindJam},
	0x13: {"SLO", modeIndy, kindRMW},
	0x14: {"NOP", modeZpx, kindRead},
	0x15: {"ORA", modeZpx, kindRead},
	0x16: {"ASL", modeZpx, kindRMW},
	0x17: {"SLO", modeZpx, kindRMW},
	0x18: {"CLC", modeImp, kindImplied},
	0x19: {"ORA", modeAbsy, kindRead},
	0x1A: {"NOP", modeImp, kindImplied},
	0x1B: {"SLO", modeAbsy, kindRMW},
	0x1C: {"NOP", modeAbsx, kindRead},
	0x1D: {"ORA", modeAbsx, kindRead},
	0x1E: {"ASL", modeAbsx, kindRMW},
	0x1F: {"SLO", modeAbsx, kindRMW},

	0x20: {"JSR", modeAbs, kindJSR},
	0x21: {"AND", modeIndx, kindRead},
	0x22: {"JAM", modeImp, kindJam},
	0x23: {"RLA", modeIndx, kindRMW},
	0x24: {"BIT", modeZp, kindRead},
	0x25: {"AND", modeZp, kindRead},
	0x26: {"ROL", modeZp, kindRMW},
	0x27: {"RLA", modeZp, kindRMW},
	0x28: {"PLP", modeImp, kindPull},
	0x29: {"AND", modeImm, kindRead},
	0x2A: {"ROL", modeAcc, kindImplied},
	0x2B: {"ANC", modeImm, kindRead},
	0x2C: {"BIT", modeAbs, kindRead},
	0x2D: {"AND", modeAbs, kindRead},
	0x2E: {"ROL", modeAbs, kindRMW},
	0x2F: {"RLA", modeAbs, kindRMW},

	0x30: {"BMI", modeRel, kindBranch},
	0x31: {"AND", modeIndy, kindRead},
	0x32: {"JAM", modeImp, kindJam},
	0x33: {"RLA", modeIndy, kindRMW},
	0x34: {"NOP", modeZpx, kindRead},
	0x35: {"AND", modeZpx, kindRead},
	0x36: {"ROL", modeZpx, kindRMW},
	0x37: {"RLA", modeZpx, kindRMW},
	0x38: {"SEC", modeImp, kindImplied},
	0x39: {"AND", modeAbsy, kindRead},
	0x3A: {"NOP", modeImp, kindImplied},
	0x3B: {"RLA", modeAbsy, kindRMW},
	0x3C: {"NOP", modeAbsx, kindRead},
	0x3D: {"AND", modeAbsx, kindRead},
	0x3E: {"ROL", modeAbsx, kindRMW},
	0x3F: {"RLA", modeAbsx, kindRMW},

	0x40: {"RTI", modeImp, kindRTI},
	0x41: {"EOR", modeIndx, kindRead},
	0x42: {"JAM", modeImp, kindJam},
	0x43: {"SRE", modeIndx, kindRMW},
	0x44: {"NOP", modeZp, kindRead},
	0x45: {"EOR", modeZp, kindRead},
	0x46: {"LSR", modeZp, kindRMW},
	0x47: {"SRE", modeZp, kindRMW},
	0x48: {"PHA", modeImp, kindPush},
	0x49: {"EOR", modeImm, kindRead},
	0x4A: {"LSR", modeAcc, kindImplied},
	0x4B: {"ALR", modeImm, kindRead},
	0x4C: {"JMP", modeAbs, kindJump},
	0x4D: {"EOR", modeAbs, kindRead},
	0x4E: {"LSR", modeAbs, kindRMW},
	0x4F: {"SRE", modeAbs, kindRMW},

	0x50: {"BVC", modeRel, kindBranch},
	0x51: {"EOR", modeIndy, kindRead},
	0x52: {"JAM", modeImp, kindJam},
	0x53: {"SRE", modeIndy, kindRMW},
	0x54: {"NOP", modeZpx, kindRead},
	0x55: {"EOR", modeZpx, kindRead},
	0x56: {"LSR", modeZpx, kindRMW},
	0x57: {"SRE", modeZpx, kindRMW},
	0x58: {"CLI", modeImp, kindImplied},
	0x59: {"EOR", modeAbsy, kindRead},
	0x5A: {"NOP", modeImp, kindImplied},
	0x5B: {"SRE", modeAbsy, kindRMW},
	0x5C: {"NOP", modeAbsx, kindRead},
	0x5D: {"EOR", modeAbsx, kindRead},
	0x5E: {"LSR", modeAbsx, kindRMW},
	0x5F: {"SRE", modeAbsx, kindRMW},

	0x60: {"RTS", modeImp, kindRTS},
	0x61: {"ADC", modeIndx, kindRead},
	0x62: {"JAM", modeImp, kindJam},
	0x63: {"RRA", modeIndx, kindRMW},
	0x64: {"NOP", modeZp, kindRead},
	0x65: {"ADC", modeZp, kindRead},
	0x66: {"ROR", modeZp, kindRMW},
	0x67: {"RRA", modeZp, kindRMW},
	0x68: {"PLA", modeImp, kindPull},
	0x69: {"ADC", modeImm, kindRead},
	0x6A: {"ROR", modeAcc, kindImplied},
	0x6B: {"ARR", modeImm, kindRead},
	0x6C: {"JMP", modeInd, kindJump},
	0x6D: {"ADC", modeAbs, kindRead},
	0x6E: {"ROR", modeAbs, kindRMW},
	0x6F: {"RRA", modeAbs, kindRMW},

	0x70: {"BVS", modeRel, kindBranch},
	0x71: {"ADC", modeIndy, kindRead},
	0x72: {"JAM", modeImp, kindJam},
	0x73: {"RRA", modeIndy, kindRMW},
	0x74: {"NOP", modeZpx, kindRead},
	0x75: {"ADC", modeZpx, kindRead},
	0x76: {"ROR", modeZpx, kindRMW},
	0x77: {"RRA", modeZpx, kindRMW},
	0x78: {"SEI", modeImp, kindImplied},
	0x79: {"ADC", modeAbsy, kindRead},
	0x7A: {"NOP", modeImp, kindImplied},
	0x7B: {"RRA", modeAbsy, kindRMW},
	0x7C: {"NOP", modeAbsx, kindRead},
	0x7D: {"ADC", modeAbsx, kindRead},
	0x7E: {"ROR", modeAbsx, kindRMW},
	0x7F: {"RRA", modeAbsx, kindRMW},

	0x80: {"NOP", modeImm, kindRead},
	0x81: {"STA", modeIndx, kindWrite},
	0x82: {"NOP", modeImm, kindRead},
	0x83: {"SAX", modeIndx, kindWrite},
	0x84: {"STY", modeZp, kindWrite},
	0x85: {"STA", modeZp, kindWrite},
	0x86: {"STX", modeZp, kindWrite},
	0x87: {"SAX", modeZp, kindWrite},
	0x88: {"DEY", modeImp, kindImplied},
	0x89: {"NOP", modeImm, kindRead},
	0x8A: {"TXA", modeImp, kindImplied},
	0x8B: {"XAA", modeImm, kindRead},
	0x8C: {"STY", modeAbs, kindWrite},
	0x8D: {"STA", modeAbs, kindWrite},
	0x8E: {"STX", modeAbs, kindWrite},
	0x8F: {"SAX", modeAbs, kindWrite},

	0x90: {"BCC", modeRel, kindBranch},
	0x91: {"STA", modeIndy, kindWrite},
	0x92: {"JAM", modeImp, kindJam},
	0x93: {"AHX", modeIndy, kindWrite},
	0x94: {"STY", modeZpx, kindWrite},
	0x95: {"STA", modeZpx, kindWrite},
	0x96: {"STX", modeZpy, kindWrite},
	0x97: {"SAX", modeZpy, kindWrite},
	0x98: {"TYA", modeImp, kindImplied},
	0x99: {"STA", modeAbsy, kindWrite},
	0x9A: {"TXS", modeImp, kindImplied},
	0x9B: {"TAS", modeAbsy, kindWrite},
	0x9C: {"SHY", modeAbsx, kindWrite},
	0x9D: {"STA", modeAbsx, kindWrite},
	0x9E: {"SHX", modeAbsy, kindWrite},
	0x9F: {"AHX", modeAbsy, kindWrite},

	0xA0: {"LDY", modeImm, kindRead},
	0xA1: {"LDA", modeIndx, kindRead},
	0xA2: {"LDX", modeImm, kindRead},
	0xA3: {"LAX", modeIndx, kindRead},
	0xA4: {"LDY", modeZp, kindRead},
	0xA5: {"LDA", modeZp, kindRead},
	0xA6: {"LDX", modeZp, kindRead},
	0xA7: {"LAX", modeZp, kindRead},
	0xA8: {"TAY", modeImp, kindImplied},
	0xA9: {"LDA", modeImm, kindRead},
	0xAA: {"TAX", modeImp, kindImplied},
	0xAB: {"LAX", modeImm, kindRead},
	0xAC: {"LDY", modeAbs, kindRead},
	0xAD: {"LDA", modeAbs, kindRead},
	0xAE: {"LDX", modeAbs, kindRead},
	0xAF: {"LAX", modeAbs, kindRead},

	0xB0: {"BCS", modeRel, kindBranch},
	0xB1: {"LDA", modeIndy, kindRead},
	0xB2: {"JAM", modeImp, kindJam},
	0xB3: {"LAX", modeIndy, kindRead},
	0xB4: {"LDY", modeZpx, kindRead},
	0xB5: {"LDA", modeZpx, kindRead},
	0xB6: {"LDX", modeZpy, kindRead},
	0xB7: {"LAX", modeZpy, kindRead},
	0xB8: {"CLV", modeImp, kindImplied},
	0xB9: {"LDA", modeAbsy, kindRead},
	0xBA: {"TSX", modeImp, kindImplied},
	0xBB: {"LAS", modeAbsy, kindRead},
	0xBC: {"LDY", modeAbsx, kindRead},
	0xBD: {"LDA", modeAbsx, kindRead},
	0xBE: {"LDX", modeAbsy, kindRead},
	0xBF: {"LAX", modeAbsy, kindRead},

	0xC0: {"CPY", modeImm, kindRead},
	0xC1: {"CMP", modeIndx, kindRead},
	0xC2: {"NOP", modeImm, kindRead},
	0xC3: {"DCP", modeIndx, kindRMW},
	0xC4: {"CPY", modeZp, kindRead},
	0xC5: {"CMP", modeZp, kindRead},
	0xC6: {"DEC", modeZp, kindRMW},
	0xC7: {"DCP", modeZp, kindRMW},
	0xC8: {"INY", modeImp, kindImplied},
	0xC9: {"CMP", modeImm, kindRead},
	0xCA: {"DEX", modeImp, kindImplied},
	0xCB: {"AXS", modeImm, kindRead},
	0xCC: {"CPY", modeAbs, kindRead},
	0xCD: {"CMP", modeAbs, kindRead},
	0xCE: {"DEC", modeAbs, kindRMW},
	0xCF: {"DCP", modeAbs, kindRMW},

	0xD0: {"BNE", modeRel, kindBranch},
	0xD1: {"CMP", modeIndy, kindRead},
	0xD2: {"JAM", modeImp, kindJam},
	0xD3: {"DCP", modeIndy, kindRMW},
	0xD4: {"NOP", modeZpx, kindRead},
	0xD5: {"CMP", modeZpx, kindRead},
	0xD6: {"DEC", modeZpx, kindRMW},
	0xD7: {"DCP", modeZpx, kindRMW},
	0xD8: {"CLD", modeImp, kindImplied},
	0xD9: {"CMP", modeAbsy, kindRead},
	0xDA: {"NOP", modeImp, kindImplied},
	0xDB: {"DCP", modeAbsy, kindRMW},
	0xDC: {"NOP", modeAbsx, kindRead},
	0xDD: {"CMP", modeAbsx, kindRead},
	0xDE: {"DEC", modeAbsx, kindRMW},
	0xDF: {"DCP", modeAbsx, kindRMW},

	0xE0: {"CPX", modeImm, kindRead},
	0xE1: {"SBC", modeIndx, kindRead},
	0xE2: {"NOP", modeImm, kindRead},
	0xE3: {"ISC", modeIndx, kindRMW},
	0xE4: {"CPX", modeZp, kindRead},
	0xE5: {"SBC", modeZp, kindRead},
	0xE6: {"INC", modeZp, kindRMW},
	0xE7: {"ISC", modeZp, kindRMW},
	0xE8: {"INX", modeImp, kindImplied},
	0xE9: {"SBC", modeImm, kindRead},
	0xEA: {"NOP", modeImp, kindImplied},
	0xEB: {"SBC", modeImm, kindRead},
	0xEC: {"CPX", modeAbs, kindRead},
	0xED: {"SBC", modeAbs, kindRead},
	0xEE: {"INC", modeAbs, kindRMW},
	0xEF: {"ISC", modeAbs, kindRMW},

	0xF0: {"BEQ", modeRel, kindBranch},
	0xF1: {"SBC", modeIndy, kindRead},
	0xF2: {"JAM", modeImp, kindJam},
	0xF3: {"ISC", modeIndy, kindRMW},
	0xF4: {"NOP", modeZpx, kindRead},
	0xF5: {"SBC", modeZpx, kindRead},
	0xF6: {"INC", modeZpx, kindRMW},
	0xF7: {"ISC", modeZpx, kindRMW},
	0xF8: {"SED", modeImp, kindImplied},
	0xF9: {"SBC", modeAbsy, kindRead},
	0xFA: {"NOP", modeImp, kindImplied},
	0xFB: {"ISC", modeAbsy, kindRMW},
	0xFC: {"NOP", modeAbsx, kindRead},
	0xFD: {"SBC", modeAbsx, kindRead},
	0xFE: {"INC", modeAbsx, kindRMW},
	0xFF: {"ISC", modeAbsx, kindRMW},
}
