package apu

// dutyTable holds the four pulse-channel duty cycle waveforms, 8 steps each.
var dutyTable = [4][8]uint8{
	{0, 1, 1, 0, 0, 0, 0, 0},
	{0, 1, 1, 1, 0, 0, 0, 0},
	{0, 1, 1, 1, 1, 0, 0, 0},
	{1, 0, 0, 1, 1, 1, 1, 1},
}

// triangleTable is the 32-step triangle waveform, ramping 15 down to 0
// then back up to 15.
var triangleTable = [32]uint8{
	0x0F, 0x0E, 0x0D, 0x0C, 0x0B, 0x0A, 0x09, 0x08,
	0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01, 0x00,
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
}

// lengthTable converts a 5-bit length-counter load value into a count.
var lengthTable = [32]uint8{
	0x0A, 0xFE, 0x14, 0x02, 0x28, 0x04, 0x50, 0x06,
	0xA0, 0x08, 0x3C, 0x0A, 0x0E, 0x0C, 0x1A, 0x0E,
	0x0C, 0x10, 0x18, 0x12, 0x30, 0x14, 0x60, 0x16,
	0xC0, 0x18, 0x48, 0x1A, 0x10, 0x1C, 0x20, 0x1E,
}

// noisePeriodTable converts the low nibble of $400E into a timer period.
var noisePeriodTable = [16]uint16{
	0x0004, 0x0008, 0x0010, 0x0020, 0x0040, 0x0060, 0x0080, 0x00A0,
	0x00CA, 0x00FE, 0x017C, 0x01FC, 0x02FA, 0x03F8, 0x07F2, 0x0FE4,
}

// dmcPeriodTable converts the low nibble of $4010 into a DMC timer period.
var dmcPeriodTable = [16]uint16{
	0x01AC, 0x017C, 0x0154, 0x0140, 0x011E, 0x00FE, 0x00E2, 0x00D6,
	0x00BE, 0x00A0, 0x008E, 0x0080, 0x006A, 0x0054, 0x0048, 0x0036,
}

// cpuClockHz is the NTSC CPU/APU cycle clock used to derive the resampler
// accumulator step and the frame-sequencer cycle numbers below.
const cpuClockHz = 1789773.0

// Frame sequencer cycle numbers (in CPU cycles since the last reset).
const (
	frameQuarter1 = 7457
	frameHalf1    = 14913
	frameQuarter2 = 22371
	frame4Half2   = 29829
	frame4Reset   = 29830
	frame5Half2   = 37281
	frame5Reset   = 37282
)
