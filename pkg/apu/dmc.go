package apu

// DMCChannel implements the delta-modulation sample playback channel. It
// borrows read access to the CPU bus to DMA sample bytes directly from
// PRG space.
type DMCChannel struct {
	enabled bool

	irqEnable  bool
	loop       bool
	timerPeriod uint16
	timer       uint16

	sampleAddress  uint16
	sampleLength   uint16
	transferAddr   uint16
	transferCount  uint16

	sampleBuffer      uint8
	sampleBufferEmpty bool

	outputRegister uint8
	outputEnable   bool
	outputTime     uint8
	output         uint8

	interrupt bool

	// stallRequest accumulates CPU stall cycles requested by sample DMA;
	// the machine drains it into the CPU's stall counter once per step.
	stallRequest uint16
}

func newDMCChannel() *DMCChannel {
	return &DMCChannel{sampleBufferEmpty: true}
}

func (d *DMCChannel) setEnabled(enabled bool) {
	d.enabled = enabled
	if !enabled {
		d.transferCount = 0
	} else if d.transferCount == 0 {
		d.transferAddr = d.sampleAddress
		d.transferCount = d.sampleLength
	}
}

// WriteControl handles $4010.
func (d *DMCChannel) WriteControl(data uint8) {
	d.irqEnable = data&0x80 != 0
	d.loop = data&0x40 != 0
	d.timerPeriod = dmcPeriodTable[data&0x0F]
	if !d.irqEnable {
		d.interrupt = false
	}
}

// WriteOutput handles $4011 (direct load).
func (d *DMCChannel) WriteOutput(data uint8) {
	d.output = data & 0x7F
}

// WriteSampleAddress handles $4012.
func (d *DMCChannel) WriteSampleAddress(data uint8) {
	d.sampleAddress = 0xC000 + uint16(data)*64
}

// WriteSampleLength handles $4013.
func (d *DMCChannel) WriteSampleLength(data uint8) {
	d.sampleLength = uint16(data)*16 + 1
}

// TransferActive reports whether $4015 bit 4 (sample bytes remaining) is set.
func (d *DMCChannel) TransferActive() bool {
	return d.transferCount > 0
}

// step runs the sample-DMA and output-unit logic; busRead services the
// DMA fetch from CPU address space.
func (d *DMCChannel) step(cycleIsEven bool, busRead func(uint16) uint8) {
	if d.sampleBufferEmpty && d.transferCount > 0 {
		d.stallRequest += 4
		d.sampleBuffer = busRead(d.transferAddr)
		d.sampleBufferEmpty = false
		d.transferAddr = (d.transferAddr + 1) | 0x8000
		d.transferCount--

		if d.transferCount == 0 {
			if d.loop {
				d.transferAddr = d.sampleAddress
				d.transferCount = d.sampleLength
			} else if d.irqEnable {
				d.interrupt = true
			}
		}
	}

	if !cycleIsEven {
		return
	}

	if d.timer == 0 {
		if d.outputEnable {
			if d.outputRegister&1 != 0 {
				if d.output <= 125 {
					d.output += 2
				}
			} else if d.output >= 2 {
				d.output -= 2
			}
		}

		d.outputRegister >>= 1
		d.outputTime = (d.outputTime + 1) % 8

		if d.outputTime == 0 {
			d.outputRegister = d.sampleBuffer
			d.outputEnable = !d.sampleBufferEmpty
			d.sampleBufferEmpty = true
		}

		d.timer = d.timerPeriod
	} else {
		d.timer--
	}
}

func (d *DMCChannel) outputLevel() uint8 {
	if !d.enabled || !d.outputEnable {
		return 0
	}
	return d.output
}
