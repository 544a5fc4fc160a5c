package apu

// EnvelopeGenerator is the divider+decay-counter unit shared by the pulse
// and noise channels.
type EnvelopeGenerator struct {
	loop           bool
	constantVolume bool
	volumeOrPeriod uint8

	start        bool
	dividerCount uint8
	decayLevel   uint8
}

func (e *EnvelopeGenerator) writeControl(data uint8) {
	e.loop = data&0x20 != 0
	e.constantVolume = data&0x10 != 0
	e.volumeOrPeriod = data & 0x0F
}

func (e *EnvelopeGenerator) restart() {
	e.start = true
}

// clock runs on every quarter-frame tick.
func (e *EnvelopeGenerator) clock() {
	if e.start {
		e.start = false
		e.decayLevel = 15
		e.dividerCount = e.volumeOrPeriod
		return
	}
	if e.dividerCount > 0 {
		e.dividerCount--
		return
	}
	e.dividerCount = e.volumeOrPeriod
	if e.decayLevel > 0 {
		e.decayLevel--
	} else if e.loop {
		e.decayLevel = 15
	}
}

func (e *EnvelopeGenerator) output() uint8 {
	if e.constantVolume {
		return e.volumeOrPeriod
	}
	return e.decayLevel
}

// LengthCounter is the shared silence-after-N-half-frames unit. counting
// tracks the inverse of the channel's halt flag (bit 5 of its control
// register); channelEnabled tracks the corresponding bit of $4015, which
// additionally zeroes value when cleared and gates loads.
type LengthCounter struct {
	counting      bool
	channelEnabled bool
	value         uint8
}

func (l *LengthCounter) setChannelEnabled(enabled bool) {
	l.channelEnabled = enabled
	if !enabled {
		l.value = 0
	}
}

func (l *LengthCounter) load(index uint8) {
	if l.channelEnabled {
		l.value = lengthTable[index]
	}
}

func (l *LengthCounter) clock() {
	if l.counting && l.value > 0 {
		l.value--
	}
}

func (l *LengthCounter) active() bool {
	return l.value > 0
}
