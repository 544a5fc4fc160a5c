// Package apu implements the NES's five-channel audio processor: two pulse
// generators, a triangle, a noise generator, and a delta-modulation sample
// player, driven by a shared frame sequencer and mixed down to a resampled
// 8-bit mono stream.
package apu

// BusReader is the narrow read-only view of the CPU bus the DMC channel
// needs for its sample DMA.
type BusReader interface {
	Read(addr uint16) uint8
}

// audioRingSize is the capacity of the host-facing sample ring; samples are
// dropped once it fills, per the design's no-backpressure contract.
const audioRingSize = 8192

// APU owns the five channels, the frame sequencer, and the resampler.
type APU struct {
	Pulse1   *PulseChannel
	Pulse2   *PulseChannel
	Triangle TriangleChannel
	Noise    *NoiseChannel
	DMC      *DMCChannel

	bus BusReader

	cycle uint64

	frameCycle         uint32
	frameCounterMode   uint8 // 0 = 4-step, 1 = 5-step
	frameIRQDisable    bool
	frameInterrupt     bool
	frameInterruptAt   uint32
	frameResetTimer    uint8

	sampleRate   float64
	sampleAccum  float64
	lastSample   float64

	ring     [audioRingSize]uint8
	ringHead int
	ringTail int
	ringFull bool
}

// New creates an APU with all channels reset to power-on state, resampling
// to the given host sample rate (nominally 44,100 Hz).
func New(bus BusReader, sampleRate float64) *APU {
	a := &APU{
		Pulse1:     newPulseChannel(0),
		Pulse2:     newPulseChannel(1),
		Noise:      newNoiseChannel(),
		DMC:        newDMCChannel(),
		bus:        bus,
		sampleRate: sampleRate,
	}
	return a
}

// Reset returns the APU to power-on state without reallocating channels.
func (a *APU) Reset() {
	*a.Pulse1 = *newPulseChannel(0)
	*a.Pulse2 = *newPulseChannel(1)
	a.Triangle = TriangleChannel{}
	*a.Noise = *newNoiseChannel()
	*a.DMC = *newDMCChannel()
	a.cycle = 0
	a.frameCycle = 0
	a.frameCounterMode = 0
	a.frameIRQDisable = false
	a.frameInterrupt = false
	a.frameResetTimer = 0
	a.sampleAccum = 0
	a.lastSample = 0
	a.ringHead, a.ringTail, a.ringFull = 0, 0, false
}

// WriteRegister handles CPU writes in $4000-$4013/$4015/$4017.
func (a *APU) WriteRegister(addr uint16, data uint8) {
	switch addr {
	case 0x4000:
		a.Pulse1.WriteControl(data)
	case 0x4001:
		a.Pulse1.WriteSweep(data)
	case 0x4002:
		a.Pulse1.WriteTimerLow(data)
	case 0x4003:
		a.Pulse1.WriteTimerHigh(data)
	case 0x4004:
		a.Pulse2.WriteControl(data)
	case 0x4005:
		a.Pulse2.WriteSweep(data)
	case 0x4006:
		a.Pulse2.WriteTimerLow(data)
	case 0x4007:
		a.Pulse2.WriteTimerHigh(data)
	case 0x4008:
		a.Triangle.WriteLinearCounter(data)
	case 0x400A:
		a.Triangle.WriteTimerLow(data)
	case 0x400B:
		a.Triangle.WriteTimerHigh(data)
	case 0x400C:
		a.Noise.WriteControl(data)
	case 0x400E:
		a.Noise.WritePeriod(data)
	case 0x400F:
		a.Noise.WriteLength(data)
	case 0x4010:
		a.DMC.WriteControl(data)
	case 0x4011:
		a.DMC.WriteOutput(data)
	case 0x4012:
		a.DMC.WriteSampleAddress(data)
	case 0x4013:
		a.DMC.WriteSampleLength(data)
	case 0x4015:
		a.Pulse1.setEnabled(data&0x01 != 0)
		a.Pulse2.setEnabled(data&0x02 != 0)
		a.Triangle.setEnabled(data&0x04 != 0)
		a.Noise.setEnabled(data&0x08 != 0)
		a.DMC.setEnabled(data&0x10 != 0)
	case 0x4017:
		a.frameCounterMode = (data >> 7) & 0x01
		a.frameIRQDisable = data&0x40 != 0
		if a.frameCycle%2 == 0 {
			a.frameResetTimer = 4
		} else {
			a.frameResetTimer = 3
		}
		if a.frameIRQDisable {
			a.frameInterrupt = false
		}
	}
}

// ReadStatus handles a CPU read of $4015.
func (a *APU) ReadStatus() uint8 {
	var value uint8
	if a.Pulse1.length.active() {
		value |= 0x01
	}
	if a.Pulse2.length.active() {
		value |= 0x02
	}
	if a.Triangle.length.active() {
		value |= 0x04
	}
	if a.Noise.length.active() {
		value |= 0x08
	}
	if a.DMC.TransferActive() {
		value |= 0x10
	}
	if a.frameInterrupt {
		value |= 0x40
	}
	if a.DMC.interrupt {
		value |= 0x80
	}
	if a.frameCycle != a.frameInterruptAt {
		a.frameInterrupt = false
	}
	return value
}

// FrameInterrupt reports whether the frame sequencer's IRQ line is high.
func (a *APU) FrameInterrupt() bool {
	return a.frameInterrupt
}

// DMCInterrupt reports whether the DMC channel's IRQ line is high.
func (a *APU) DMCInterrupt() bool {
	return a.DMC.interrupt
}

// TakeStall drains and returns any CPU stall cycles the DMC sample-DMA
// logic has requested since the last call.
func (a *APU) TakeStall() uint16 {
	s := a.DMC.stallRequest
	a.DMC.stallRequest = 0
	return s
}

// Step advances the APU by one CPU cycle.
func (a *APU) Step() {
	a.cycle++
	a.frameCycle++

	quarter, half, interrupt := false, false, false

	if a.frameResetTimer > 0 {
		a.frameResetTimer--
		if a.frameResetTimer == 0 {
			a.frameCycle = 0
			if a.frameCounterMode == 1 {
				quarter, half = true, true
			}
		}
	}

	if a.frameCounterMode == 1 {
		switch a.frameCycle {
		case frameQuarter1, frameQuarter2:
			quarter = true
		case frameHalf1, frame5Half2:
			quarter, half = true, true
		}
		if a.frameCycle == frame5Reset {
			a.frameCycle = 0
		}
	} else {
		switch a.frameCycle {
		case frameQuarter1, frameQuarter2:
			quarter = true
		case frameHalf1, frame4Half2:
			quarter, half = true, true
		}
		if a.frameCycle >= frame4Half2-1 && a.frameCycle <= frame4Reset {
			interrupt = true
		}
		if a.frameCycle == frame4Reset {
			a.frameCycle = 0
		}
	}

	if interrupt && !a.frameIRQDisable {
		a.frameInterruptAt = a.frameCycle
		a.frameInterrupt = true
	}

	if quarter {
		a.Pulse1.clockQuarterFrame()
		a.Pulse2.clockQuarterFrame()
		a.Triangle.clockQuarterFrame()
		a.Noise.clockQuarterFrame()
	}
	if half {
		a.Pulse1.clockHalfFrame()
		a.Pulse2.clockHalfFrame()
		a.Triangle.clockHalfFrame()
		a.Noise.clockHalfFrame()
	}

	cycleIsEven := a.frameCycle%2 == 0
	if cycleIsEven {
		a.Pulse1.clockTimer()
		a.Pulse2.clockTimer()
		a.Noise.clockTimer()
	}
	a.Triangle.clockTimer()

	var busRead func(uint16) uint8
	if a.bus != nil {
		busRead = a.bus.Read
	} else {
		busRead = func(uint16) uint8 { return 0 }
	}
	a.DMC.step(cycleIsEven, busRead)

	a.sampleAccum += a.sampleRate / cpuClockHz
	for a.sampleAccum >= 1.0 {
		a.sampleAccum -= 1.0
		a.emitSample()
	}
}

// emitSample mixes the current channel outputs through the documented
// two-term non-linear mixer and appends one byte to the audio ring.
func (a *APU) emitSample() {
	pValue := uint32(a.Pulse1.output()) + uint32(a.Pulse2.output())
	tValue := uint32(a.Triangle.output())
	nValue := uint32(a.Noise.output())
	dValue := uint32(a.DMC.outputLevel())

	var out float64
	if pValue > 0 {
		out += 95.88 / (100.0 + 8128.0/float64(pValue))
	}
	if tValue > 0 || nValue > 0 || dValue > 0 {
		d := float64(tValue)/8227.0 + float64(nValue)/12241.0 + float64(dValue)/22638.0
		out += 159.79 / (100.0 + 1.0/d)
	}
	if out > 1.0 {
		out = 1.0
	}
	a.lastSample = out

	a.pushSample(uint8(out * 255.0))
}

func (a *APU) pushSample(s uint8) {
	if a.ringFull {
		return
	}
	a.ring[a.ringHead] = s
	a.ringHead = (a.ringHead + 1) % audioRingSize
	if a.ringHead == a.ringTail {
		a.ringFull = true
	}
}

// ReadSamples drains up to len(dst) queued samples into dst, returning the
// number copied.
func (a *APU) ReadSamples(dst []uint8) int {
	n := 0
	for n < len(dst) && (a.ringTail != a.ringHead || a.ringFull) {
		dst[n] = a.ring[a.ringTail]
		a.ringTail = (a.ringTail + 1) % audioRingSize
		a.ringFull = false
		n++
	}
	return n
}
