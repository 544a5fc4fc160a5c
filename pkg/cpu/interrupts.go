package cpu

const (
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Reset loads PC from the reset vector and puts the CPU in its post-power
// state. The real reset sequence takes 7 cycles and performs three dummy
// stack "pulls" (SP-=3 without writing); since nothing observes the bus
// during those cycles on power-up, this applies the net effect directly
// rather than queuing micro-ops for it.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.C, c.Z, c.D, c.V, c.N = false, false, false, false, false
	c.I = true
	c.instrStartI = true
	lo := uint16(c.Bus.Read(resetVector))
	hi := uint16(c.Bus.Read(resetVector + 1))
	c.PC = hi<<8 | lo
	c.queue = nil
	c.Halted = false
	c.pendingKind = none
	c.internalNMI = false
}

// sequenceBRK builds the software-interrupt (BRK) sequence: it differs
// from a hardware IRQ/NMI only in that it reads (and discards) a padding
// byte first and sets the B flag in the pushed status.
func (c *CPU) sequenceBRK() []microOp {
	return []microOp{
		{accessesMemory: true, run: func(c *CPU) { c.Bus.Read(c.PC); c.PC++ }},
		{run: func(c *CPU) { c.push(uint8(c.PC >> 8)) }},
		{run: func(c *CPU) { c.push(uint8(c.PC)) }},
		{run: func(c *CPU) {
			vector := irqVector
			if c.internalNMI {
				vector = nmiVector
				c.internalNMI = false
			}
			c.push(c.packStatus(true))
			c.I = true
			c.addr = uint16(vector)
		}},
		{accessesMemory: true, run: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.addr)) }},
		{accessesMemory: true, run: func(c *CPU) {
			hi := uint16(c.Bus.Read(c.addr + 1))
			c.PC = hi<<8 | c.ptr
		}},
	}
}

// interruptSequence builds the 7-cycle hardware NMI/IRQ sequence: two
// internal dummy reads of PC, push PCH/PCL/P (B clear), then load PC from
// the appropriate vector with I set. An IRQ sequence still in flight when
// an NMI edge lands before the vector read is hijacked onto the NMI
// vector, same as sequenceBRK -- the vector is resolved at read time from
// c.addr, not fixed at sequence-build time.
func (c *CPU) interruptSequence(kind interruptKind) []microOp {
	return []microOp{
		{accessesMemory: true, run: func(c *CPU) { c.Bus.Read(c.PC) }},
		{accessesMemory: true, run: func(c *CPU) { c.Bus.Read(c.PC) }},
		{run: func(c *CPU) { c.push(uint8(c.PC >> 8)) }},
		{run: func(c *CPU) { c.push(uint8(c.PC)) }},
		{run: func(c *CPU) {
			c.push(c.packStatus(false))
			c.I = true
			vector := uint16(irqVector)
			if kind == nmiKind || c.internalNMI {
				vector = nmiVector
				c.internalNMI = false
			}
			c.addr = vector
		}},
		{accessesMemory: true, run: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.addr)) }},
		{accessesMemory: true, run: func(c *CPU) {
			hi := uint16(c.Bus.Read(c.addr + 1))
			c.PC = hi<<8 | c.ptr
		}},
	}
}
