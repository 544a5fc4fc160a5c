package cpu

// decode builds the micro-op queue for opcode, dispatching on its
// addressing mode and read/write/RMW/control-flow kind. Every sequence
// except BRK and JAM calls poll() on its final micro-op (or on an early
// exit) so the next fetch sees any interrupt latched by this instruction's
// last cycle.
func (c *CPU) decode(opcode uint8) []microOp {
	inst := instructionTable[opcode]

	switch inst.kind {
	case kindJam:
		return []microOp{{run: func(c *CPU) { c.Halted = true }}}
	case kindBRK:
		return c.sequenceBRK()
	case kindJSR:
		return c.sequenceJSR()
	case kindRTS:
		return c.sequenceRTS()
	case kindRTI:
		return c.sequenceRTI()
	case kindPush:
		return c.sequencePush(inst.name)
	case kindPull:
		return c.sequencePull(inst.name)
	case kindBranch:
		return c.sequenceBranch(inst.name)
	case kindJump:
		if inst.mode == modeInd {
			return c.sequenceJumpIndirect()
		}
		return c.sequenceJumpAbsolute()
	case kindImplied:
		return []microOp{{run: func(c *CPU) {
			c.operateImplied(inst.name)
			c.poll()
		}}}
	}

	ops := c.addressingSequence(inst.mode, inst.kind)
	last := len(ops) - 1
	tail := ops[last].run
	ops[last].run = func(c *CPU) {
		tail(c)
		c.poll()
	}
	return ops
}

// addressingSequence builds the address-resolution and memory-access
// micro-ops common to read, write and read-modify-write instructions.
func (c *CPU) addressingSequence(mode uint8, kind uint8) []microOp {
	switch kind {
	case kindRead:
		return c.readSequence(mode)
	case kindWrite:
		return c.writeSequence(mode)
	case kindRMW:
		return c.rmwSequence(mode)
	}
	return nil
}

func (c *CPU) readSequence(mode uint8) []microOp {
	name := c.opcodeName()
	switch mode {
	case modeImm:
		return []microOp{{accessesMemory: true, run: func(c *CPU) {
			c.operand = c.Bus.Read(c.PC)
			c.PC++
			c.operateRead(name)
		}}}

	case modeZp:
		return []microOp{
			{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
			{accessesMemory: true, run: func(c *CPU) { c.operand = c.Bus.Read(c.addr); c.operateRead(name) }},
		}

	case modeZpx, modeZpy:
		return []microOp{
			{accessesMemory: true, run: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
			{accessesMemory: true, run: func(c *CPU) {
				c.Bus.Read(c.ptr)
				c.addr = uint16(uint8(c.ptr) + c.indexReg(mode))
			}},
			{accessesMemory: true, run: func(c *CPU) { c.operand = c.Bus.Read(c.addr); c.operateRead(name) }},
		}

	case modeAbs:
		return []microOp{
			{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
			{accessesMemory: true, run: func(c *CPU) {
				hi := uint16(c.Bus.Read(c.PC))
				c.PC++
				c.addr |= hi << 8
			}},
			{accessesMemory: true, run: func(c *CPU) { c.operand = c.Bus.Read(c.addr); c.operateRead(name) }},
		}

	case modeAbsx, modeAbsy:
		return c.indexedAbsoluteReadSequence(mode, name)

	case modeIndx:
		return []microOp{
			{accessesMemory: true, run: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
			{accessesMemory: true, run: func(c *CPU) { c.Bus.Read(c.ptr) }},
			{accessesMemory: true, run: func(c *CPU) {
				lo := c.Bus.Read(uint16(uint8(c.ptr) + c.X))
				c.addr = uint16(lo)
			}},
			{accessesMemory: true, run: func(c *CPU) {
				hi := c.Bus.Read(uint16(uint8(c.ptr+1) + c.X))
				c.addr |= uint16(hi) << 8
			}},
			{accessesMemory: true, run: func(c *CPU) { c.operand = c.Bus.Read(c.addr); c.operateRead(name) }},
		}

	case modeIndy:
		return c.indirectIndexedReadSequence(name)
	}
	return nil
}

func (c *CPU) indexedAbsoluteReadSequence(mode uint8, name string) []microOp {
	return []microOp{
		{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
		{accessesMemory: true, run: func(c *CPU) {
			hi := uint16(c.Bus.Read(c.PC))
			c.PC++
			lo := uint8(c.addr)
			index := c.indexReg(mode)
			sum := uint16(lo) + uint16(index)
			c.pageCrossed = sum > 0xFF
			c.addr = (hi << 8) | (sum & 0xFF)
			if !c.pageCrossed {
				c.addr = (hi << 8) + uint16(lo) + uint16(index)
			}
		}},
		{accessesMemory: true, run: func(c *CPU) {
			if c.pageCrossed {
				// Dummy read at the wrong-page address; the real sum
				// follows on the next cycle.
				c.Bus.Read(c.addr)
				c.addr += 0x100
				return
			}
			c.operand = c.Bus.Read(c.addr)
			c.operateRead(name)
			c.poll()
			c.queue = nil
		}},
		{accessesMemory: true, run: func(c *CPU) {
			c.operand = c.Bus.Read(c.addr)
			c.operateRead(name)
		}},
	}
}

func (c *CPU) indirectIndexedReadSequence(name string) []microOp {
	return []microOp{
		{accessesMemory: true, run: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
		{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.ptr)) }},
		{accessesMemory: true, run: func(c *CPU) {
			hi := uint16(c.Bus.Read(uint16(uint8(c.ptr + 1))))
			lo := uint8(c.addr)
			sum := uint16(lo) + uint16(c.Y)
			c.pageCrossed = sum > 0xFF
			c.addr = (hi << 8) | (sum & 0xFF)
			c.ptr = hi << 8 // stash base high byte for the fixup cycle
		}},
		{accessesMemory: true, run: func(c *CPU) {
			if c.pageCrossed {
				c.Bus.Read(c.addr)
				c.addr = c.ptr + (c.addr & 0xFF) + 0x100
				return
			}
			c.operand = c.Bus.Read(c.addr)
			c.operateRead(name)
			c.poll()
			c.queue = nil
		}},
		{accessesMemory: true, run: func(c *CPU) {
			c.operand = c.Bus.Read(c.addr)
			c.operateRead(name)
		}},
	}
}

func (c *CPU) writeSequence(mode uint8) []microOp {
	name := c.opcodeName()
	switch mode {
	case modeZp:
		return []microOp{
			{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
			{run: func(c *CPU) { c.Bus.Write(c.addr, c.storeValue(name)) }},
		}

	case modeZpx, modeZpy:
		return []microOp{
			{accessesMemory: true, run: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
			{accessesMemory: true, run: func(c *CPU) {
				c.Bus.Read(c.ptr)
				c.addr = uint16(uint8(c.ptr) + c.indexReg(mode))
			}},
			{run: func(c *CPU) { c.Bus.Write(c.addr, c.storeValue(name)) }},
		}

	case modeAbs:
		return []microOp{
			{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
			{accessesMemory: true, run: func(c *CPU) {
				hi := uint16(c.Bus.Read(c.PC))
				c.PC++
				c.addr |= hi << 8
			}},
			{run: func(c *CPU) { c.Bus.Write(c.addr, c.storeValue(name)) }},
		}

	case modeAbsx, modeAbsy:
		return []microOp{
			{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
			{accessesMemory: true, run: func(c *CPU) {
				hi := uint16(c.Bus.Read(c.PC))
				c.PC++
				c.addr |= hi << 8
			}},
			{accessesMemory: true, run: func(c *CPU) {
				lo := uint8(c.addr)
				hi := c.addr & 0xFF00
				index := c.indexReg(mode)
				c.Bus.Read(hi | uint16(lo+index))
				c.addr += uint16(index)
			}},
			{run: func(c *CPU) { c.Bus.Write(c.addr, c.storeValue(name)) }},
		}

	case modeIndx:
		return []microOp{
			{accessesMemory: true, run: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
			{accessesMemory: true, run: func(c *CPU) { c.Bus.Read(c.ptr) }},
			{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(uint16(uint8(c.ptr) + c.X))) }},
			{accessesMemory: true, run: func(c *CPU) {
				hi := c.Bus.Read(uint16(uint8(c.ptr+1) + c.X))
				c.addr |= uint16(hi) << 8
			}},
			{run: func(c *CPU) { c.Bus.Write(c.addr, c.storeValue(name)) }},
		}

	case modeIndy:
		return []microOp{
			{accessesMemory: true, run: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
			{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.ptr)) }},
			{accessesMemory: true, run: func(c *CPU) {
				hi := uint16(c.Bus.Read(uint16(uint8(c.ptr + 1))))
				c.ptr = hi << 8
				c.addr = hi<<8 | (c.addr & 0xFF)
			}},
			{accessesMemory: true, run: func(c *CPU) {
				lo := uint8(c.addr)
				c.Bus.Read(c.ptr | uint16(lo+c.Y))
				c.addr = c.ptr + uint16(lo) + uint16(c.Y)
			}},
			{run: func(c *CPU) { c.Bus.Write(c.addr, c.storeValue(name)) }},
		}
	}
	return nil
}

func (c *CPU) rmwSequence(mode uint8) []microOp {
	name := c.opcodeName()
	resolve := c.writeSequence(mode) // address resolution matches the write timing exactly
	// The last op of writeSequence performs the store; replace it with the
	// read-modify-write tail (read, dummy write, real write).
	head := resolve[:len(resolve)-1]
	tail := []microOp{
		{accessesMemory: true, run: func(c *CPU) { c.operand = c.Bus.Read(c.addr) }},
		{run: func(c *CPU) { c.Bus.Write(c.addr, c.operand) }},
		{run: func(c *CPU) {
			c.result = c.operateRMW(name, c.operand)
			c.Bus.Write(c.addr, c.result)
		}},
	}
	return append(head, tail...)
}

func (c *CPU) opcodeName() string { return instructionTable[c.opcode].name }

func (c *CPU) indexReg(mode uint8) uint8 {
	if mode == modeZpy || mode == modeAbsy {
		return c.Y
	}
	return c.X
}

// sequenceBranch builds a 2/3/4-cycle relative-branch sequence.
func (c *CPU) sequenceBranch(name string) []microOp {
	return []microOp{
		{accessesMemory: true, run: func(c *CPU) {
			c.branchOffset = int8(c.Bus.Read(c.PC))
			c.PC++
			if !c.branchTaken(name) {
				c.poll()
				c.queue = nil
			}
		}},
		{accessesMemory: true, run: func(c *CPU) {
			c.Bus.Read(c.PC)
			oldPC := c.PC
			target := oldPC + uint16(int16(c.branchOffset))
			c.PC = (oldPC & 0xFF00) | (target & 0x00FF)
			if (target & 0xFF00) == (oldPC & 0xFF00) {
				c.poll()
				c.queue = nil
			} else {
				c.pageCrossed = true
			}
		}},
		{accessesMemory: true, run: func(c *CPU) {
			if c.branchOffset < 0 {
				c.PC -= 0x100
			} else {
				c.PC += 0x100
			}
			c.poll()
		}},
	}
}

func (c *CPU) branchTaken(name string) bool {
	switch name {
	case "BPL":
		return !c.N
	case "BMI":
		return c.N
	case "BVC":
		return !c.V
	case "BVS":
		return c.V
	case "BCC":
		return !c.C
	case "BCS":
		return c.C
	case "BNE":
		return !c.Z
	case "BEQ":
		return c.Z
	}
	return false
}

func (c *CPU) sequenceJumpAbsolute() []microOp {
	return []microOp{
		{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
		{accessesMemory: true, run: func(c *CPU) {
			hi := uint16(c.Bus.Read(c.PC))
			c.PC = hi<<8 | c.addr
			c.poll()
		}},
	}
}

func (c *CPU) sequenceJumpIndirect() []microOp {
	return []microOp{
		{accessesMemory: true, run: func(c *CPU) { c.ptr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
		{accessesMemory: true, run: func(c *CPU) {
			hi := uint16(c.Bus.Read(c.PC))
			c.PC++
			c.ptr |= hi << 8
		}},
		{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.ptr)) }},
		{accessesMemory: true, run: func(c *CPU) {
			// Hardware bug: the high-byte fetch wraps within the page
			// instead of crossing it, e.g. JMP ($02FF) reads $0200, not
			// $0300, for the high byte.
			hiAddr := (c.ptr & 0xFF00) | uint16(uint8(c.ptr)+1)
			hi := uint16(c.Bus.Read(hiAddr))
			c.PC = hi<<8 | c.addr
			c.poll()
		}},
	}
}

func (c *CPU) sequenceJSR() []microOp {
	return []microOp{
		{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.Bus.Read(c.PC)); c.PC++ }},
		{run: func(c *CPU) {}}, // internal delay (stack peek, discarded)
		{run: func(c *CPU) { c.push(uint8(c.PC >> 8)) }},
		{run: func(c *CPU) { c.push(uint8(c.PC)) }},
		{accessesMemory: true, run: func(c *CPU) {
			hi := uint16(c.Bus.Read(c.PC))
			c.PC = hi<<8 | c.addr
			c.poll()
		}},
	}
}

func (c *CPU) sequenceRTS() []microOp {
	return []microOp{
		{run: func(c *CPU) {}}, // discard next opcode byte internally
		{run: func(c *CPU) {}}, // increment S
		{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.pull()) }},
		{accessesMemory: true, run: func(c *CPU) { hi := uint16(c.pull()); c.PC = hi<<8 | c.addr }},
		{accessesMemory: true, run: func(c *CPU) {
			c.Bus.Read(c.PC)
			c.PC++
			c.poll()
		}},
	}
}

func (c *CPU) sequenceRTI() []microOp {
	return []microOp{
		{run: func(c *CPU) {}},
		{run: func(c *CPU) {}},
		{accessesMemory: true, run: func(c *CPU) { c.unpackStatus(c.pull()) }},
		{accessesMemory: true, run: func(c *CPU) { c.addr = uint16(c.pull()) }},
		{accessesMemory: true, run: func(c *CPU) {
			hi := uint16(c.pull())
			c.PC = hi<<8 | c.addr
			c.poll()
		}},
	}
}

func (c *CPU) sequencePush(name string) []microOp {
	return []microOp{
		{run: func(c *CPU) {}},
		{run: func(c *CPU) {
			if name == "PHP" {
				c.push(c.packStatus(true))
			} else {
				c.push(c.A)
			}
			c.poll()
		}},
	}
}

func (c *CPU) sequencePull(name string) []microOp {
	return []microOp{
		{run: func(c *CPU) {}},
		{run: func(c *CPU) {}},
		{accessesMemory: true, run: func(c *CPU) {
			if name == "PLP" {
				c.unpackStatus(c.pull())
			} else {
				c.A = c.pull()
				c.setZN(c.A)
			}
			c.poll()
		}},
	}
}
