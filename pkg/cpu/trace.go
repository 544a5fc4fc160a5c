package cpu

import "fmt"

var modeOperandBytes = [...]uint8{
	modeImp: 0, modeAcc: 0, modeImm: 1,
	modeZp: 1, modeZpx: 1, modeZpy: 1,
	modeAbs: 2, modeAbsx: 2, modeAbsy: 2,
	modeInd: 2, modeIndx: 1, modeIndy: 1, modeRel: 1,
}

// traceFetch logs the instruction about to be decoded, in the classic
// nestest-log style, by peeking at its operand bytes without consuming a
// bus cycle for them. Called once, right after the opcode byte itself is
// fetched.
func (c *CPU) traceFetch() {
	if c.Trace == nil {
		return
	}
	inst := instructionTable[c.opcode]
	pc := c.PC - 1
	n := modeOperandBytes[inst.mode]

	bytes := make([]uint8, 1+n)
	bytes[0] = c.opcode
	for i := uint8(0); i < n; i++ {
		bytes[i+1] = c.Bus.Read(pc + 1 + uint16(i))
	}

	operandStr := ""
	switch n {
	case 1:
		operandStr = fmt.Sprintf("$%02X", bytes[1])
	case 2:
		operandStr = fmt.Sprintf("$%02X%02X", bytes[2], bytes[1])
	}

	disasm := inst.name
	if operandStr != "" {
		disasm = inst.name + " " + operandStr
	}

	origPC := c.PC
	c.PC = pc
	c.emitTrace(bytes, disasm)
	c.PC = origPC
}
