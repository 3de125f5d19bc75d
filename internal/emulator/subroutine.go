package emulator

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
)

func (c *CPU) execSubroutine(inst Instruction) error {
	name := inst.Operation.Name()

	switch name {
	case "CALL":
		addr, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		if err := c.pushByte(byte(c.PC >> 8)); err != nil {
			return err
		}
		if err := c.pushByte(byte(c.PC)); err != nil {
			return err
		}
		c.PC = addr
		return nil

	case "RTRN", "RET":
		lo, err := c.popByte()
		if err != nil {
			return err
		}
		hi, err := c.popByte()
		if err != nil {
			return err
		}
		c.PC = uint16(hi)<<8 | uint16(lo)
		return nil

	case "JUMP", "JMP":
		addr, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		c.PC = addr
		return nil

	case "JGT", "JGE", "JEQ", "JLE", "JLT", "JNE":
		addr, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		value, err := c.find(inst.Right)
		if err != nil {
			return err
		}
		if jumpConditionHolds(name, uint16(c.A), value) {
			c.PC = addr
		}
		return nil

	default:
		return &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: %s", chiikoerr.ErrIllegalMnemonic, name)}
	}
}

func jumpConditionHolds(mnemonic string, accumulator, value uint16) bool {
	switch mnemonic {
	case "JGT":
		return value > accumulator
	case "JGE":
		return value >= accumulator
	case "JEQ":
		return value == accumulator
	case "JLE":
		return value <= accumulator
	case "JLT":
		return value < accumulator
	case "JNE":
		return value != accumulator
	default:
		return false
	}
}
