package emulator

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
)

// pushByte writes b to the current stack pointer and decrements it. The
// stack grows downward from 0x1FFF, the top of RAM.
func (c *CPU) pushByte(b byte) error {
	if err := c.bus.Write(c.SP, b); err != nil {
		return &chiikoerr.CpuError{PC: c.PC, Cause: err}
	}
	if c.SP == 0 {
		return &chiikoerr.CpuError{PC: c.PC, Cause: chiikoerr.ErrStackOverflow}
	}
	c.SP--
	return nil
}

// popByte increments the stack pointer and reads the byte it now points at.
func (c *CPU) popByte() (byte, error) {
	if c.SP == 0x1FFF {
		return 0, &chiikoerr.CpuError{PC: c.PC, Cause: chiikoerr.ErrStackUnderflow}
	}
	c.SP++
	b, err := c.bus.Read(c.SP)
	if err != nil {
		return 0, &chiikoerr.CpuError{PC: c.PC, Cause: err}
	}
	return b, nil
}

func operandIsPair(op RuntimeOperand) bool {
	r, err := registerFromCode(op.Value)
	if err != nil {
		return false
	}
	return r.IsPair()
}

func (c *CPU) execStack(inst Instruction) error {
	name := inst.Operation.Name()

	switch name {
	case "PUSH":
		value, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		if inst.Left.Group == isa.RegisterM && operandIsPair(inst.Left) {
			if err := c.pushByte(byte(value >> 8)); err != nil {
				return err
			}
			return c.pushByte(byte(value))
		}
		return c.pushByte(byte(value))

	case "POP":
		if inst.Left.Group == isa.RegisterM && operandIsPair(inst.Left) {
			lo, err := c.popByte()
			if err != nil {
				return err
			}
			hi, err := c.popByte()
			if err != nil {
				return err
			}
			return c.send(inst.Left, uint16(hi)<<8|uint16(lo))
		}
		b, err := c.popByte()
		if err != nil {
			return err
		}
		return c.send(inst.Left, uint16(b))

	case "DUMP":
		for _, reg := range []byte{c.A, c.B, c.C, c.H, c.L, c.I, c.J} {
			if err := c.pushByte(reg); err != nil {
				return err
			}
		}
		return nil

	case "RSTR":
		regs := []*byte{&c.J, &c.I, &c.L, &c.H, &c.C, &c.B, &c.A}
		for _, reg := range regs {
			b, err := c.popByte()
			if err != nil {
				return err
			}
			*reg = b
		}
		return nil

	default:
		return &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: %s", chiikoerr.ErrIllegalMnemonic, name)}
	}
}
