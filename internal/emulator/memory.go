package emulator

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
)

func (c *CPU) execMemory(inst Instruction) error {
	name := inst.Operation.Name()

	switch name {
	case "MOVE":
		value, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		return c.send(inst.Right, value)

	case "LOAD":
		value, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		return c.send(inst.Right, value)

	case "SAVE":
		if inst.Right.Group == isa.RegisterM {
			return &chiikoerr.OperandError{Context: "SAVE", Cause: chiikoerr.ErrIllegalRegister}
		}
		value, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		return c.send(inst.Right, value)

	case "SWAP":
		if inst.Left.Group != isa.RegisterM || inst.Right.Group != isa.RegisterM {
			return &chiikoerr.OperandError{Context: "SWAP", Cause: chiikoerr.ErrIllegalRegister}
		}
		left, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		right, err := c.find(inst.Right)
		if err != nil {
			return err
		}
		if err := c.send(inst.Left, right); err != nil {
			return err
		}
		return c.send(inst.Right, left)

	default:
		return &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: %s", chiikoerr.ErrIllegalMnemonic, name)}
	}
}
