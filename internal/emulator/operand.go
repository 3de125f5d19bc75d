package emulator

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
)

// find reads the value a source operand refers to: an immediate, a
// register (direct or indirect through its value as an address), or a
// memory byte (direct or indirect through a stored pointer).
func (c *CPU) find(op RuntimeOperand) (uint16, error) {
	switch op.Group {
	case isa.Value, isa.Low, isa.High:
		return op.Value, nil

	case isa.Accum:
		return uint16(c.A), nil

	case isa.RegisterM:
		r, err := registerFromCode(op.Value)
		if err != nil {
			return 0, &chiikoerr.OperandError{Context: "register", Cause: err}
		}
		return c.registerPointer(r)

	case isa.IndirectR:
		r, err := registerFromCode(op.Value)
		if err != nil {
			return 0, &chiikoerr.OperandError{Context: "indirect register", Cause: err}
		}
		addr, err := c.registerPointer(r)
		if err != nil {
			return 0, err
		}
		b, err := c.bus.Read(addr)
		return uint16(b), err

	case isa.ZeroPage:
		b, err := c.bus.Read(op.Value & 0xFF)
		return uint16(b), err

	case isa.IndZPage:
		ptr, err := c.bus.ReadWord(op.Value & 0xFF)
		if err != nil {
			return 0, err
		}
		b, err := c.bus.Read(ptr)
		return uint16(b), err

	case isa.DirectA:
		b, err := c.bus.Read(op.Value)
		return uint16(b), err

	case isa.IndirectA:
		ptr, err := c.bus.ReadWord(op.Value)
		if err != nil {
			return 0, err
		}
		b, err := c.bus.Read(ptr)
		return uint16(b), err

	case isa.JumpAddr:
		return op.Value, nil

	default:
		return 0, &chiikoerr.OperandError{Context: "find", Cause: fmt.Errorf("%w: %v", chiikoerr.ErrOperandUnreadable, op.Group)}
	}
}

// send writes value to a destination operand. It fails for immediate,
// jump-target, and no-operand destinations.
func (c *CPU) send(op RuntimeOperand, value uint16) error {
	switch op.Group {
	case isa.RegisterM:
		r, err := registerFromCode(op.Value)
		if err != nil {
			return &chiikoerr.OperandError{Context: "register", Cause: err}
		}
		if r.IsPair() {
			return c.pairSet(r, value)
		}
		return c.regSet(r, byte(value))

	case isa.Accum:
		c.A = byte(value)
		return nil

	case isa.IndirectR:
		r, err := registerFromCode(op.Value)
		if err != nil {
			return &chiikoerr.OperandError{Context: "indirect register", Cause: err}
		}
		addr, err := c.registerPointer(r)
		if err != nil {
			return err
		}
		return c.bus.Write(addr, byte(value))

	case isa.ZeroPage:
		return c.bus.Write(op.Value&0xFF, byte(value))

	case isa.IndZPage:
		ptr, err := c.bus.ReadWord(op.Value & 0xFF)
		if err != nil {
			return err
		}
		return c.bus.Write(ptr, byte(value))

	case isa.DirectA:
		return c.bus.Write(op.Value, byte(value))

	case isa.IndirectA:
		ptr, err := c.bus.ReadWord(op.Value)
		if err != nil {
			return err
		}
		return c.bus.Write(ptr, byte(value))

	default:
		return &chiikoerr.OperandError{Context: "send", Cause: fmt.Errorf("%w: cannot write to %v", chiikoerr.ErrOperandUnreadable, op.Group)}
	}
}
