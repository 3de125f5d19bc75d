package emulator

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
)

// regGet reads a single 8-bit register's value.
func (c *CPU) regGet(r isa.Register) (byte, error) {
	switch r {
	case isa.A:
		return c.A, nil
	case isa.B:
		return c.B, nil
	case isa.C:
		return c.C, nil
	case isa.H:
		return c.H, nil
	case isa.L:
		return c.L, nil
	case isa.I:
		return c.I, nil
	case isa.J:
		return c.J, nil
	default:
		return 0, &chiikoerr.RegisterError{Token: r.String(), Cause: chiikoerr.ErrIllegalRegister}
	}
}

// regSet writes a single 8-bit register's value.
func (c *CPU) regSet(r isa.Register, v byte) error {
	switch r {
	case isa.A:
		c.A = v
	case isa.B:
		c.B = v
	case isa.C:
		c.C = v
	case isa.H:
		c.H = v
	case isa.L:
		c.L = v
	case isa.I:
		c.I = v
	case isa.J:
		c.J = v
	default:
		return &chiikoerr.RegisterError{Token: r.String(), Cause: chiikoerr.ErrIllegalRegister}
	}
	return nil
}

// pairGet reads a register pair as a big-endian 16-bit value.
func (c *CPU) pairGet(r isa.Register) (uint16, error) {
	if !r.IsPair() {
		return 0, &chiikoerr.RegisterError{Token: r.String(), Cause: chiikoerr.ErrIllegalRegister}
	}
	hi, lo := r.Halves()
	hiV, err := c.regGet(hi)
	if err != nil {
		return 0, err
	}
	loV, err := c.regGet(lo)
	if err != nil {
		return 0, err
	}
	return uint16(hiV)<<8 | uint16(loV), nil
}

// pairSet writes a register pair as a big-endian 16-bit value.
func (c *CPU) pairSet(r isa.Register, v uint16) error {
	if !r.IsPair() {
		return &chiikoerr.RegisterError{Token: r.String(), Cause: chiikoerr.ErrIllegalRegister}
	}
	hi, lo := r.Halves()
	if err := c.regSet(hi, byte(v>>8)); err != nil {
		return err
	}
	return c.regSet(lo, byte(v))
}

// registerPointer returns a register's value as a u16: the plain byte
// value for a single register, or the full pair value for a register pair.
func (c *CPU) registerPointer(r isa.Register) (uint16, error) {
	if r.IsPair() {
		return c.pairGet(r)
	}
	v, err := c.regGet(r)
	return uint16(v), err
}

func registerFromCode(code uint16) (isa.Register, error) {
	r, err := isa.RegisterByCode(byte(code))
	if err != nil {
		return 0, fmt.Errorf("%w", err)
	}
	return r, nil
}
