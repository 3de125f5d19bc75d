package emulator

import (
	"fmt"
	"math/rand"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
)

// execute dispatches a decoded instruction to its group's handler.
func (c *CPU) execute(inst Instruction) error {
	switch inst.Operation.Group {
	case isa.GroupArithmetic:
		return c.execArithmetic(inst)
	case isa.GroupLogic:
		return c.execLogic(inst)
	case isa.GroupBranch:
		return c.execBranch(inst)
	case isa.GroupSubroutine:
		return c.execSubroutine(inst)
	case isa.GroupStack:
		return c.execStack(inst)
	case isa.GroupMemory:
		return c.execMemory(inst)
	case isa.GroupIO:
		return c.execIO(inst)
	case isa.GroupSystem:
		return c.execSystem(inst)
	default:
		return &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: group %v", chiikoerr.ErrIllegalOpcode, inst.Operation.Group)}
	}
}

func (c *CPU) execArithmetic(inst Instruction) error {
	name := inst.Operation.Name()

	if inst.Operation.Variant == isa.VariantWide {
		return c.execWideArithmetic(name, inst)
	}

	switch name {
	case "ADD", "SUB", "MUL", "DIV", "REM":
		left, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		right, err := c.find(inst.Right)
		if err != nil {
			return err
		}
		var wide int
		switch name {
		case "ADD":
			wide = int(left) + int(right)
		case "SUB":
			wide = int(right) - int(left)
		case "MUL":
			wide = int(left) * int(right)
		case "DIV":
			if left == 0 {
				return &chiikoerr.CpuError{PC: c.PC, Cause: chiikoerr.ErrDivisionByZero}
			}
			wide = int(right) / int(left)
		case "REM":
			if left == 0 {
				return &chiikoerr.CpuError{PC: c.PC, Cause: chiikoerr.ErrDivisionByZero}
			}
			wide = int(right) % int(left)
		}
		result := byte(wide)
		c.clearArithmeticFlags()
		c.setZeroNegative(result)
		c.setCarry(wide < 0 || wide > 0xFF)
		return c.send(inst.Right, uint16(result))

	case "INC", "DEC":
		left, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		amount, err := c.find(inst.Right)
		if err != nil {
			return err
		}
		var wide int
		if name == "INC" {
			wide = int(left) + int(amount)
		} else {
			wide = int(left) - int(amount)
		}
		result := byte(wide)
		c.clearArithmeticFlags()
		c.setZeroNegative(result)
		c.setCarry(wide < 0 || wide > 0xFF)
		return c.send(inst.Left, uint16(result))

	case "RAND":
		right, err := c.find(inst.Right)
		if err != nil {
			return err
		}
		if right == 0 {
			return &chiikoerr.CpuError{PC: c.PC, Cause: chiikoerr.ErrDivisionByZero}
		}
		result := byte(rand.Intn(256)) % byte(right)
		c.clearArithmeticFlags()
		c.setZeroNegative(result)
		return c.send(inst.Left, uint16(result))

	default:
		return &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: %s", chiikoerr.ErrIllegalMnemonic, name)}
	}
}

func (c *CPU) execWideArithmetic(name string, inst Instruction) error {
	pairValue, err := c.find(inst.Left)
	if err != nil {
		return err
	}
	operand, err := c.find(inst.Right)
	if err != nil {
		return err
	}

	switch name {
	case "SUM", "DIFF", "PROD":
		var wide int
		switch name {
		case "SUM":
			wide = int(pairValue) + int(operand)
		case "DIFF":
			wide = int(pairValue) - int(operand)
		case "PROD":
			wide = int(pairValue) * int(operand)
		}
		result := uint16(wide)
		c.clearArithmeticFlags()
		c.setZeroNegative(byte(result >> 8))
		c.setCarry(wide < 0 || wide > 0xFFFF)
		return c.send(inst.Left, result)

	case "QUOT":
		if operand == 0 {
			return &chiikoerr.CpuError{PC: c.PC, Cause: chiikoerr.ErrDivisionByZero}
		}
		quotient := pairValue / operand
		remainder := pairValue % operand
		c.clearArithmeticFlags()
		c.setZeroNegative(byte(quotient))
		return c.send(inst.Left, uint16(byte(quotient))<<8|uint16(byte(remainder)))

	default:
		return &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: %s", chiikoerr.ErrIllegalMnemonic, name)}
	}
}

func (c *CPU) execLogic(inst Instruction) error {
	name := inst.Operation.Name()

	switch name {
	case "AND", "OR", "XOR":
		left, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		right, err := c.find(inst.Right)
		if err != nil {
			return err
		}
		var result byte
		switch name {
		case "AND":
			result = byte(left) & byte(right)
		case "OR":
			result = byte(left) | byte(right)
		case "XOR":
			result = byte(left) ^ byte(right)
		}
		c.clearArithmeticFlags()
		c.setZeroNegative(result)
		return c.send(inst.Right, uint16(result))

	case "NOT":
		left, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		result := byte(left) ^ 0xFF
		c.clearArithmeticFlags()
		c.setZeroNegative(result)
		return c.send(inst.Left, uint16(result))

	case "LEFT", "RIGHT", "WEST", "EAST":
		left, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		amount, err := c.find(inst.Right)
		if err != nil {
			return err
		}
		if amount == 0 {
			amount = 1
		}
		value := byte(left)
		var carryOut bool
		for i := uint16(0); i < amount; i++ {
			switch name {
			case "LEFT":
				carryOut = value&0x80 != 0
				value <<= 1
			case "RIGHT":
				carryOut = value&0x01 != 0
				value >>= 1
			case "WEST":
				carryOut = value&0x80 != 0
				value = value<<1 | value>>7
			case "EAST":
				carryOut = value&0x01 != 0
				value = value>>1 | value<<7
			}
		}
		c.clearArithmeticFlags()
		c.setZeroNegative(value)
		c.setCarry(carryOut)
		return c.send(inst.Left, uint16(value))

	default:
		return &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: %s", chiikoerr.ErrIllegalMnemonic, name)}
	}
}
