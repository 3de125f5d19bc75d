package emulator

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
)

// Status flag bits.
const (
	FlagZero      byte = 0x01
	FlagNegative  byte = 0x02
	FlagCarry     byte = 0x04
	FlagInterrupt byte = 0x80
)

// RuntimeOperand is a decoded, already-fetched operand: its addressing-mode
// group and the raw 16-bit value the mode's bytes encode (a register code,
// an immediate, or an address).
type RuntimeOperand struct {
	Group isa.ModeGroup
	Value uint16
}

// Instruction is the CPU's current decoded instruction.
type Instruction struct {
	Operation isa.Operation
	Mode      isa.Mode
	Left      RuntimeOperand
	Right     RuntimeOperand
}

// CPU holds the seven general registers, program counter, stack pointer,
// status byte, cycle counter, and the instruction currently being executed.
type CPU struct {
	A, B, C, H, L, I, J byte
	PC, SP              uint16
	Status              byte
	Cycles              byte
	Current             Instruction

	bus *Bus
	in  *bufio.Reader
	out io.Writer
}

// NewCPU builds a CPU over bus, reading IO opcodes from in and writing to
// out, then resets it (loading PC from the reset vector).
func NewCPU(bus *Bus, in io.Reader, out io.Writer) *CPU {
	c := &CPU{bus: bus, in: bufio.NewReader(in), out: out}
	c.Reset()
	return c
}

// Reset reinitializes all registers and re-reads the reset vector.
func (c *CPU) Reset() {
	c.A, c.B, c.C, c.H, c.L, c.I, c.J = 0, 0, 0, 0, 0, 0, 0
	c.SP = 0x1FFF
	c.Status = 0
	c.Cycles = 0
	c.Current = Instruction{}
	c.bus.Reset()

	vector, err := c.bus.ReadWord(0xFFFE)
	if err != nil {
		vector = 0x8000
	}
	c.PC = vector
}

// Cycle fetches and executes exactly one instruction.
func (c *CPU) Cycle() error {
	inst, err := c.fetchInstruction()
	if err != nil {
		return err
	}
	c.Current = inst
	c.Cycles++
	return c.execute(inst)
}

// Run cycles the CPU until HALT (PC reaches 0xFFFF), end-of-program, or an
// error occurs.
func (c *CPU) Run() error {
	for {
		err := c.Cycle()
		if err == nil {
			continue
		}
		if isHaltSignal(err) {
			return nil
		}
		return err
	}
}

func isHaltSignal(err error) bool {
	return errors.Is(err, chiikoerr.ErrEndOfProgram)
}

// fetchByte reads one byte at PC and advances PC, reporting end-of-program
// if PC wraps from 0xFFFF back to 0x0000.
func (c *CPU) fetchByte() (byte, error) {
	b, err := c.bus.Read(c.PC)
	if err != nil {
		return 0, &chiikoerr.CpuError{PC: c.PC, Cause: err}
	}
	if c.PC == 0xFFFF {
		c.PC = 0
		return b, &chiikoerr.CpuError{PC: 0xFFFF, Cause: chiikoerr.ErrEndOfProgram}
	}
	c.PC++
	return b, nil
}

func (c *CPU) fetchWord() (uint16, error) {
	hi, err := c.fetchByte()
	if err != nil {
		return 0, err
	}
	lo, err := c.fetchByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func (c *CPU) fetchInstruction() (Instruction, error) {
	opcodeByte, err := c.fetchByte()
	if err != nil {
		return Instruction{}, err
	}

	op, err := isa.OperationByOpcode(opcodeByte)
	if err != nil {
		return Instruction{}, &chiikoerr.CpuError{PC: c.PC, Cause: err}
	}

	mode := op.Default
	if opcodeByte&0x80 != 0 {
		modeByte, err := c.fetchByte()
		if err != nil {
			return Instruction{}, err
		}
		mode, err = isa.ModeFromByte(modeByte)
		if err != nil {
			return Instruction{}, &chiikoerr.CpuError{PC: c.PC, Cause: err}
		}
	}

	left, err := c.fetchOperand(mode.Left)
	if err != nil {
		return Instruction{}, err
	}
	right, err := c.fetchOperand(mode.Right)
	if err != nil {
		return Instruction{}, err
	}

	return Instruction{Operation: op, Mode: mode, Left: left, Right: right}, nil
}

func (c *CPU) fetchOperand(group isa.ModeGroup) (RuntimeOperand, error) {
	switch group {
	case isa.NoOperand:
		return RuntimeOperand{Group: group}, nil
	case isa.Accum:
		return RuntimeOperand{Group: group, Value: uint16(isa.A)}, nil
	case isa.Low:
		return RuntimeOperand{Group: group, Value: 1}, nil
	case isa.High:
		return RuntimeOperand{Group: group, Value: 255}, nil
	case isa.Value, isa.RegisterM, isa.IndirectR, isa.ZeroPage, isa.IndZPage:
		b, err := c.fetchByte()
		if err != nil {
			return RuntimeOperand{}, err
		}
		return RuntimeOperand{Group: group, Value: uint16(b)}, nil
	case isa.DirectA, isa.IndirectA, isa.JumpAddr:
		w, err := c.fetchWord()
		if err != nil {
			return RuntimeOperand{}, err
		}
		return RuntimeOperand{Group: group, Value: w}, nil
	default:
		return RuntimeOperand{}, &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: mode group %v", chiikoerr.ErrIllegalMode, group)}
	}
}
