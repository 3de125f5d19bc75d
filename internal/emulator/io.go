package emulator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
)

const defaultIOLimit = 0xFF

func (c *CPU) execIO(inst Instruction) error {
	name := inst.Operation.Name()

	switch name {
	case "IN":
		addr, err := c.ioAddress(inst.Left)
		if err != nil {
			return err
		}
		limit, err := c.ioLimit(inst)
		if err != nil {
			return err
		}
		line, err := c.readLine()
		if err != nil {
			return err
		}
		return c.writeString(addr, line, limit)

	case "NIN":
		addr, err := c.ioAddress(inst.Left)
		if err != nil {
			return err
		}
		line, err := c.readLine()
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 0 || n > 0xFF {
			return &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: %q", chiikoerr.ErrInvalidInput, line)}
		}
		return c.bus.Write(addr, byte(n))

	case "PRNT":
		addr, err := c.ioAddress(inst.Left)
		if err != nil {
			return err
		}
		limit, err := c.ioLimit(inst)
		if err != nil {
			return err
		}
		return c.printString(addr, limit)

	case "TLLY":
		addr, err := c.ioAddress(inst.Left)
		if err != nil {
			return err
		}
		b, err := c.bus.Read(addr)
		if err != nil {
			return &chiikoerr.CpuError{PC: c.PC, Cause: err}
		}
		_, err = fmt.Fprintf(c.out, "%d\n", b)
		return err

	default:
		return &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: %s", chiikoerr.ErrIllegalMnemonic, name)}
	}
}

// ioAddress resolves an IO opcode's left operand to the memory address it
// names: the operand's own address for direct and zero-page modes.
func (c *CPU) ioAddress(op RuntimeOperand) (uint16, error) {
	switch op.Group {
	case isa.DirectA:
		return op.Value, nil
	case isa.ZeroPage:
		return op.Value & 0xFF, nil
	default:
		return c.find(op)
	}
}

// ioLimit reads the right operand, when present, as a byte count bounding a
// transfer; with no right operand it defaults to 0xFF.
func (c *CPU) ioLimit(inst Instruction) (uint16, error) {
	if inst.Mode.Right == 0 {
		return defaultIOLimit, nil
	}
	limit, err := c.find(inst.Right)
	if err != nil {
		return 0, err
	}
	if limit == 0 {
		return defaultIOLimit, nil
	}
	return limit, nil
}

func (c *CPU) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: %v", chiikoerr.ErrInvalidInput, err)}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// writeString copies at most limit-1 bytes of s into memory starting at
// addr and terminates them with a NUL byte, so at most limit bytes are
// written.
func (c *CPU) writeString(addr uint16, s string, limit uint16) error {
	bytes := []byte(s)
	if uint16(len(bytes)) > limit-1 {
		bytes = bytes[:limit-1]
	}
	for i, b := range bytes {
		if err := c.bus.Write(addr+uint16(i), b); err != nil {
			return &chiikoerr.CpuError{PC: c.PC, Cause: err}
		}
	}
	return c.bus.Write(addr+uint16(len(bytes)), 0)
}

// printString writes bytes from addr to out until a NUL terminator or limit
// bytes have been emitted, whichever comes first.
func (c *CPU) printString(addr uint16, limit uint16) error {
	var sb strings.Builder
	for i := uint16(0); i < limit; i++ {
		b, err := c.bus.Read(addr + i)
		if err != nil {
			return &chiikoerr.CpuError{PC: c.PC, Cause: err}
		}
		if b == 0 {
			break
		}
		sb.WriteByte(b)
	}
	_, err := fmt.Fprint(c.out, sb.String())
	return err
}
