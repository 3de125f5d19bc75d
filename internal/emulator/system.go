package emulator

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
)

func (c *CPU) execSystem(inst Instruction) error {
	switch inst.Operation.Name() {
	case "HALT":
		c.PC = 0xFFFF
		return &chiikoerr.CpuError{PC: c.PC, Cause: chiikoerr.ErrEndOfProgram}

	case "WAIT":
		return nil

	default:
		return &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: %s", chiikoerr.ErrIllegalMnemonic, inst.Operation.Name())}
	}
}
