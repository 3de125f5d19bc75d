package emulator

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
)

func (c *CPU) execBranch(inst Instruction) error {
	switch inst.Operation.Name() {
	case "COMP", "CMP":
		left, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		right, err := c.find(inst.Right)
		if err != nil {
			return err
		}
		result := byte(int(left) - int(right))
		c.clearArithmeticFlags()
		c.setZeroNegative(result)
		return nil

	case "POS", "ZERO", "NEG":
		offset, err := c.find(inst.Left)
		if err != nil {
			return err
		}
		if c.branchConditionHolds(inst.Operation.Name()) {
			c.PC += offset
		}
		return nil

	default:
		return &chiikoerr.CpuError{PC: c.PC, Cause: fmt.Errorf("%w: %s", chiikoerr.ErrIllegalMnemonic, inst.Operation.Name())}
	}
}

// branchConditionHolds evaluates a conditional branch's predicate against
// the current status flags: positive means neither zero nor negative is
// set, zero and negative read their respective flag bits directly.
func (c *CPU) branchConditionHolds(mnemonic string) bool {
	switch mnemonic {
	case "POS":
		return !c.flagSet(FlagZero) && !c.flagSet(FlagNegative)
	case "ZERO":
		return c.flagSet(FlagZero)
	case "NEG":
		return c.flagSet(FlagNegative)
	default:
		return false
	}
}
