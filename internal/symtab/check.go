package symtab

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
	"github.com/chiiko/chiiko/internal/parser"
)

// Resolved pairs a parsed instruction with its looked-up Operation and the
// addressing mode the checker settled on.
type Resolved struct {
	Node      parser.Node
	Operation isa.Operation
	Mode      isa.Mode
}

// Check runs mode inference and the syntax checker over every
// NodeInstruction in nodes, returning one Resolved entry per instruction in
// source order. Non-instruction nodes are not represented in the result, so
// result indices do not match node indices; each Resolved carries its Node,
// and callers pair results with the instruction nodes in order.
func Check(nodes []parser.Node) ([]Resolved, error) {
	var out []Resolved
	for _, n := range nodes {
		if n.Kind != parser.NodeInstruction {
			continue
		}
		r, err := checkInstruction(n)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func checkInstruction(n parser.Node) (Resolved, error) {
	op, err := isa.OperationByMnemonic(n.Mnemonic)
	if err != nil {
		return Resolved{}, err
	}

	if len(n.Operands) > 2 {
		return Resolved{}, &chiikoerr.ParseError{
			Pos: chiikoerr.Position{Line: n.Line, Column: n.Column},
			Msg: fmt.Sprintf("%s: too many operands (%d)", n.Mnemonic, len(n.Operands)),
			Cause: chiikoerr.ErrMalformedMacro,
		}
	}

	left, right := isa.NoneOperand, isa.NoneOperand
	if len(n.Operands) > 0 {
		left = n.Operands[0]
	}
	if len(n.Operands) > 1 {
		right = n.Operands[1]
	}
	inferred := isa.Mode{Left: left.InferredMode(), Right: right.InferredMode()}

	final, err := reconcileMode(n.Mnemonic, op.Default, n.ExplicitMode, inferred)
	if err != nil {
		return Resolved{}, err
	}

	if err := checkRegisterShape(n.Mnemonic, final.Left, left); err != nil {
		return Resolved{}, err
	}
	if err := checkRegisterShape(n.Mnemonic, final.Right, right); err != nil {
		return Resolved{}, err
	}

	return Resolved{Node: n, Operation: op, Mode: final}, nil
}

// reconcileMode settles on a final addressing mode: the inferred mode must
// match either the default or an explicit (set) mode; prefer the explicit
// mode when both are present and compatible.
func reconcileMode(mnemonic string, def isa.Mode, set *isa.Mode, inferred isa.Mode) (isa.Mode, error) {
	if set != nil && isa.ModesCompatible(inferred, *set) {
		return *set, nil
	}
	if isa.ModesCompatible(inferred, def) {
		return def, nil
	}

	setTuple := [2]string{"-", "-"}
	if set != nil {
		setTuple = [2]string{set.Left.String(), set.Right.String()}
	}
	return isa.Mode{}, &chiikoerr.ModeError{
		Mnemonic: mnemonic,
		Default:  [2]string{def.Left.String(), def.Right.String()},
		Set:      setTuple,
		Inferred: [2]string{inferred.Left.String(), inferred.Right.String()},
		Cause:    chiikoerr.ErrModeConflict,
	}
}

// checkRegisterShape validates that any side resolved to a register-shaped
// mode actually carries a register operand.
func checkRegisterShape(mnemonic string, side isa.ModeGroup, operand isa.Operand) error {
	if side != isa.RegisterM && side != isa.IndirectR {
		return nil
	}
	if operand.Kind != isa.KindRegister {
		return &chiikoerr.RegisterError{
			Token: fmt.Sprintf("%s operand", mnemonic),
			Cause: chiikoerr.ErrIllegalRegister,
		}
	}
	return nil
}
