package encoder

import (
	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
	"github.com/chiiko/chiiko/internal/symtab"
)

// encodeInstruction writes one instruction's bytes: opcode (+ optional mode
// byte when the resolved mode differs from the operation's default), then
// each side's operand bytes per its addressing-mode nibble.
func (e *Encoder) encodeInstruction(r symtab.Resolved) error {
	explicit := r.Mode != r.Operation.Default

	opcodeByte := r.Operation.Opcode
	if explicit {
		opcodeByte |= 0x80
	}
	if err := e.emitByte(opcodeByte); err != nil {
		return err
	}
	if explicit {
		if err := e.emitByte(r.Mode.Byte()); err != nil {
			return err
		}
	}

	left, right := isa.NoneOperand, isa.NoneOperand
	if len(r.Node.Operands) > 0 {
		left = r.Node.Operands[0]
	}
	if len(r.Node.Operands) > 1 {
		right = r.Node.Operands[1]
	}

	if err := e.encodeSide(r.Mode.Left, left); err != nil {
		return err
	}
	return e.encodeSide(r.Mode.Right, right)
}

// encodeSide emits the operand bytes prescribed by one side's addressing
// mode nibble.
func (e *Encoder) encodeSide(mode isa.ModeGroup, operand isa.Operand) error {
	switch mode {
	case isa.NoOperand, isa.Accum, isa.Low, isa.High:
		return nil

	case isa.Value:
		if operand.Kind == isa.KindCounter {
			placeholder := e.pc
			if err := e.emitByte(0); err != nil {
				return err
			}
			return e.table.StartCounterSpan(operand.CounterID, placeholder, e.pc)
		}
		return e.emitByte(byte(operand.Number))

	case isa.RegisterM, isa.IndirectR:
		return e.emitByte(byte(operand.Register))

	case isa.ZeroPage, isa.IndZPage:
		return e.writeAddress(operand, fixupByte)

	case isa.DirectA, isa.IndirectA, isa.JumpAddr:
		return e.writeAddress(operand, fixupWord)

	default:
		return &chiikoerr.AssemblerError{Stage: "encode", Cause: chiikoerr.ErrIllegalMode}
	}
}
