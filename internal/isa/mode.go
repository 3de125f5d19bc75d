package isa

import (
	"fmt"
	"strings"

	"github.com/chiiko/chiiko/internal/chiikoerr"
)

// ModeGroup names the addressing-mode nibble's semantic group.
type ModeGroup byte

const (
	NoOperand ModeGroup = 0x0
	Value     ModeGroup = 0x1 // immediate
	RegisterM ModeGroup = 0x2 // direct register
	IndirectR ModeGroup = 0x3 // indirect register
	ZeroPage  ModeGroup = 0x4
	IndZPage  ModeGroup = 0x5
	DirectA   ModeGroup = 0x6
	IndirectA ModeGroup = 0x7
	JumpAddr  ModeGroup = 0x8
	Accum     ModeGroup = 0x9 // implicit accumulator
	Low       ModeGroup = 0xA // implicit 1
	High      ModeGroup = 0xB // implicit 255
	AnyOp     ModeGroup = 0xE // assembler-only wildcard
	ModeError ModeGroup = 0xF
)

// modeEntry describes one addressing-mode nibble: its keyword keys (for
// explicit mode annotations in source), and how many operand bytes it
// fetches.
type modeEntry struct {
	group      ModeGroup
	nibble     byte
	keys       []string
	operandLen int
}

var modeTable = []modeEntry{
	{NoOperand, 0x0, []string{"NONE"}, 0},
	{Value, 0x1, []string{"VALUE", "IMM"}, 1},
	{RegisterM, 0x2, []string{"REG", "REGISTER"}, 1},
	{IndirectR, 0x3, []string{"IREG", "INDIRECT_REGISTER"}, 1},
	{ZeroPage, 0x4, []string{"ZP", "ZEROPAGE"}, 1},
	{IndZPage, 0x5, []string{"IZP", "INDIRECT_ZEROPAGE"}, 1},
	{DirectA, 0x6, []string{"ADDR", "DIRECT_ADDRESS"}, 2},
	{IndirectA, 0x7, []string{"IADDR", "INDIRECT_ADDRESS"}, 2},
	{JumpAddr, 0x8, []string{"JUMP", "JUMP_ADDRESS"}, 2},
	{Accum, 0x9, []string{"ACC", "ACCUMULATOR"}, 0},
	{Low, 0xA, []string{"LOW"}, 0},
	{High, 0xB, []string{"HIGH"}, 0},
	{AnyOp, 0xE, []string{"ANY"}, 0},
	{ModeError, 0xF, []string{"ERROR"}, 0},
}

// ModeByNibble looks up the mode group that owns a given 4-bit nibble.
func ModeByNibble(nibble byte) (ModeGroup, error) {
	for _, e := range modeTable {
		if e.nibble == nibble&0xF {
			return e.group, nil
		}
	}
	return ModeError, &chiikoerr.ModeError{Cause: fmt.Errorf("%w: nibble 0x%X", chiikoerr.ErrIllegalMode, nibble)}
}

// ModeByKey looks up a mode group by one of its source-level keywords.
func ModeByKey(key string) (ModeGroup, error) {
	key = strings.ToUpper(key)
	for _, e := range modeTable {
		for _, k := range e.keys {
			if k == key {
				return e.group, nil
			}
		}
	}
	return ModeError, &chiikoerr.ModeError{Cause: fmt.Errorf("%w: key %q", chiikoerr.ErrIllegalMode, key)}
}

// Nibble returns the 4-bit encoding of a mode group.
func (g ModeGroup) Nibble() byte {
	for _, e := range modeTable {
		if e.group == g {
			return e.nibble
		}
	}
	return 0xF
}

// OperandBytes returns the number of operand bytes a mode group fetches.
func (g ModeGroup) OperandBytes() int {
	for _, e := range modeTable {
		if e.group == g {
			return e.operandLen
		}
	}
	return 0
}

// String renders the mode group's canonical name.
func (g ModeGroup) String() string {
	for _, e := range modeTable {
		if e.group == g {
			return e.keys[0]
		}
	}
	return fmt.Sprintf("?mode(0x%X)?", byte(g))
}

// Mode is a (left, right) pair of addressing-mode nibbles, as used for both
// default and explicit mode bytes.
type Mode struct {
	Left, Right ModeGroup
}

// Byte packs a Mode into its single-byte wire representation, high nibble
// first.
func (m Mode) Byte() byte {
	return (m.Left.Nibble() << 4) | m.Right.Nibble()
}

// ModeFromByte unpacks a mode byte into its (left, right) nibble groups.
func ModeFromByte(b byte) (Mode, error) {
	left, err := ModeByNibble(b >> 4)
	if err != nil {
		return Mode{}, err
	}
	right, err := ModeByNibble(b & 0xF)
	if err != nil {
		return Mode{}, err
	}
	return Mode{Left: left, Right: right}, nil
}

// isImplicit reports whether g is one of the zero-byte implicit groups.
func isImplicit(g ModeGroup) bool {
	return g == Accum || g == Low || g == High
}

// Compatible reports whether two single-side mode groups can stand in for
// each other: either is AnyOp, they match exactly, or one is implicit and
// the other is NoOperand.
func Compatible(a, b ModeGroup) bool {
	if a == AnyOp || b == AnyOp {
		return true
	}
	if a == b {
		return true
	}
	if (isImplicit(a) && b == NoOperand) || (isImplicit(b) && a == NoOperand) {
		return true
	}
	return false
}

// ModesCompatible applies Compatible side by side to two full (left, right)
// mode tuples.
func ModesCompatible(a, b Mode) bool {
	return Compatible(a.Left, b.Left) && Compatible(a.Right, b.Right)
}
