// Package encoder turns a checked AST into a 32 KB ROM image: a two-pass
// walk that emits instruction bytes sequentially, places macro data at
// explicit addresses, and patches forward references once every label's
// final position is known.
package encoder

import (
	"encoding/binary"
	"os"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
	"github.com/chiiko/chiiko/internal/parser"
	"github.com/chiiko/chiiko/internal/symtab"
)

const (
	// RomBase is the fixed mapped address of the first ROM byte; the ROM
	// chip always occupies the top 32 KB of the address space.
	RomBase = 0x8000
	// RomSize is the size of a complete ROM image in bytes.
	RomSize = 0x8000

	resetVectorOffset = RomSize - 2
)

type fixupWidth int

const (
	fixupByte fixupWidth = 1
	fixupWord fixupWidth = 2
)

type fixup struct {
	offset int
	width  fixupWidth
	name   string
}

// ramByte is one pending write into the RAM-resident data segment: a #DATA
// ARRAY or STRING macro targeting an address below RomBase. ROM itself has
// no wired path to that address, so these are realized as LOAD/SAVE
// instructions run once at boot rather than placed directly in the image.
type ramByte struct {
	address uint16
	value   byte
}

// Encoder accumulates a ROM image while walking a checked AST.
type Encoder struct {
	table       *symtab.Table
	rom         [RomSize]byte
	pc          int // next sequential write offset, relative to RomBase
	fixups      []fixup
	resetVector uint16
	ramInit     []ramByte
	readFile    func(string) ([]byte, error)
}

// New constructs an Encoder writing sequential code starting at base (must
// lie within [RomBase, RomBase+RomSize)) and pointing the reset vector at
// base.
func New(table *symtab.Table, base uint16) *Encoder {
	return &Encoder{
		table:       table,
		pc:          int(base) - RomBase,
		resetVector: base,
		readFile:    os.ReadFile,
	}
}

// Encode walks nodes (paired with their Check results for instructions) and
// returns the finished 32 KB ROM image.
func Encode(nodes []parser.Node, resolved []symtab.Resolved, table *symtab.Table, base uint16) ([]byte, error) {
	e := New(table, base)
	if err := e.run(nodes, resolved); err != nil {
		return nil, err
	}
	if err := e.emitRAMInit(); err != nil {
		return nil, err
	}
	return e.finish()
}

// queueRAMByte defers a #DATA byte targeting a RAM address (below RomBase)
// to the boot-time init sequence built by emitRAMInit, since the ROM image
// has no byte range that maps onto RAM.
func (e *Encoder) queueRAMByte(address uint16, value byte) {
	e.ramInit = append(e.ramInit, ramByte{address: address, value: value})
}

func (e *Encoder) run(nodes []parser.Node, resolved []symtab.Resolved) error {
	ri := 0
	for _, n := range nodes {
		switch n.Kind {
		case parser.NodeLabel:
			e.table.Set(n.Label, symtab.Entry{
				Kind: symtab.EntryAddress, Defined: true, Address: uint16(RomBase + e.pc),
			})

		case parser.NodeDirective, parser.NodeError:
			// Directives are validated by the checker; they emit no bytes.
			// NodeError nodes were already reported and recovered from.

		case parser.NodeEndCount:
			if err := e.closeCounter(n.CounterID); err != nil {
				return err
			}

		case parser.NodeMacro:
			if err := e.encodeMacro(n.Macro); err != nil {
				return err
			}

		case parser.NodeInstruction:
			if ri >= len(resolved) {
				return &chiikoerr.AssemblerError{Stage: "encode", Cause: chiikoerr.ErrUnexpectedToken}
			}
			if err := e.encodeInstruction(resolved[ri]); err != nil {
				return err
			}
			ri++
		}
	}
	return nil
}

// emitRAMInit appends a boot-time prologue that copies every queued RAM byte
// into place with LOAD/SAVE, then jumps to the program's real entry point,
// and repoints the reset vector at the prologue. STRING and ARRAY macros
// targeting RAM addresses have no other way to land their initial values:
// the image itself only covers ROM, and RAM always resets to zero.
func (e *Encoder) emitRAMInit() error {
	if len(e.ramInit) == 0 {
		return nil
	}

	loadOp, err := isa.OperationByMnemonic("LOAD")
	if err != nil {
		return err
	}
	saveOp, err := isa.OperationByMnemonic("SAVE")
	if err != nil {
		return err
	}
	jumpOp, err := isa.OperationByMnemonic("JUMP")
	if err != nil {
		return err
	}

	prologue := uint16(RomBase + e.pc)
	for _, b := range e.ramInit {
		if err := e.emitByte(loadOp.Opcode); err != nil {
			return err
		}
		if err := e.emitByte(b.value); err != nil {
			return err
		}
		if err := e.emitByte(byte(isa.A)); err != nil {
			return err
		}

		if err := e.emitByte(saveOp.Opcode); err != nil {
			return err
		}
		if err := e.emitByte(byte(isa.A)); err != nil {
			return err
		}
		if err := e.emitWord(b.address); err != nil {
			return err
		}
	}

	if err := e.emitByte(jumpOp.Opcode); err != nil {
		return err
	}
	if err := e.emitWord(e.resetVector); err != nil {
		return err
	}

	e.resetVector = prologue
	return nil
}

func (e *Encoder) finish() ([]byte, error) {
	for _, fx := range e.fixups {
		entry, ok := e.table.Lookup(fx.name)
		if !ok || !entry.Defined {
			return nil, &chiikoerr.SymbolError{Name: fx.name, Cause: chiikoerr.ErrUnresolved}
		}
		switch fx.width {
		case fixupWord:
			binary.BigEndian.PutUint16(e.rom[fx.offset:], entry.Address)
		case fixupByte:
			e.rom[fx.offset] = byte(entry.Address)
		}
	}

	binary.BigEndian.PutUint16(e.rom[resetVectorOffset:], e.resetVector)

	out := make([]byte, RomSize)
	copy(out, e.rom[:])
	return out, nil
}

// emitByte writes one byte at the current sequential cursor and advances it.
func (e *Encoder) emitByte(b byte) error {
	if e.pc < 0 || e.pc >= RomSize {
		return &chiikoerr.AssemblerError{Stage: "encode", Cause: chiikoerr.ErrUnmappedAddress}
	}
	e.rom[e.pc] = b
	e.pc++
	return nil
}

func (e *Encoder) emitWord(v uint16) error {
	if err := e.emitByte(byte(v >> 8)); err != nil {
		return err
	}
	return e.emitByte(byte(v))
}

func (e *Encoder) emitBytes(bs []byte) error {
	for _, b := range bs {
		if err := e.emitByte(b); err != nil {
			return err
		}
	}
	return nil
}

// addFixup reserves placeholder bytes at the current cursor for a forward
// reference to name, to be patched once every label is known.
func (e *Encoder) addFixup(name string, width fixupWidth) error {
	offset := e.pc
	e.fixups = append(e.fixups, fixup{offset: offset, width: width, name: name})
	if width == fixupWord {
		return e.emitWord(0)
	}
	return e.emitByte(0)
}

func (e *Encoder) closeCounter(id int) error {
	offset, span, err := e.table.EndCounterSpan(id, e.pc)
	if err != nil {
		return err
	}
	if span > 0xFF {
		return &chiikoerr.AssemblerError{Stage: "encode", Cause: chiikoerr.ErrIllegalMode}
	}
	e.rom[offset] = byte(span)
	return nil
}

// writeAddress emits an address operand directly when the operand already
// carries a Location or names a declared variable; labels and undeclared
// names get placeholder bytes that finish patches once every label's final
// position is known.
func (e *Encoder) writeAddress(op isa.Operand, width fixupWidth) error {
	if op.Resolved {
		if width == fixupWord {
			return e.emitWord(op.Location)
		}
		return e.emitByte(byte(op.Location))
	}

	entry, ok := e.table.Lookup(op.ID)
	if ok && entry.Defined && entry.Kind == symtab.EntryVariable {
		if width == fixupWord {
			return e.emitWord(entry.Address)
		}
		return e.emitByte(byte(entry.Address))
	}
	return e.addFixup(op.ID, width)
}
