// Package symtab builds the symbol table from a parsed AST, performs
// addressing-mode inference, and runs the syntax checker: default/explicit
// /inferred mode reconciliation and operand count and register-shape
// validation. Build also rejects unknown directives. Macro arguments are not
// examined here; the parser checks their shapes.
package symtab

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
)

// EntryKind tags the variant of a Table Entry.
type EntryKind int

const (
	EntryAddress EntryKind = iota
	EntryVariable
	EntryCounter
	EntryDirective
)

// Entry is one symbol table binding. Defined distinguishes a placeholder
// created by a forward reference (an operand naming an identifier not yet
// seen) from a binding that has actually been declared by a Label,
// VariableData, or StartCount.
type Entry struct {
	Kind    EntryKind
	Defined bool

	Address uint16 // EntryAddress: label's mapped address (0x8000 + ROM offset), set by the encoder; EntryVariable: the variable's address
	Value   byte   // EntryVariable: initial byte value

	CounterStart       uint16 // EntryCounter: byte offset where the block began
	CounterEnd         uint16 // EntryCounter: byte offset where the block ended
	PlaceholderOffset  int    // EntryCounter: ROM offset of the reserved branch-length byte
	PlaceholderPending bool   // EntryCounter: true once StartCount has reserved a byte, until EndCount resolves it
}

// Table is the symbol table: identifier (already upper-cased by the
// parser) to Entry, built in a single pass over the AST.
type Table struct {
	entries map[string]*Entry
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{entries: make(map[string]*Entry)}
}

// Lookup returns the entry bound to name, if any.
func (t *Table) Lookup(name string) (*Entry, bool) {
	e, ok := t.entries[name]
	return e, ok
}

// Set installs or overwrites an entry directly, used by the encoder to
// patch label addresses and counter spans once they are known.
func (t *Table) Set(name string, e Entry) {
	copyE := e
	t.entries[name] = &copyE
}

// Names returns every symbol name currently bound, for diagnostics.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for n := range t.entries {
		names = append(names, n)
	}
	return names
}

// reference records that name was used as an operand without (yet) being
// defined. If name is unbound, a placeholder EntryVariable is inserted.
func (t *Table) reference(name string) {
	if _, ok := t.entries[name]; ok {
		return
	}
	t.entries[name] = &Entry{Kind: EntryVariable, Defined: false}
}

// define binds name to e. Redeclaring an already-Defined entry is an
// error; resolving a prior forward-reference placeholder is not.
func (t *Table) define(name string, e Entry) error {
	e.Defined = true
	if existing, ok := t.entries[name]; ok && existing.Defined {
		return &chiikoerr.SymbolError{Name: name, Cause: chiikoerr.ErrRedeclared}
	}
	t.entries[name] = &e
	return nil
}

// defineCounter binds a synthetic counter-id key, always freshly defined
// since counter ids are assigned uniquely by the parser.
func (t *Table) defineCounter(id int) {
	t.entries[counterKey(id)] = &Entry{Kind: EntryCounter, Defined: true}
}

func counterKey(id int) string {
	return fmt.Sprintf("#COUNTER%d", id)
}

// CounterEntry looks up the Counter entry for a given StartCount/EndCount
// id, used by the encoder once both ends of the block are known.
func (t *Table) CounterEntry(id int) (*Entry, bool) {
	return t.Lookup(counterKey(id))
}

// StartCounterSpan records that a StartCount placeholder byte was just
// reserved at romOffset, with the block's body beginning at bodyOffset.
func (t *Table) StartCounterSpan(id int, romOffset, bodyOffset int) error {
	e, ok := t.CounterEntry(id)
	if !ok {
		return &chiikoerr.SymbolError{Name: counterKey(id), Cause: chiikoerr.ErrUnresolved}
	}
	e.PlaceholderOffset = romOffset
	e.CounterStart = uint16(bodyOffset)
	e.PlaceholderPending = true
	return nil
}

// EndCounterSpan closes a StartCount block at bodyEndOffset and returns the
// placeholder's ROM offset and the resolved byte span, for the encoder to
// patch.
func (t *Table) EndCounterSpan(id int, bodyEndOffset int) (placeholderOffset int, span uint16, err error) {
	e, ok := t.CounterEntry(id)
	if !ok || !e.PlaceholderPending {
		return 0, 0, &chiikoerr.SymbolError{Name: counterKey(id), Cause: chiikoerr.ErrUnresolved}
	}
	e.CounterEnd = uint16(bodyEndOffset)
	e.PlaceholderPending = false
	return e.PlaceholderOffset, e.CounterEnd - e.CounterStart, nil
}
