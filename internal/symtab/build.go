package symtab

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
	"github.com/chiiko/chiiko/internal/parser"
)

var knownDirectives = map[string]bool{
	"DATA": true, "LOGIC": true, "SUBROUTINES": true,
}

// Build walks the AST once, populating a fresh Table: every Label becomes
// an Address placeholder, every VariableData and named ArrayData element
// becomes a Variable, every StartCount operand becomes a Counter, and
// every unresolved address-identifier operand (length >= 3, not parseable
// as a number) becomes a forward-declared Variable.
func Build(nodes []parser.Node) (*Table, error) {
	t := New()

	for _, n := range nodes {
		switch n.Kind {
		case parser.NodeLabel:
			if err := t.define(n.Label, Entry{Kind: EntryAddress, Address: 0}); err != nil {
				return nil, err
			}

		case parser.NodeDirective:
			if !knownDirectives[n.Directive] {
				return nil, &chiikoerr.SymbolError{
					Name:  n.Directive,
					Cause: fmt.Errorf("%w: unknown directive", chiikoerr.ErrUnexpectedToken),
				}
			}
			t.entries[n.Directive] = &Entry{Kind: EntryDirective, Defined: true}

		case parser.NodeMacro:
			if err := buildMacro(t, n.Macro); err != nil {
				return nil, err
			}

		case parser.NodeInstruction:
			referenceOperands(t, n.Operands)
		}
	}

	return t, nil
}

func buildMacro(t *Table, m parser.MacroNode) error {
	switch m.Kind {
	case parser.MacroVariable:
		return t.define(m.Label, Entry{Kind: EntryVariable, Address: m.Address.Location, Value: 0})

	case parser.MacroArray:
		for i, el := range m.Elements {
			if el.Name == "" {
				continue
			}
			offset := uint16(i)
			if err := t.define(el.Name, Entry{
				Kind: EntryVariable, Address: m.Address.Location + offset, Value: byte(el.Value),
			}); err != nil {
				return err
			}
		}
		return nil

	case parser.MacroString, parser.MacroLink:
		return nil

	default:
		return nil
	}
}

// referenceOperands scans an instruction's operands for unresolved
// address identifiers and conditional-branch counter placeholders.
func referenceOperands(t *Table, operands []isa.Operand) {
	for _, op := range operands {
		switch op.Kind {
		case isa.KindAddress:
			if !op.Resolved && len(op.ID) >= 3 && !isa.LooksNumeric(op.ID) {
				t.reference(op.ID)
			}
		case isa.KindJumpAddress:
			if len(op.ID) > 0 {
				t.reference(op.ID)
			}
		case isa.KindCounter:
			t.defineCounter(op.CounterID)
		}
	}
}
