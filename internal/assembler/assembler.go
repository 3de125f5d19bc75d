// Package assembler wires the lexer, parser, symbol table, and encoder
// into the single entry point the CLI and tests call: source text in,
// a 32 KB ROM image out.
package assembler

import (
	"os"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/encoder"
	"github.com/chiiko/chiiko/internal/lexer"
	"github.com/chiiko/chiiko/internal/parser"
	"github.com/chiiko/chiiko/internal/symtab"
)

// Assemble runs the full pipeline over source and returns a finished ROM
// image at the default reset vector (encoder.RomBase).
func Assemble(source string) ([]byte, error) {
	return AssembleAt(source, encoder.RomBase)
}

// AssembleAt is Assemble with an explicit reset-vector/base address,
// letting a caller place the program's entry point anywhere in ROM.
func AssembleAt(source string, base uint16) ([]byte, error) {
	toks := lexer.New(source).Lex()

	nodes, err := parser.Parse(toks)
	if err != nil {
		return nil, &chiikoerr.AssemblerError{Stage: "parse", Cause: err}
	}
	for _, n := range nodes {
		if n.Kind == parser.NodeError {
			return nil, &chiikoerr.AssemblerError{Stage: "parse", Cause: n.Cause}
		}
	}

	table, err := symtab.Build(nodes)
	if err != nil {
		return nil, &chiikoerr.AssemblerError{Stage: "symtab", Cause: err}
	}

	resolved, err := symtab.Check(nodes)
	if err != nil {
		return nil, &chiikoerr.AssemblerError{Stage: "check", Cause: err}
	}

	rom, err := encoder.Encode(nodes, resolved, table, base)
	if err != nil {
		return nil, &chiikoerr.AssemblerError{Stage: "encode", Cause: err}
	}
	return rom, nil
}

// AssembleFile reads path and assembles its contents.
func AssembleFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &chiikoerr.SourceError{Path: path, Cause: err}
	}
	return Assemble(string(data))
}
