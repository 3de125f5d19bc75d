// Package lexer tokenizes Chiiko assembly source text. It is a
// mode-stacked cursor: the stack top selects which tokenization rules
// apply, switching between normal code, string literals, and the
// bracketed array/tuple literal shapes used by macros and explicit modes.
package lexer

import "fmt"

// Kind identifies a token's syntactic category.
type Kind int

const (
	Newline Kind = iota
	Identifier
	LabelHeader
	JumpLabel
	Directive
	DirectAddress
	IndirectAddress
	DecimalNumber
	HexNumber
	OctalNumber
	BinaryNumber
	String
	Element
	Comma
	OpenBracket
	CloseBracket
	OpenBrace
	CloseBrace
	OpenParen
	CloseParen
	Quote
	Comment
	TokenError
	EndOfFile
)

func (k Kind) String() string {
	names := map[Kind]string{
		Newline: "Newline", Identifier: "Identifier", LabelHeader: "LabelHeader",
		JumpLabel: "JumpLabel", Directive: "Directive", DirectAddress: "DirectAddress",
		IndirectAddress: "IndirectAddress", DecimalNumber: "DecimalNumber", HexNumber: "HexNumber",
		OctalNumber: "OctalNumber", BinaryNumber: "BinaryNumber", String: "String",
		Element: "Element", Comma: "Comma", OpenBracket: "OpenBracket", CloseBracket: "CloseBracket",
		OpenBrace: "OpenBrace", CloseBrace: "CloseBrace", OpenParen: "OpenParen", CloseParen: "CloseParen",
		Quote: "Quote", Comment: "Comment", TokenError: "TokenError", EndOfFile: "EndOfFile",
	}
	if n, ok := names[k]; ok {
		return n
	}
	return "?kind?"
}

// Token is one lexical unit, tagged with its source position.
type Token struct {
	Kind    Kind
	Text    string
	Line    int
	Column  int
	Message string // set when Kind == TokenError
	Snippet string // set when Kind == TokenError
}

func (t Token) String() string {
	if t.Kind == TokenError {
		return fmt.Sprintf("%s(%d:%d %q: %s)", t.Kind, t.Line, t.Column, t.Snippet, t.Message)
	}
	return fmt.Sprintf("%s(%d:%d %q)", t.Kind, t.Line, t.Column, t.Text)
}
