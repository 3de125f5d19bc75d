package parser

import (
	"fmt"
	"strings"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
	"github.com/chiiko/chiiko/internal/lexer"
)

// parseMacro dispatches on the macro mnemonic (already identified by
// isa.IsMacroName) to build a MacroNode.
func (p *Parser) parseMacro(mnemonic string, head lexer.Token) Node {
	switch mnemonic {
	case "STRING":
		return p.parseStringMacro(head)
	case "ARRAY":
		return p.parseArrayMacro(head)
	case "VAR", "NAME":
		return p.parseVariableMacro(head)
	case "LINK":
		return p.parseLinkMacro(head)
	default:
		return p.errNode(head, fmt.Errorf("%w: unknown macro %q", chiikoerr.ErrMalformedMacro, mnemonic))
	}
}

func (p *Parser) parseStringText() (string, error) {
	if p.current().Kind != lexer.Quote {
		return "", &chiikoerr.ParseError{
			Pos: chiikoerr.Position{Line: p.current().Line, Column: p.current().Column},
			Msg: "expected string literal", Cause: chiikoerr.ErrMalformedMacro,
		}
	}
	p.advance()
	str := p.current()
	if str.Kind != lexer.String {
		return "", &chiikoerr.ParseError{
			Pos: chiikoerr.Position{Line: str.Line, Column: str.Column},
			Msg: "expected string literal body", Cause: chiikoerr.ErrMalformedMacro,
		}
	}
	p.advance()
	return str.Text, nil
}

func (p *Parser) parseStringMacro(head lexer.Token) Node {
	addr, err := p.parseOperand()
	if err != nil {
		return p.errNode(head, fmt.Errorf("STRING: %w", err))
	}
	if addr.Kind != isa.KindAddress {
		return p.errNode(head, fmt.Errorf("%w: STRING destination must be address-valued", chiikoerr.ErrMalformedMacro))
	}
	if p.current().Kind == lexer.Comma {
		p.advance()
	}
	text, err := p.parseStringText()
	if err != nil {
		return p.errNode(head, fmt.Errorf("STRING: %w", err))
	}
	return Node{
		Kind: NodeMacro, Line: head.Line, Column: head.Column,
		Macro: MacroNode{Kind: MacroString, Address: addr, Text: text},
	}
}

func (p *Parser) parseArrayMacro(head lexer.Token) Node {
	addr, err := p.parseOperand()
	if err != nil {
		return p.errNode(head, fmt.Errorf("ARRAY: %w", err))
	}
	if addr.Kind != isa.KindAddress {
		return p.errNode(head, fmt.Errorf("%w: ARRAY destination must be address-valued", chiikoerr.ErrMalformedMacro))
	}
	if p.current().Kind == lexer.Comma {
		p.advance()
	}
	if p.current().Kind != lexer.OpenBracket {
		return p.errNode(head, fmt.Errorf("%w: expected '[' after ARRAY address", chiikoerr.ErrMalformedMacro))
	}
	p.advance()

	var elements []ArrayElement
	for p.current().Kind != lexer.CloseBracket {
		if p.current().Kind == lexer.EndOfFile {
			return p.errNode(head, fmt.Errorf("%w: unterminated ARRAY literal", chiikoerr.ErrUnterminatedToken))
		}
		if p.current().Kind == lexer.Comma {
			p.advance()
			continue
		}
		if p.current().Kind != lexer.Element {
			return p.errNode(head, fmt.Errorf("%w: expected array element", chiikoerr.ErrMalformedMacro))
		}
		el, err := parseArrayElement(p.current().Text)
		if err != nil {
			return p.errNode(head, fmt.Errorf("ARRAY: %w", err))
		}
		elements = append(elements, el)
		p.advance()
	}
	p.advance() // consume CloseBracket

	return Node{
		Kind: NodeMacro, Line: head.Line, Column: head.Column,
		Macro: MacroNode{Kind: MacroArray, Address: addr, Elements: elements},
	}
}

// parseArrayElement splits "name=value" into a named element, recognizes a
// bare numeral as a positional element, and treats a bare identifier as a
// labelled element with an initial value of 0.
func parseArrayElement(text string) (ArrayElement, error) {
	if idx := strings.IndexByte(text, '='); idx >= 0 {
		name := strings.TrimSpace(text[:idx])
		valueText := strings.TrimSpace(text[idx+1:])
		v, err := isa.ParseNumeral(valueText)
		if err != nil {
			return ArrayElement{}, err
		}
		return ArrayElement{Name: name, Value: uint16(v)}, nil
	}
	if isa.LooksNumeric(text) {
		v, err := isa.ParseNumeral(text)
		if err != nil {
			return ArrayElement{}, err
		}
		return ArrayElement{Value: uint16(v)}, nil
	}
	return ArrayElement{Name: text, Value: 0}, nil
}

func (p *Parser) parseVariableMacro(head lexer.Token) Node {
	addr, err := p.parseOperand()
	if err != nil {
		return p.errNode(head, fmt.Errorf("%s macro: %w", head.Text, err))
	}
	if addr.Kind != isa.KindAddress {
		return p.errNode(head, fmt.Errorf("%w: %s destination must be address-valued", chiikoerr.ErrMalformedMacro, head.Text))
	}
	if p.current().Kind == lexer.Comma {
		p.advance()
	}
	label := p.current()
	if label.Kind != lexer.Identifier {
		return p.errNode(head, fmt.Errorf("%w: expected label identifier", chiikoerr.ErrMalformedMacro))
	}
	p.advance()
	return Node{
		Kind: NodeMacro, Line: head.Line, Column: head.Column,
		Macro: MacroNode{Kind: MacroVariable, Address: addr, Label: label.Text},
	}
}

func (p *Parser) parseLinkMacro(head lexer.Token) Node {
	filename, err := p.parseStringText()
	if err != nil {
		return p.errNode(head, fmt.Errorf("LINK: %w", err))
	}
	return Node{
		Kind: NodeMacro, Line: head.Line, Column: head.Column,
		Macro: MacroNode{Kind: MacroLink, Filename: filename},
	}
}
