package parser

import (
	"fmt"

	"github.com/chiiko/chiiko/internal/chiikoerr"
	"github.com/chiiko/chiiko/internal/isa"
	"github.com/chiiko/chiiko/internal/lexer"
)

// Parser walks a token stream and builds a flat slice of top-level Nodes.
// Malformed statements are reported as NodeError nodes rather than aborting
// the whole parse, mirroring the lexer's skip-to-newline recovery.
type Parser struct {
	toks      []lexer.Token
	pos       int
	counterID int
}

// New constructs a Parser over a complete token stream (as produced by
// lexer.Lex).
func New(toks []lexer.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse consumes the whole token stream and returns its AST. A non-nil
// error is only returned for conditions a caller cannot recover from
// (currently none: malformed lines surface as NodeError entries instead).
func Parse(toks []lexer.Token) ([]Node, error) {
	return New(toks).Parse()
}

func (p *Parser) Parse() ([]Node, error) {
	var nodes []Node
	for {
		p.skipNewlinesAndComments()
		if p.current().Kind == lexer.EndOfFile {
			break
		}
		nodes = append(nodes, p.parseStatement())
	}
	return nodes, nil
}

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.EndOfFile}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *Parser) skipNewlinesAndComments() {
	for {
		switch p.current().Kind {
		case lexer.Newline, lexer.Comment:
			p.advance()
		default:
			return
		}
	}
}

// skipToNewline recovers from a malformed statement by discarding tokens
// until the next statement boundary.
func (p *Parser) skipToNewline() {
	for {
		k := p.current().Kind
		if k == lexer.Newline || k == lexer.EndOfFile {
			return
		}
		p.advance()
	}
}

// errNode builds a NodeError from cause, preserving it on Cause so
// errors.Is/errors.As can still recover the underlying sentinel after the
// node has been reduced to a Message string for display.
func (p *Parser) errNode(tok lexer.Token, cause error) Node {
	n := Node{
		Kind:    NodeError,
		Line:    tok.Line,
		Column:  tok.Column,
		Message: cause.Error(),
		Cause:   cause,
	}
	p.skipToNewline()
	return n
}

func (p *Parser) parseStatement() Node {
	tok := p.current()

	switch tok.Kind {
	case lexer.Directive:
		p.advance()
		return Node{Kind: NodeDirective, Directive: tok.Text, Line: tok.Line, Column: tok.Column}

	case lexer.LabelHeader:
		p.advance()
		return Node{Kind: NodeLabel, Label: tok.Text, Line: tok.Line, Column: tok.Column}

	case lexer.CloseBrace:
		p.advance()
		id := p.counterID
		p.counterID++
		return Node{Kind: NodeEndCount, CounterID: id, Line: tok.Line, Column: tok.Column}

	case lexer.TokenError:
		p.advance()
		return p.errNode(tok, fmt.Errorf("%w: %s", chiikoerr.ErrUnknownChar, tok.Message))

	case lexer.Identifier:
		mnemonic := tok.Text
		p.advance()
		if isa.IsMacroName(mnemonic) {
			return p.parseMacro(mnemonic, tok)
		}
		return p.parseInstruction(mnemonic, tok)

	default:
		p.advance()
		return p.errNode(tok, fmt.Errorf("%w: %v", chiikoerr.ErrUnexpectedToken, tok.Kind))
	}
}

func (p *Parser) parseInstruction(mnemonic string, head lexer.Token) Node {
	node := Node{Kind: NodeInstruction, Mnemonic: mnemonic, Line: head.Line, Column: head.Column}

	if p.current().Kind == lexer.OpenParen {
		mode, err := p.parseExplicitMode()
		if err != nil {
			return p.errNode(head, err)
		}
		node.ExplicitMode = mode
	}

	for {
		k := p.current().Kind
		if k == lexer.Newline || k == lexer.EndOfFile || k == lexer.Comment || k == lexer.CloseBrace {
			break
		}
		operand, err := p.parseOperand()
		if err != nil {
			return p.errNode(head, err)
		}
		node.Operands = append(node.Operands, operand)

		if p.current().Kind == lexer.Comma {
			p.advance()
			continue
		}
		break
	}

	return node
}

// parseExplicitMode parses the "(KEY, KEY)" tuple immediately following a
// mnemonic, produced by the lexer's TupleLiteral mode as two Element
// tokens around a Comma.
func (p *Parser) parseExplicitMode() (*isa.Mode, error) {
	p.advance() // consume OpenParen

	leftTok := p.current()
	if leftTok.Kind != lexer.Element {
		return nil, &chiikoerr.ParseError{
			Pos: chiikoerr.Position{Line: leftTok.Line, Column: leftTok.Column},
			Msg: "expected mode key", Cause: chiikoerr.ErrUnexpectedToken,
		}
	}
	p.advance()
	left, err := isa.ModeByKey(leftTok.Text)
	if err != nil {
		return nil, err
	}

	if p.current().Kind == lexer.Comma {
		p.advance()
	}

	rightTok := p.current()
	if rightTok.Kind != lexer.Element {
		return nil, &chiikoerr.ParseError{
			Pos: chiikoerr.Position{Line: rightTok.Line, Column: rightTok.Column},
			Msg: "expected mode key", Cause: chiikoerr.ErrUnexpectedToken,
		}
	}
	p.advance()
	right, err := isa.ModeByKey(rightTok.Text)
	if err != nil {
		return nil, err
	}

	if p.current().Kind == lexer.CloseParen {
		p.advance()
	}

	return &isa.Mode{Left: left, Right: right}, nil
}

// parseOperand maps one token to its Operand shape.
func (p *Parser) parseOperand() (isa.Operand, error) {
	tok := p.current()

	switch tok.Kind {
	case lexer.DecimalNumber, lexer.HexNumber, lexer.OctalNumber, lexer.BinaryNumber:
		p.advance()
		v, err := isa.ParseNumeral(tok.Text)
		if err != nil {
			return isa.Operand{}, err
		}
		return isa.NumberOperand(uint16(v)), nil

	case lexer.Identifier:
		p.advance()
		if len(tok.Text) <= 2 && isa.IsRegisterName(tok.Text) {
			reg, err := isa.RegisterByName(tok.Text)
			if err != nil {
				return isa.Operand{}, err
			}
			return isa.RegisterOperand(reg, true), nil
		}
		return isa.AddressOperand(tok.Text, 0, false, true), nil

	case lexer.DirectAddress:
		p.advance()
		if isa.LooksNumeric(tok.Text) {
			v, err := isa.ParseNumeral(tok.Text)
			if err != nil {
				return isa.Operand{}, err
			}
			return isa.AddressOperand("", uint16(v), true, true), nil
		}
		return isa.AddressOperand(tok.Text, 0, false, true), nil

	case lexer.IndirectAddress:
		p.advance()
		if isa.LooksNumeric(tok.Text) {
			v, err := isa.ParseNumeral(tok.Text)
			if err != nil {
				return isa.Operand{}, err
			}
			return isa.AddressOperand("", uint16(v), true, false), nil
		}
		return isa.AddressOperand(tok.Text, 0, false, false), nil

	case lexer.JumpLabel:
		p.advance()
		return isa.JumpAddressOperand(tok.Text, 0, false), nil

	case lexer.OpenBrace:
		p.advance()
		return isa.CounterOperand(p.counterID), nil

	case lexer.Quote:
		p.advance()
		str := p.current()
		if str.Kind != lexer.String {
			return isa.Operand{}, &chiikoerr.ParseError{
				Pos: chiikoerr.Position{Line: tok.Line, Column: tok.Column},
				Msg: "expected string literal body", Cause: chiikoerr.ErrUnexpectedToken,
			}
		}
		p.advance()
		return isa.StringOperand(str.Text), nil

	case lexer.String:
		p.advance()
		return isa.StringOperand(tok.Text), nil

	default:
		return isa.Operand{}, &chiikoerr.ParseError{
			Pos: chiikoerr.Position{Line: tok.Line, Column: tok.Column},
			Msg: fmt.Sprintf("unexpected operand token %v", tok.Kind), Cause: chiikoerr.ErrUnexpectedToken,
		}
	}
}
