package lexer_test

import (
	"testing"

	"github.com/chiiko/chiiko/internal/lexer"
	"github.com/stretchr/testify/require"
)

func kinds(toks []lexer.Token) []lexer.Kind {
	ks := make([]lexer.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexSimpleInstruction(t *testing.T) {
	toks := lexer.New("ADD 1, A\n").Lex()
	require.Equal(t, []lexer.Kind{
		lexer.Identifier, lexer.DecimalNumber, lexer.Comma, lexer.Identifier,
		lexer.Newline, lexer.EndOfFile,
	}, kinds(toks))
	require.Equal(t, "ADD", toks[0].Text)
	require.Equal(t, "1", toks[1].Text)
	require.Equal(t, "A", toks[3].Text)
}

func TestLexLabelHeaderAndJumpLabel(t *testing.T) {
	toks := lexer.New("LOOP:\nJUMP :LOOP\n").Lex()
	require.Equal(t, lexer.LabelHeader, toks[0].Kind)
	require.Equal(t, "LOOP", toks[0].Text)

	var jump lexer.Token
	for _, tok := range toks {
		if tok.Kind == lexer.JumpLabel {
			jump = tok
		}
	}
	require.Equal(t, "LOOP", jump.Text)
}

func TestLexSigilAddresses(t *testing.T) {
	toks := lexer.New("SAVE A, $0xFF\nLOAD @COUNTER, B\n").Lex()
	var direct, indirect lexer.Token
	for _, tok := range toks {
		switch tok.Kind {
		case lexer.DirectAddress:
			direct = tok
		case lexer.IndirectAddress:
			indirect = tok
		}
	}
	require.Equal(t, "0xFF", direct.Text)
	require.Equal(t, "COUNTER", indirect.Text)
}

func TestLexDirective(t *testing.T) {
	toks := lexer.New("#DATA\n").Lex()
	require.Equal(t, lexer.Directive, toks[0].Kind)
	require.Equal(t, "DATA", toks[0].Text)
}

func TestLexStringLiteral(t *testing.T) {
	toks := lexer.New(`#STRING greeting "hello, world"` + "\n").Lex()
	var str lexer.Token
	for _, tok := range toks {
		if tok.Kind == lexer.String {
			str = tok
		}
	}
	require.Equal(t, "hello, world", str.Text)
}

func TestLexArrayLiteral(t *testing.T) {
	toks := lexer.New("#ARRAY nums [1, 2, 3]\n").Lex()
	var elements []string
	for _, tok := range toks {
		if tok.Kind == lexer.Element {
			elements = append(elements, tok.Text)
		}
	}
	require.Equal(t, []string{"1", "2", "3"}, elements)
}

func TestLexTupleLiteralForExplicitMode(t *testing.T) {
	toks := lexer.New("ADD (VALUE, REGISTERM) 1, A\n").Lex()
	var sawOpenParen, sawCloseParen bool
	var elements []string
	for _, tok := range toks {
		switch tok.Kind {
		case lexer.OpenParen:
			sawOpenParen = true
		case lexer.CloseParen:
			sawCloseParen = true
		case lexer.Element:
			elements = append(elements, tok.Text)
		}
	}
	require.True(t, sawOpenParen)
	require.True(t, sawCloseParen)
	require.Equal(t, []string{"VALUE", "REGISTERM"}, elements)
}

func TestLexCommentIsSkippedFromSignificantTokens(t *testing.T) {
	toks := lexer.New("ADD 1, A ; add one\nHALT\n").Lex()
	require.Equal(t, lexer.Comment, toks[4].Kind)
	require.Equal(t, "add one", toks[4].Text)
}

func TestLexUnknownCharacterRecoversToNextLine(t *testing.T) {
	toks := lexer.New("ADD 1, A\n`bad\nHALT\n").Lex()
	var sawError bool
	for _, tok := range toks {
		if tok.Kind == lexer.TokenError {
			sawError = true
		}
	}
	require.True(t, sawError)
	require.Equal(t, lexer.Identifier, toks[len(toks)-3].Kind)
	require.Equal(t, "HALT", toks[len(toks)-3].Text)
}

func TestLexHexOctalBinaryNumbers(t *testing.T) {
	toks := lexer.New("0x1F 0o17 0b1010\n").Lex()
	require.Equal(t, lexer.HexNumber, toks[0].Kind)
	require.Equal(t, lexer.OctalNumber, toks[1].Kind)
	require.Equal(t, lexer.BinaryNumber, toks[2].Kind)
}
