package lexer

import (
	"testing"

	"github.com/cloudcmds/kestrel/internal/token"
	"github.com/stretchr/testify/require"
)

type expectedToken struct {
	typ     token.Type
	literal string
}

func requireTokens(t *testing.T, input string, expected []expectedToken) {
	t.Helper()
	l := New(input)
	for i, tt := range expected {
		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, tt.typ, tok.Type, "tests[%d] - token type wrong", i)
		require.Equal(t, tt.literal, tok.Literal, "tests[%d] - literal wrong", i)
	}
}

func TestNextTokenPunctuation(t *testing.T) {
	requireTokens(t, "=+(){},;", []expectedToken{
		{token.ASSIGN, "="},
		{token.PLUS, "+"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RBRACE, "}"},
		{token.COMMA, ","},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	})
}

func TestNextTokenOperators(t *testing.T) {
	requireTokens(t, "!-/*5; 5 < 10 > 5; 10 == 10; 10 != 9;", []expectedToken{
		{token.BANG, "!"},
		{token.MINUS, "-"},
		{token.SLASH, "/"},
		{token.ASTERISK, "*"},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.INT, "5"},
		{token.LT, "<"},
		{token.INT, "10"},
		{token.GT, ">"},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.INT, "10"},
		{token.EQ, "=="},
		{token.INT, "10"},
		{token.SEMICOLON, ";"},
		{token.INT, "10"},
		{token.NOT_EQ, "!="},
		{token.INT, "9"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	})
}

func TestLet(t *testing.T) {
	requireTokens(t, "let five = 5;", []expectedToken{
		{token.LET, "let"},
		{token.IDENT, "five"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	})
}

func TestIdentContainsKeyword(t *testing.T) {
	requireTokens(t, "let letter = 5 + five;", []expectedToken{
		{token.LET, "let"},
		{token.IDENT, "letter"},
		{token.ASSIGN, "="},
		{token.INT, "5"},
		{token.PLUS, "+"},
		{token.IDENT, "five"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	})
}

func TestKeywords(t *testing.T) {
	input := `let add = fn(x, y) { return x + y; };
if (true) { 1; } else { false; };`
	requireTokens(t, input, []expectedToken{
		{token.LET, "let"},
		{token.IDENT, "add"},
		{token.ASSIGN, "="},
		{token.FUNCTION, "fn"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.COMMA, ","},
		{token.IDENT, "y"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.PLUS, "+"},
		{token.IDENT, "y"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.SEMICOLON, ";"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.TRUE, "true"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.INT, "1"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"},
		{token.FALSE, "false"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	})
}

func TestString(t *testing.T) {
	requireTokens(t, `"foo bar"; ""`, []expectedToken{
		{token.STRING, "foo bar"},
		{token.SEMICOLON, ";"},
		{token.STRING, ""},
		{token.EOF, ""},
	})
}

func TestUnterminatedString(t *testing.T) {
	l := New(`"foo`)
	tok, err := l.Next()
	require.NotNil(t, err)
	require.Equal(t, token.ILLEGAL, tok.Type)
	require.Equal(t, "unterminated string literal starting at 1:1", err.Error())
}

func TestIllegal(t *testing.T) {
	requireTokens(t, "1 # 2", []expectedToken{
		{token.INT, "1"},
		{token.ILLEGAL, "#"},
		{token.INT, "2"},
		{token.EOF, ""},
	})
}

func TestPositions(t *testing.T) {
	tokens, err := New("let x = 1;\n  x;").Tokens()
	require.Nil(t, err)
	require.Len(t, tokens, 8)

	require.Equal(t, token.Position{Char: 0, Line: 0, Column: 0}, tokens[0].StartPosition)
	require.Equal(t, token.Position{Char: 4, Line: 0, Column: 4}, tokens[1].StartPosition)
	// "x" on the second line after two spaces
	require.Equal(t, token.Position{Char: 13, Line: 1, Column: 2}, tokens[5].StartPosition)
	require.Equal(t, token.EOF, tokens[7].Type)
}

func TestEOFIsSticky(t *testing.T) {
	l := New("")
	for i := 0; i < 3; i++ {
		tok, err := l.Next()
		require.Nil(t, err)
		require.Equal(t, token.EOF, tok.Type)
	}
}
