package parser

import (
	"testing"
)

func tokenKinds(input string) []TokenKind {
	var kinds []TokenKind
	for _, tok := range Tokenize(input) {
		kinds = append(kinds, tok.Kind)
	}
	return kinds
}

func TestLexerSequences(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"", []TokenKind{TokenEOF}},
		{"class", []TokenKind{TokenKeyword, TokenEOF}},
		{"val x = 1", []TokenKind{TokenKeyword, TokenIdentifier, TokenOperator, TokenInteger, TokenEOF}},
		{"a\nb", []TokenKind{TokenIdentifier, TokenNewLine, TokenIdentifier, TokenEOF}},
		{"f(a,\nb)", []TokenKind{TokenIdentifier, TokenSeparator, TokenIdentifier, TokenSeparator, TokenIdentifier, TokenSeparator, TokenEOF}},
		{"x[\n0\n]", []TokenKind{TokenIdentifier, TokenSeparator, TokenInteger, TokenSeparator, TokenEOF}},
		{"run {\n}", []TokenKind{TokenIdentifier, TokenSeparator, TokenNewLine, TokenSeparator, TokenEOF}},
		{"// note\nval", []TokenKind{TokenLineComment, TokenNewLine, TokenKeyword, TokenEOF}},
		{"/* a /* b */ c */ x", []TokenKind{TokenBlockComment, TokenIdentifier, TokenEOF}},
		{"#!/usr/bin/env kotlin\n", []TokenKind{TokenShebang, TokenNewLine, TokenEOF}},
		{"1..10", []TokenKind{TokenInteger, TokenOperator, TokenInteger, TokenEOF}},
		{"0.toLong()", []TokenKind{TokenInteger, TokenSeparator, TokenIdentifier, TokenSeparator, TokenSeparator, TokenEOF}},
		{"...", []TokenKind{TokenReserved, TokenEOF}},
		{"a?.b", []TokenKind{TokenIdentifier, TokenOperator, TokenSeparator, TokenIdentifier, TokenEOF}},
		{"x!!", []TokenKind{TokenIdentifier, TokenOperator, TokenOperator, TokenEOF}},
		{"?::", []TokenKind{TokenOperator, TokenOperator, TokenEOF}},
		{"@Test", []TokenKind{TokenAt, TokenIdentifier, TokenEOF}},
		{"#", []TokenKind{TokenInvalid, TokenEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := tokenKinds(tt.input)
			if len(got) != len(tt.expected) {
				t.Fatalf("got %d tokens %v, want %d", len(got), got, len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLexerKeywords(t *testing.T) {
	hard := []string{
		"break", "class", "continue", "do", "else", "for", "fun", "if",
		"interface", "object", "package", "return", "super", "this", "throw",
		"try", "typealias", "typeof", "val", "var", "when", "while",
	}
	for _, input := range hard {
		t.Run(input, func(t *testing.T) {
			tok := Tokenize(input)[0]
			if tok.Kind != TokenKeyword {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenKeyword)
			}
			if tok.Text != input {
				t.Errorf("Text = %q, want %q", tok.Text, input)
			}
		})
	}
}

// Soft keywords only matter in specific grammar positions and lex as plain
// identifiers.
func TestLexerSoftKeywords(t *testing.T) {
	soft := []string{
		"where", "by", "get", "set", "init", "companion", "constructor",
		"import", "dynamic", "field", "value", "data", "enum", "sealed",
		"inline", "out", "vararg", "catch", "finally",
	}
	for _, input := range soft {
		t.Run(input, func(t *testing.T) {
			tok := Tokenize(input)[0]
			if tok.Kind != TokenIdentifier {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenIdentifier)
			}
		})
	}
}

func TestLexerOperatorWords(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"as", "as"},
		{"as? Int", "as?"},
		{"is", "is"},
		{"in", "in"},
		{"!in list", "!in"},
		{"!is String", "!is"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := Tokenize(tt.input)[0]
			if tok.Kind != TokenOperator {
				t.Errorf("Kind = %v, want %v", tok.Kind, TokenOperator)
			}
			if tok.Text != tt.text {
				t.Errorf("Text = %q, want %q", tok.Text, tt.text)
			}
		})
	}

	t.Run("!isEnabled", func(t *testing.T) {
		// "!is" followed by a letter is a negation, not the operator
		got := tokenKinds("!isEnabled")
		want := []TokenKind{TokenOperator, TokenIdentifier, TokenEOF}
		if len(got) != len(want) {
			t.Fatalf("got %v, want %v", got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
			}
		}
	})
}

func TestLexerJumpLabels(t *testing.T) {
	tests := []struct {
		input string
		text  string
	}{
		{"return@loop", "return@"},
		{"continue@outer", "continue@"},
		{"break@outer", "break@"},
		{"this@Outer", "this@"},
		{"super@Outer", "super@"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			if tokens[0].Kind != TokenKeyword {
				t.Errorf("Kind = %v, want %v", tokens[0].Kind, TokenKeyword)
			}
			if tokens[0].Text != tt.text {
				t.Errorf("Text = %q, want %q", tokens[0].Text, tt.text)
			}
			if tokens[1].Kind != TokenIdentifier {
				t.Errorf("label Kind = %v, want %v", tokens[1].Kind, TokenIdentifier)
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"0", TokenInteger},
		{"123", TokenInteger},
		{"1_000_000", TokenInteger},
		{"0x1F", TokenHex},
		{"0xDEAD_BEEF", TokenHex},
		{"0b1010", TokenBin},
		{"42u", TokenUnsigned},
		{"42U", TokenUnsigned},
		{"42uL", TokenUnsigned},
		{"42L", TokenLong},
		{"0xFFL", TokenLong},
		{"3.14", TokenDouble},
		{".5", TokenDouble},
		{"1e10", TokenDouble},
		{"1.5e-10", TokenDouble},
		{"3.14f", TokenFloat},
		{"2F", TokenFloat},
		{"true", TokenBoolean},
		{"false", TokenBoolean},
		{"null", TokenNull},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := Tokenize(tt.input)[0]
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Text != tt.input {
				t.Errorf("Text = %q, want %q", tok.Text, tt.input)
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{`"hello"`, TokenLineString},
		{`""`, TokenLineString},
		{`"with \"escapes\""`, TokenLineString},
		{`"tab\there"`, TokenLineString},
		{`"plain $name"`, TokenLineString},
		{`"sum: ${a + b}"`, TokenLineString},
		{`"${outer("${inner}")}"`, TokenLineString},
		{`"${"quoted } brace"}"`, TokenLineString},
		{"\"\"\"multi\nline\"\"\"", TokenMultiLineString},
		{"\"\"\"no \\ escapes\"\"\"", TokenMultiLineString},
		{"\"\"\"${a}\"\"\"", TokenMultiLineString},
		{`'a'`, TokenCharacter},
		{`'\n'`, TokenCharacter},
		{`'A'`, TokenCharacter},
		{`'\''`, TokenCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := Tokenize(tt.input)[0]
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Text != tt.input {
				t.Errorf("Text = %q, want %q", tok.Text, tt.input)
			}
		})
	}
}

func TestLexerEscapedIdentifier(t *testing.T) {
	tok := Tokenize("`fun with spaces`")[0]
	if tok.Kind != TokenIdentifier {
		t.Errorf("Kind = %v, want %v", tok.Kind, TokenIdentifier)
	}
	if tok.Text != "`fun with spaces`" {
		t.Errorf("Text = %q", tok.Text)
	}
}

// The lexer is total: malformed input becomes Invalid tokens, never a panic,
// and the stream always ends with EOF.
func TestLexerMalformedInput(t *testing.T) {
	tests := []string{
		`"unterminated`,
		`"bad \q escape"`,
		"'",
		"'ab'",
		"`unterminated",
		"``",
		"/* unterminated",
		"#",
		"\"\"\"open",
		`"${unclosed"`,
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			tokens := Tokenize(input)
			if tokens[len(tokens)-1].Kind != TokenEOF {
				t.Fatalf("last token = %v, want EOF", tokens[len(tokens)-1].Kind)
			}
			sawInvalid := false
			for _, tok := range tokens {
				if tok.Kind == TokenInvalid {
					sawInvalid = true
				}
			}
			if !sawInvalid {
				t.Errorf("no Invalid token in %v", tokens)
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	tokens := Tokenize("val x =\n  42")

	wants := []struct {
		text string
		line int
		col  int
	}{
		{"val", 1, 1},
		{"x", 1, 5},
		{"=", 1, 7},
		{"\n", 1, 8},
		{"42", 2, 3},
	}

	for i, want := range wants {
		tok := tokens[i]
		if tok.Text != want.text {
			t.Errorf("token %d: Text = %q, want %q", i, tok.Text, want.text)
		}
		if tok.Position.Line != want.line || tok.Position.Column != want.col {
			t.Errorf("token %d: at (%d, %d), want (%d, %d)",
				i, tok.Position.Line, tok.Position.Column, want.line, want.col)
		}
	}
}

func TestLexerCRLF(t *testing.T) {
	tokens := Tokenize("a\r\nb")
	if tokens[1].Kind != TokenNewLine {
		t.Errorf("Kind = %v, want %v", tokens[1].Kind, TokenNewLine)
	}
	if tokens[2].Position.Line != 2 || tokens[2].Position.Column != 1 {
		t.Errorf("b at (%d, %d), want (2, 1)", tokens[2].Position.Line, tokens[2].Position.Column)
	}
}
