package parser

import "fmt"

// Position locates a token or node in the source text. Line and Column are
// 1-based; Offset counts runes from the start of the input.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d column %d", p.Line, p.Column)
}

// TokenKind identifies the lexical class of a token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenInvalid

	// Layout
	TokenNewLine
	TokenShebang
	TokenLineComment
	TokenBlockComment

	// Structure
	TokenSeparator // . , ( ) [ ] { } ;
	TokenOperator
	TokenAt
	TokenReserved // "..."

	// Names
	TokenIdentifier
	TokenKeyword

	// Literals
	TokenInteger
	TokenHex
	TokenBin
	TokenUnsigned
	TokenLong
	TokenFloat
	TokenDouble
	TokenBoolean
	TokenNull
	TokenCharacter
	TokenLineString
	TokenMultiLineString
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:             "EOF",
	TokenInvalid:         "Invalid",
	TokenNewLine:         "NewLine",
	TokenShebang:         "Shebang",
	TokenLineComment:     "LineComment",
	TokenBlockComment:    "BlockComment",
	TokenSeparator:       "Separator",
	TokenOperator:        "Operator",
	TokenAt:              "At",
	TokenReserved:        "Reserved",
	TokenIdentifier:      "Identifier",
	TokenKeyword:         "Keyword",
	TokenInteger:         "Integer",
	TokenHex:             "Hex",
	TokenBin:             "Bin",
	TokenUnsigned:        "Unsigned",
	TokenLong:            "Long",
	TokenFloat:           "Float",
	TokenDouble:          "Double",
	TokenBoolean:         "Boolean",
	TokenNull:            "Null",
	TokenCharacter:       "Character",
	TokenLineString:      "LineString",
	TokenMultiLineString: "MultiLineString",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// IsLiteral reports whether k is a literal constant class. String literals
// are not literal constants in the grammar; see IsString.
func (k TokenKind) IsLiteral() bool {
	switch k {
	case TokenInteger, TokenHex, TokenBin, TokenUnsigned, TokenLong,
		TokenFloat, TokenDouble, TokenBoolean, TokenNull, TokenCharacter:
		return true
	}
	return false
}

// IsString reports whether k is a string literal class.
func (k TokenKind) IsString() bool {
	return k == TokenLineString || k == TokenMultiLineString
}

// IsComment reports whether k is a comment class.
func (k TokenKind) IsComment() bool {
	return k == TokenLineComment || k == TokenBlockComment
}

// Token is a single lexical element. Text is the exact source slice,
// including quotes and suffixes for literals.
type Token struct {
	Kind     TokenKind
	Text     string
	Position Position
}

func (t Token) String() string {
	return t.Text
}

// Hard keywords always lex as TokenKeyword. Soft keywords (where, by, get,
// set, init, companion, constructor, import, dynamic, ...) lex as
// identifiers and are matched by text where the grammar needs them.
// as/in/is lex as operators; true/false/null lex as literals.
var keywords = map[string]bool{
	"break":     true,
	"class":     true,
	"continue":  true,
	"do":        true,
	"else":      true,
	"for":       true,
	"fun":       true,
	"if":        true,
	"interface": true,
	"object":    true,
	"package":   true,
	"return":    true,
	"super":     true,
	"this":      true,
	"throw":     true,
	"try":       true,
	"typealias": true,
	"typeof":    true,
	"val":       true,
	"var":       true,
	"when":      true,
	"while":     true,
}

// IsKeyword reports whether s is a hard keyword.
func IsKeyword(s string) bool {
	return keywords[s]
}

var separators = map[rune]bool{
	'.': true, ',': true, '(': true, ')': true,
	'[': true, ']': true, '{': true, '}': true, ';': true,
}

// operators, longest first within the scan. The lexer also produces the
// merged forms "as?", "!in", "!is", and keyword@ variants which are not
// reachable by maximal munch alone.
var operators = [][]string{
	{"===", "!==", "!in", "!is"},
	{"++", "--", "::", "..", "?:", "<=", ">=", "==", "!=", "&&", "||", "+=", "-=", "*=", "/=", "%=", "->"},
	{"?", "!", ":", "*", "/", "%", "+", "-", "<", ">", "="},
}
