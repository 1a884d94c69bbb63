package parser

import "unicode"

// lexMode tracks newline significance. Newlines separate statements at the
// top level and inside braces, but not inside parentheses or brackets.
type lexMode int

const (
	modeDefault lexMode = iota // newlines are tokens
	modeInside                 // newlines are whitespace
)

// Lexer scans Kotlin source text into tokens. It is total: malformed input
// produces TokenInvalid tokens rather than an error, so every input lexes to
// completion. The parser rejects Invalid tokens when it reaches them.
type Lexer struct {
	data    []rune
	pos     int
	line    int
	col     int
	modes   []lexMode
	pending []Token
}

// NewLexer returns a lexer over input positioned at the first token.
func NewLexer(input string) *Lexer {
	return &Lexer{
		data:  []rune(input),
		line:  1,
		col:   1,
		modes: []lexMode{modeDefault},
	}
}

// Tokenize scans all of input, comments included. The final element is
// always the EOF token.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.Next()
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

// Next returns the next token. At the end of input it returns the EOF token,
// repeatedly.
func (l *Lexer) Next() Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	for l.pos < len(l.data) {
		c := l.data[l.pos]
		cNext := l.peekAt(l.pos + 1)

		switch {
		case c == '\n' || c == '\r':
			tok := l.scanNewLine(c, cNext)
			if l.mode() == modeDefault {
				return tok
			}
			// suppressed inside ( ) and [ ]

		case unicode.IsSpace(c):
			l.advanceTo(l.pos + 1)

		case c == '/' && cNext == '/':
			return l.scanLineComment(TokenLineComment)

		case c == '/' && cNext == '*':
			return l.scanBlockComment()

		case c == '#' && cNext == '!':
			return l.scanLineComment(TokenShebang)

		case c == '.' && cNext == '.':
			// "..." is reserved, ".." is the range operator
			if l.peekAt(l.pos+2) == '.' {
				return l.token(TokenReserved, l.pos+3)
			}
			return l.token(TokenOperator, l.pos+2)

		case c == '.' && isDigit(cNext):
			return l.scanDecimalLiteral()

		case c == '@':
			return l.token(TokenAt, l.pos+1)

		case separators[c]:
			switch c {
			case '{':
				l.modes = append(l.modes, modeDefault)
			case '(', '[':
				l.modes = append(l.modes, modeInside)
			case ')', ']', '}':
				if len(l.modes) > 1 {
					l.modes = l.modes[:len(l.modes)-1]
				}
			}
			return l.token(TokenSeparator, l.pos+1)

		case c == '"':
			return l.scanStringLiteral()

		case c == '\'':
			return l.scanCharacterLiteral()

		case isDigit(c):
			return l.scanDigitLiteral(c, cNext)

		case c == '`':
			return l.scanEscapedIdentifier()

		case c == '_' || isIdentStart(c):
			return l.scanIdentifierOrKeyword()

		case c == '?' && cNext == ':' && l.peekAt(l.pos+2) == ':':
			// "?::" splits into "?" and "::"
			quest := l.token(TokenOperator, l.pos+1)
			l.pending = append(l.pending, l.token(TokenOperator, l.pos+2))
			return quest

		default:
			if end, ok := l.matchOperator(); ok {
				return l.token(TokenOperator, end)
			}
			return l.token(TokenInvalid, l.pos+1)
		}
	}
	return Token{Kind: TokenEOF, Position: l.position()}
}

func (l *Lexer) mode() lexMode {
	return l.modes[len(l.modes)-1]
}

func (l *Lexer) peekAt(i int) rune {
	if i < len(l.data) {
		return l.data[i]
	}
	return 0
}

func (l *Lexer) position() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// advanceTo moves the cursor to end, updating line and column. A CRLF pair
// counts as a single line break.
func (l *Lexer) advanceTo(end int) {
	for ; l.pos < end && l.pos < len(l.data); l.pos++ {
		c := l.data[l.pos]
		if c == '\n' || (c == '\r' && l.peekAt(l.pos+1) != '\n') {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
}

// token consumes runes up to end and returns them as a token of the given
// kind positioned at the current cursor.
func (l *Lexer) token(kind TokenKind, end int) Token {
	if end > len(l.data) {
		end = len(l.data)
	}
	pos := l.position()
	text := string(l.data[l.pos:end])
	l.advanceTo(end)
	return Token{Kind: kind, Text: text, Position: pos}
}

func (l *Lexer) scanNewLine(c, cNext rune) Token {
	if c == '\r' && cNext == '\n' {
		return l.token(TokenNewLine, l.pos+2)
	}
	return l.token(TokenNewLine, l.pos+1)
}

func (l *Lexer) scanLineComment(kind TokenKind) Token {
	i := l.pos + 2
	for i < len(l.data) && l.data[i] != '\n' && l.data[i] != '\r' {
		i++
	}
	return l.token(kind, i)
}

func (l *Lexer) scanBlockComment() Token {
	i := l.pos + 2
	depth := 1
	for i < len(l.data) && depth > 0 {
		if l.data[i] == '*' && l.peekAt(i+1) == '/' {
			depth--
			i += 2
		} else if l.data[i] == '/' && l.peekAt(i+1) == '*' {
			depth++
			i += 2
		} else {
			i++
		}
	}
	if depth > 0 {
		return l.token(TokenInvalid, len(l.data))
	}
	return l.token(TokenBlockComment, i)
}

// scanEscape checks the escape sequence starting at the backslash at i and
// returns the index past it.
func (l *Lexer) scanEscape(i int) (int, bool) {
	i++
	if i >= len(l.data) {
		return i, false
	}
	switch l.data[i] {
	case 'u':
		i++
		if i+4 > len(l.data) {
			return len(l.data), false
		}
		for j := i; j < i+4; j++ {
			if !isHexDigit(l.data[j]) {
				return j, false
			}
		}
		return i + 4, true
	case 't', 'b', 'r', 'n', '\'', '"', '\\', '$':
		return i + 1, true
	default:
		return i, false
	}
}

// scanTemplate skips a ${...} template starting at the dollar sign at i.
// The interior is re-lexed: nested templates, string literals and comments
// are scanned with the regular rules so their braces do not unbalance the
// template.
func (l *Lexer) scanTemplate(i int) (int, bool) {
	i += 2
	depth := 1
	for i < len(l.data) && depth > 0 {
		c := l.data[i]
		switch {
		case c == '}':
			i++
			depth--
		case c == '{':
			i++
			depth++
		case c == '\\':
			var ok bool
			if i, ok = l.scanEscape(i); !ok {
				return i, false
			}
		case c == '$' && l.peekAt(i+1) == '{':
			var ok bool
			if i, ok = l.scanTemplate(i); !ok {
				return i, false
			}
		case c == '"':
			single := !(l.peekAt(i+1) == '"' && l.peekAt(i+2) == '"')
			var ok bool
			if i, ok = l.scanString(i, single); !ok {
				return i, false
			}
		case c == '/' && l.peekAt(i+1) == '/':
			for i < len(l.data) && l.data[i] != '\n' && l.data[i] != '\r' {
				i++
			}
		case c == '/' && l.peekAt(i+1) == '*':
			i += 2
			nested := 1
			for i < len(l.data) && nested > 0 {
				if l.data[i] == '*' && l.peekAt(i+1) == '/' {
					nested--
					i += 2
				} else if l.data[i] == '/' && l.peekAt(i+1) == '*' {
					nested++
					i += 2
				} else {
					i++
				}
			}
		default:
			i++
		}
	}
	if depth > 0 {
		return i, false
	}
	return i, true
}

// scanString skips a string literal starting at the opening quote at i and
// returns the index past the closing quote.
func (l *Lexer) scanString(i int, singleLine bool) (int, bool) {
	quotes := 1
	if !singleLine {
		quotes = 3
	}
	i += quotes
	for i < len(l.data) {
		c := l.data[i]
		switch {
		case c == '"':
			if singleLine {
				return i + 1, true
			}
			count := 1
			for j := i + 1; j < len(l.data) && l.data[j] == '"'; j++ {
				count++
			}
			if count >= quotes {
				return i + count, true
			}
			i++
		case c == '$' && l.peekAt(i+1) == '{':
			var ok bool
			if i, ok = l.scanTemplate(i); !ok {
				return i, false
			}
		case singleLine && c == '\\':
			var ok bool
			if i, ok = l.scanEscape(i); !ok {
				return i, false
			}
		case singleLine && (c == '\n' || c == '\r'):
			return i, false
		default:
			i++
		}
	}
	return i, false
}

func (l *Lexer) scanStringLiteral() Token {
	if l.peekAt(l.pos+1) == '"' && l.peekAt(l.pos+2) == '"' {
		end, ok := l.scanString(l.pos, false)
		if !ok {
			return l.token(TokenInvalid, len(l.data))
		}
		return l.token(TokenMultiLineString, end)
	}
	end, ok := l.scanString(l.pos, true)
	if !ok {
		return l.token(TokenInvalid, end)
	}
	return l.token(TokenLineString, end)
}

func (l *Lexer) scanCharacterLiteral() Token {
	i := l.pos + 1
	if i >= len(l.data) {
		return l.token(TokenInvalid, len(l.data))
	}
	if l.data[i] == '\\' {
		var ok bool
		if i, ok = l.scanEscape(i); !ok {
			return l.token(TokenInvalid, i)
		}
	} else if l.data[i] != '\'' {
		i++
	}
	if i >= len(l.data) || l.data[i] != '\'' {
		return l.token(TokenInvalid, i)
	}
	return l.token(TokenCharacter, i+1)
}

// peekDigits returns the index past a run of digits and underscores.
func (l *Lexer) peekDigits(start int, digit func(rune) bool) int {
	for i := start; i < len(l.data); i++ {
		c := l.data[i]
		if c == '_' || digit(c) {
			continue
		}
		return i
	}
	return len(l.data)
}

// peekSuffix consumes an optional u/U (optionally followed by L) or L
// suffix. The returned kind overrides base when a suffix is present.
func (l *Lexer) peekSuffix(start int, base TokenKind) (int, TokenKind) {
	i := start
	kind := base
	if i < len(l.data) && (l.data[i] == 'u' || l.data[i] == 'U') {
		i++
		kind = TokenUnsigned
	}
	if i < len(l.data) && l.data[i] == 'L' {
		i++
		if kind != TokenUnsigned {
			kind = TokenLong
		}
	}
	return i, kind
}

func (l *Lexer) scanDecimalLiteral() Token {
	i := l.peekDigits(l.pos, isDigit)
	if i >= len(l.data) || !isRealMark(l.data[i]) {
		end, kind := l.peekSuffix(i, TokenInteger)
		return l.token(kind, end)
	}

	if l.data[i] == '.' {
		// 1..10 is a range and 0.toLong() a call, not doubles
		if i+1 < len(l.data) && !isDigit(l.data[i+1]) {
			return l.token(TokenInteger, i)
		}
		i = l.peekDigits(i+1, isDigit)
	}

	if i < len(l.data) && (l.data[i] == 'e' || l.data[i] == 'E') {
		i++
		if i < len(l.data) && (l.data[i] == '-' || l.data[i] == '+') {
			i++
		}
		i = l.peekDigits(i, isDigit)
	}

	if i < len(l.data) && (l.data[i] == 'f' || l.data[i] == 'F') {
		return l.token(TokenFloat, i+1)
	}
	return l.token(TokenDouble, i)
}

func (l *Lexer) scanDigitLiteral(c, cNext rune) Token {
	if c == '0' {
		switch cNext {
		case 'x', 'X':
			end, kind := l.peekSuffix(l.peekDigits(l.pos+2, isHexDigit), TokenHex)
			return l.token(kind, end)
		case 'b', 'B':
			end, kind := l.peekSuffix(l.peekDigits(l.pos+2, isBinDigit), TokenBin)
			return l.token(kind, end)
		}
	}
	return l.scanDecimalLiteral()
}

// matchOperator finds the longest operator at the cursor. "!in" and "!is"
// only match when not followed by a letter, so !isEnabled lexes as "!" and
// an identifier.
func (l *Lexer) matchOperator() (int, bool) {
	for _, group := range operators {
		n := len(group[0])
		if l.pos+n > len(l.data) {
			continue
		}
		text := string(l.data[l.pos : l.pos+n])
		for _, op := range group {
			if text != op {
				continue
			}
			if (op == "!in" || op == "!is") && isIdentStart(l.peekAt(l.pos+n)) {
				continue
			}
			return l.pos + n, true
		}
	}
	return 0, false
}

func (l *Lexer) scanEscapedIdentifier() Token {
	for i := l.pos + 1; i < len(l.data); i++ {
		c := l.data[i]
		if c == '`' {
			if i == l.pos+1 {
				return l.token(TokenInvalid, i+1)
			}
			return l.token(TokenIdentifier, i+1)
		}
		if c == '\n' || c == '\r' {
			return l.token(TokenInvalid, i)
		}
	}
	return l.token(TokenInvalid, len(l.data))
}

func (l *Lexer) scanIdentifierOrKeyword() Token {
	end := len(l.data)
	for i := l.pos + 1; i < len(l.data); i++ {
		c := l.data[i]
		if c != '_' && !isIdentPart(c) {
			end = i
			break
		}
	}

	ident := string(l.data[l.pos:end])
	switch {
	case ident == "null":
		return l.token(TokenNull, end)
	case ident == "true" || ident == "false":
		return l.token(TokenBoolean, end)
	case ident == "as":
		if end < len(l.data) && l.data[end] == '?' {
			end++
		}
		return l.token(TokenOperator, end)
	case ident == "is" || ident == "in":
		return l.token(TokenOperator, end)
	case ident == "return" || ident == "continue" || ident == "break" ||
		ident == "this" || ident == "super":
		// return@label and friends keep the @ on the keyword token
		if end < len(l.data) && l.data[end] == '@' {
			end++
		}
		return l.token(TokenKeyword, end)
	case IsKeyword(ident):
		return l.token(TokenKeyword, end)
	default:
		return l.token(TokenIdentifier, end)
	}
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isBinDigit(c rune) bool { return c == '0' || c == '1' }

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isRealMark(c rune) bool {
	return c == '.' || c == 'e' || c == 'E' || c == 'f' || c == 'F'
}

func isIdentStart(c rune) bool {
	return unicode.IsLetter(c)
}

func isIdentPart(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c)
}
