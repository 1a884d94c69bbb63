package parser

// Parser parses Kotlin source into a syntax tree. The input is tokenized up
// front; lookahead and backtracking work on the token slice through an
// integer cursor, so a checkpoint is a plain index copy.
//
// Internally a failed accept panics with a *SyntaxError. The exported entry
// points recover it and return it as an error, so a parse either yields a
// complete tree or the first error with no partial result.
type Parser struct {
	cur       *cursor
	typeCache map[int]cachedType
}

// NewParser returns a parser over code. Comments do not take part in the
// grammar and are dropped before parsing.
func NewParser(code string) *Parser {
	all := Tokenize(code)
	tokens := make([]Token, 0, len(all))
	for _, tok := range all {
		if tok.Kind.IsComment() {
			continue
		}
		tokens = append(tokens, tok)
	}
	return &Parser{
		cur:       newCursor(tokens),
		typeCache: make(map[int]cachedType),
	}
}

// Parse parses the input as a complete Kotlin file. All input must be
// consumed.
func (p *Parser) Parse() (*KotlinFile, error) {
	return parseEntry(p.parseKotlinFile)
}

// ParseScript parses the input as a Kotlin script: top-level statements
// instead of declarations. All input must be consumed.
func (p *Parser) ParseScript() (*Script, error) {
	return parseEntry(p.parseScript)
}

// ParseDeclaration parses a single declaration. Trailing input is ignored.
func (p *Parser) ParseDeclaration() (Declaration, error) {
	return parseEntry(func() Declaration { return p.parseDeclaration(true) })
}

// ParseClassDeclaration parses a class, interface, fun interface, or enum
// class declaration. Trailing input is ignored.
func (p *Parser) ParseClassDeclaration() (*ClassDeclaration, error) {
	return parseEntry(p.parseClassDeclaration)
}

// ParseObjectDeclaration parses an object declaration. Trailing input is
// ignored.
func (p *Parser) ParseObjectDeclaration() (*ObjectDeclaration, error) {
	return parseEntry(p.parseObjectDeclaration)
}

// ParseFunctionDeclaration parses a function declaration. Trailing input is
// ignored.
func (p *Parser) ParseFunctionDeclaration() (*FunctionDeclaration, error) {
	return parseEntry(p.parseFunctionDeclaration)
}

// ParsePropertyDeclaration parses a property declaration, accessors
// included. Trailing input is ignored.
func (p *Parser) ParsePropertyDeclaration() (*PropertyDeclaration, error) {
	return parseEntry(func() *PropertyDeclaration { return p.parsePropertyDeclaration(true) })
}

// ParseTypeAlias parses a typealias declaration. Trailing input is ignored.
func (p *Parser) ParseTypeAlias() (*TypeAlias, error) {
	return parseEntry(p.parseTypeAlias)
}

// ParseType parses a type. Trailing input is ignored.
func (p *Parser) ParseType() (*Type, error) {
	return parseEntry(p.parseType)
}

// ParseExpression parses an expression. Trailing input is ignored.
func (p *Parser) ParseExpression() (Expression, error) {
	return parseEntry(p.parseExpression)
}

// ParseStatement parses a statement with its labels and annotations.
// Trailing input is ignored.
func (p *Parser) ParseStatement() (*Statement, error) {
	return parseEntry(func() *Statement { return p.parseStatement(false) })
}

// ParseBlock parses a braced block of statements. Trailing input is ignored.
func (p *Parser) ParseBlock() (*Block, error) {
	return parseEntry(p.parseBlock)
}

// ParseAssignment parses an assignment statement. Trailing input is ignored.
func (p *Parser) ParseAssignment() (*Assignment, error) {
	return parseEntry(p.parseAssignment)
}

// ParseAnnotation parses a single or multi annotation. Trailing input is
// ignored.
func (p *Parser) ParseAnnotation() (Annotation, error) {
	return parseEntry(func() Annotation { return p.parseAnnotation(nil) })
}

func parseEntry[T any](fn func() T) (result T, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		serr, ok := r.(*SyntaxError)
		if !ok {
			panic(r)
		}
		var zero T
		result = zero
		err = serr
	}()
	return fn(), nil
}

// Modifier categories. Variance and reification modifiers only apply to type
// parameters and projections and are not part of the general set.
var (
	classModifiers       = makeSet("enum", "sealed", "annotation", "data", "inner", "value")
	memberModifiers      = makeSet("override", "lateinit")
	visibilityModifiers  = makeSet("public", "private", "internal", "protected")
	varianceModifiers    = makeSet("in", "out")
	functionModifiers    = makeSet("tailrec", "operator", "infix", "inline", "external", "suspend")
	propertyModifiers    = makeSet("const")
	inheritanceModifiers = makeSet("abstract", "final", "open")
	parameterModifiers   = makeSet("vararg", "noinline", "crossinline")
	reificationModifiers = makeSet("reified")
	platformModifiers    = makeSet("expect", "actual")

	typeParameterModifiers = union(reificationModifiers, varianceModifiers)
	typeModifiers          = makeSet("suspend")

	allModifiers = union(classModifiers, memberModifiers, visibilityModifiers,
		functionModifiers, propertyModifiers, inheritanceModifiers,
		parameterModifiers, platformModifiers)
)

func makeSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}

func union(sets ...map[string]bool) map[string]bool {
	merged := make(map[string]bool)
	for _, set := range sets {
		for word := range set {
			merged[word] = true
		}
	}
	return merged
}

// An acceptable describes one element of a token pattern: a string matches
// the token text, a TokenKind matches the token class, nl matches an
// optional run of newline tokens, anyToken matches any token, and
// literalConstant matches any literal constant class.
type nlMark struct{}

type anyMark struct{}

type literalMark struct{}

var (
	nl              nlMark
	anyToken        anyMark
	literalConstant literalMark
)

// seq groups acceptables into a single alternative for wouldAcceptEither.
func seq(acceptables ...any) []any { return acceptables }

func tokenMatches(tok Token, acceptable any) bool {
	switch a := acceptable.(type) {
	case string:
		return tok.Kind != TokenEOF && tok.Kind != TokenInvalid && tok.Text == a
	case TokenKind:
		return tok.Kind == a
	case anyMark:
		return tok.Kind != TokenEOF && tok.Kind != TokenInvalid
	case literalMark:
		return tok.Kind.IsLiteral()
	}
	return false
}

func describeAcceptable(acceptable any) string {
	switch a := acceptable.(type) {
	case string:
		return "'" + a + "'"
	case TokenKind:
		return a.String() + " token"
	case literalMark:
		return "a literal constant"
	}
	return "a token"
}

// matchAt matches the acceptables against the tokens at the cursor without
// advancing. It returns the first non-optional matched token, the total
// number of tokens matched, and the acceptable that failed, if any.
func (p *Parser) matchAt(acceptables []any) (found Token, offset int, failed any, ok bool) {
	haveFound := false
	for _, acceptable := range acceptables {
		tok := p.cur.peek(offset)
		if _, optional := acceptable.(nlMark); optional {
			if tok.Kind != TokenNewLine {
				continue
			}
			offset++
			for p.cur.peek(offset).Kind == TokenNewLine {
				offset++
			}
			continue
		}
		if !tokenMatches(tok, acceptable) {
			return found, offset, acceptable, false
		}
		offset++
		if !haveFound {
			found = tok
			haveFound = true
		}
	}
	return found, offset, nil, true
}

// accept consumes the acceptables or fails with a SyntaxError naming the
// first acceptable that did not match.
func (p *Parser) accept(acceptables ...any) Token {
	found, offset, failed, ok := p.matchAt(acceptables)
	if !ok {
		p.fail(describeAcceptable(failed))
	}
	p.advance(offset)
	return found
}

// tryAccept consumes the acceptables if they all match and reports whether
// it did.
func (p *Parser) tryAccept(acceptables ...any) bool {
	_, offset, _, ok := p.matchAt(acceptables)
	if ok {
		p.advance(offset)
	}
	return ok
}

// wouldAccept reports whether the acceptables match without consuming
// anything.
func (p *Parser) wouldAccept(acceptables ...any) bool {
	_, _, _, ok := p.matchAt(acceptables)
	return ok
}

// wouldAcceptEither reports whether any alternative matches. An alternative
// is a single acceptable or a seq of them.
func (p *Parser) wouldAcceptEither(alternatives ...any) bool {
	for _, alternative := range alternatives {
		if group, ok := alternative.([]any); ok {
			if p.wouldAccept(group...) {
				return true
			}
		} else if p.wouldAccept(alternative) {
			return true
		}
	}
	return false
}

func (p *Parser) advance(n int) {
	p.cur.index += n
	if p.cur.index > len(p.cur.tokens) {
		p.cur.index = len(p.cur.tokens)
	}
}

// fail aborts the parse. expected names what was required, e.g. "'class'"
// or "a declaration"; the found token and its position come from the cursor.
func (p *Parser) fail(expected string) {
	tok := p.cur.current()
	serr := &SyntaxError{
		Position: tok.Position,
		Expected: expected,
	}
	if tok.Kind != TokenEOF {
		serr.Found = tok.Text
	}
	panic(serr)
}

// failWith aborts the parse with a fixed message that is not an "expecting"
// mismatch, e.g. a destructuring declaration restriction.
func (p *Parser) failWith(message string) {
	panic(&SyntaxError{
		Position: p.cur.current().Position,
		Message:  message,
	})
}

// attempt runs fn, committing the cursor on success. On a *SyntaxError panic
// the cursor is restored and ok is false.
func attempt[T any](p *Parser, fn func() T) (result T, ok bool) {
	checkpoint := p.cur.save()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, syntax := r.(*SyntaxError); !syntax {
			panic(r)
		}
		p.cur.restore(checkpoint)
		var zero T
		result = zero
		ok = false
	}()
	return fn(), true
}

// tryParse returns the result of the first alternative that parses, leaving
// the cursor untouched when all of them fail.
func tryParse[T any](p *Parser, fns ...func() T) (T, bool) {
	for _, fn := range fns {
		if result, ok := attempt(p, fn); ok {
			return result, true
		}
	}
	var zero T
	return zero, false
}

// simulate runs fn and rewinds the cursor afterwards, succeed or fail. Used
// for lookahead that needs full parsing power.
func (p *Parser) simulate(fn func()) {
	checkpoint := p.cur.save()
	defer p.cur.restore(checkpoint)
	fn()
}

// consumeSemi consumes one statement terminator: a semicolon or a newline,
// then any further newlines. EOF also terminates.
func (p *Parser) consumeSemi(optional bool) {
	if p.tryAccept(TokenEOF) {
		return
	}
	if p.tryAccept(";") || p.tryAccept(TokenNewLine) {
		// consumed
	} else if !optional {
		p.fail("a semicolon ';' or a new line")
	}
	p.consumeNewLines()
}

// consumeSemis consumes any run of semicolons and newlines.
func (p *Parser) consumeSemis(optional bool) {
	if p.tryAccept(TokenEOF) {
		return
	}
	if p.tryAccept(";") || p.tryAccept(TokenNewLine) {
		// consumed
	} else if !optional {
		p.fail("a semicolon ';' or a new line")
	}
	for p.tryAccept(";") || p.tryAccept(TokenNewLine) {
	}
}

func (p *Parser) consumeNewLines() {
	for p.tryAccept(TokenNewLine) {
	}
}

type declKind int

const (
	declNone declKind = iota
	declClass
	declObject
	declFunction
	declProperty
	declTypeAlias
)

// declarationKind looks ahead past modifiers to classify the upcoming
// declaration. A "fun" that starts an anonymous function is not a
// declaration.
func (p *Parser) declarationKind() declKind {
	isAnonymousFun := func() bool {
		p.accept("fun")
		if p.wouldAccept(nl, "<") {
			return false
		}
		if _, ok := attempt(p, p.parseType); ok {
			return p.wouldAccept(nl, ".", nl, "(")
		}
		return !p.wouldAccept(TokenIdentifier)
	}

	kind := declNone
	p.simulate(func() {
		p.parseModifiers(nil)
		switch {
		case p.wouldAcceptEither("class", "interface", seq("fun", nl, "interface")):
			kind = declClass
		case p.wouldAccept("object", nl, TokenIdentifier):
			kind = declObject
		case p.wouldAccept("fun"):
			if !isAnonymousFun() {
				kind = declFunction
			}
		case p.wouldAcceptEither("val", "var"):
			kind = declProperty
		case p.wouldAccept("typealias"):
			kind = declTypeAlias
		}
	})
	return kind
}

func (p *Parser) isAcceptingDeclaration() bool {
	return p.declarationKind() != declNone
}

func (p *Parser) isAcceptingLoopStatement() bool {
	return p.wouldAcceptEither("for", "while", "do")
}

func (p *Parser) isAcceptingAnnotatedLambda() bool {
	accepting := false
	p.simulate(func() {
		p.parseAnnotations(nil)
		p.tryAccept(TokenIdentifier, TokenAt)
		accepting = p.wouldAccept(nl, "{")
	})
	return accepting
}

// parseAmbiguousReceiver disambiguates [receiverType '.'] simpleIdentifier,
// where the receiver parse greedily swallows a trailing name. When the
// parsed receiver ends in a plain name with nothing following, that name is
// split off and returned as the identifier.
func (p *Parser) parseAmbiguousReceiver() (*Identifier, *ReceiverType) {
	isNameConsumed := func(receiver *ReceiverType) bool {
		reference, ok := receiver.Subtype.(*TypeReference)
		if !ok || reference.UserType == nil || len(reference.UserType.Items) == 0 {
			return false
		}
		last := reference.UserType.Items[len(reference.UserType.Items)-1]
		return len(last.Generics.Items) == 0 && !p.wouldAccept(nl, ".")
	}

	receiver, ok := tryParse(p, p.parseReceiverType)
	if !ok || !isNameConsumed(receiver) {
		if !ok {
			return nil, nil
		}
		return nil, receiver
	}

	reference := receiver.Subtype.(*TypeReference)
	items := reference.UserType.Items
	last := items[len(items)-1]
	ident := &Identifier{node: at(last.Pos()), Value: last.String()}

	if len(items) == 1 {
		return ident, nil
	}
	trimmed := &UserType{node: at(reference.UserType.Pos()), Items: items[:len(items)-1]}
	return ident, &ReceiverType{
		node:      at(receiver.Pos()),
		Modifiers: receiver.Modifiers,
		Subtype:   &TypeReference{node: at(reference.Pos()), UserType: trimmed},
	}
}
