package parser

func (p *Parser) parseStatements() []*Statement {
	isStop := func() bool {
		return p.wouldAccept(nl, "}") || p.wouldAccept(TokenEOF)
	}

	var statements []*Statement
	for !isStop() {
		statements = append(statements, p.parseStatement(false))
		if isStop() {
			break
		}
		p.consumeSemis(true)
	}
	return statements
}

func (p *Parser) parseStatement(topLevel bool) *Statement {
	var labels []*Label
	var annotations []Annotation
	for {
		if p.wouldAccept(nl, TokenAt) {
			annotations = append(annotations, p.parseAnnotation(nil))
		} else if p.wouldAccept(TokenIdentifier, TokenAt) {
			labels = append(labels, p.parseLabel())
		} else {
			break
		}
	}

	var statement Node
	switch {
	case p.isAcceptingDeclaration():
		statement = p.parseDeclaration(topLevel)
	case p.isAcceptingLoopStatement():
		statement = p.parseLoopStatement()
	default:
		expression := p.parseExpression()
		statement = expression
		switch operator := p.cur.current().Text; operator {
		case "=", "+=", "-=", "*=", "/=", "%=":
			p.accept(TokenOperator, nl)
			value := p.parseExpression()
			statement = &Assignment{
				node:       at(expression.Pos()),
				Assignable: expression,
				Operator:   operator,
				Value:      value,
			}
		}
	}

	return &Statement{
		node:        at(statement.Pos()),
		Annotations: annotations,
		Labels:      labels,
		Statement:   statement,
	}
}

func (p *Parser) parseLabel() *Label {
	ident := p.parseSimpleIdentifier()
	p.accept(TokenAt, nl)
	return &Label{node: at(ident.Pos()), Name: ident.Value}
}

// parseControlStructureBody parses the body of an if, loop, or when entry:
// a block, a single statement, or a lambda literal when the braced body
// contains "->".
func (p *Parser) parseControlStructureBody() Node {
	isLambdaLiteral := func() bool {
		offset := 1
		token := p.cur.peek(0)
		for token.Text != "}" && token.Kind != TokenEOF {
			if token.Text == "->" {
				return true
			}
			offset++
			token = p.cur.peek(offset)
		}
		return false
	}

	if p.wouldAccept("{") {
		if isLambdaLiteral() {
			return p.parseLambdaLiteral()
		}
		return p.parseBlock()
	}
	return p.parseStatement(false)
}

func (p *Parser) parseBlock() *Block {
	token := p.accept("{", nl)
	p.consumeSemis(true)

	var statements []*Statement
	for !p.tryAccept(nl, "}") {
		p.consumeNewLines()
		statements = append(statements, p.parseStatement(false))
		p.consumeSemis(true)
	}

	return &Block{node: at(token.Position), Statements: statements}
}

func (p *Parser) parseLoopStatement() Node {
	if p.wouldAccept("for") {
		return p.parseForStatement()
	}
	if p.wouldAccept("while") {
		return p.parseWhileStatement()
	}
	if p.wouldAccept("do") {
		return p.parseDoWhileStatement()
	}
	p.fail("a loop statement")
	return nil
}

func (p *Parser) parseForStatement() *ForStatement {
	token := p.accept("for")
	p.accept(nl, "(")
	annotations := p.parseAnnotations(nil)

	var variable Node
	if p.wouldAccept("(") {
		variable = p.parseMultiVariableDeclaration()
	} else {
		variable = p.parseVariableDeclaration()
	}

	p.accept("in")
	container := p.parseExpression()
	p.accept(")", nl)

	var body Node
	if !p.wouldAccept(nl, ";") {
		body = p.parseControlStructureBody()
	}

	return &ForStatement{
		node:        at(token.Position),
		Annotations: annotations,
		Variable:    variable,
		Container:   container,
		Body:        body,
	}
}

func (p *Parser) parseWhileStatement() *WhileStatement {
	token := p.accept("while")

	p.accept(nl, "(")
	condition := p.parseExpression()
	p.accept(")", nl)

	var body Node
	if !p.tryAccept(";") {
		body = p.parseControlStructureBody()
	}

	return &WhileStatement{
		node:      at(token.Position),
		Condition: condition,
		Body:      body,
	}
}

func (p *Parser) parseDoWhileStatement() *DoWhileStatement {
	token := p.accept("do", nl)

	var body Node
	if p.wouldAccept("{") || !p.wouldAccept("while") {
		body = p.parseControlStructureBody()
	}

	p.accept(nl, "while", nl, "(")
	condition := p.parseExpression()
	p.accept(")")

	return &DoWhileStatement{
		node:      at(token.Position),
		Body:      body,
		Condition: condition,
	}
}

func (p *Parser) parseAssignment() *Assignment {
	directly, ok := attempt(p, func() Expression {
		assignable := p.parseDirectlyAssignableExpression()
		p.accept("=", nl)
		return assignable
	})
	if ok {
		value := p.parseExpression()
		return &Assignment{
			node:       at(directly.Pos()),
			Assignable: directly,
			Operator:   "=",
			Value:      value,
		}
	}

	assignable, ok := attempt(p, func() Expression {
		target := p.parseAssignableExpression()
		if !p.wouldAcceptEither("+=", "-=", "*=", "/=", "%=") {
			p.fail("an assignment operator")
		}
		return target
	})
	if ok {
		operator := p.accept(TokenOperator, nl).Text
		value := p.parseExpression()
		return &Assignment{
			node:       at(assignable.Pos()),
			Assignable: assignable,
			Operator:   operator,
			Value:      value,
		}
	}

	p.fail("an assignment")
	return nil
}

func (p *Parser) parseExpression() Expression {
	return p.parseDisjunction()
}

func (p *Parser) parseDisjunction() Expression {
	left := p.parseConjunction()
	for p.tryAccept(nl, "||", nl) {
		right := p.parseConjunction()
		left = &BinaryExpression{node: at(left.Pos()), Left: left, Operator: "||", Right: right}
	}
	return left
}

func (p *Parser) parseConjunction() Expression {
	left := p.parseEquality()
	for p.tryAccept(nl, "&&", nl) {
		right := p.parseEquality()
		left = &BinaryExpression{node: at(left.Pos()), Left: left, Operator: "&&", Right: right}
	}
	return left
}

func (p *Parser) parseEquality() Expression {
	left := p.parseComparison()
	for p.wouldAcceptEither("==", "!=", "===", "!==") {
		operator := p.accept(TokenOperator, nl).Text
		right := p.parseComparison()
		left = &BinaryExpression{node: at(left.Pos()), Left: left, Operator: operator, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() Expression {
	left := p.parseInfixOperation()
	for p.wouldAcceptEither("<", ">", "<=", ">=") {
		operator := p.accept(TokenOperator, nl).Text
		right := p.parseInfixOperation()
		left = &BinaryExpression{node: at(left.Pos()), Left: left, Operator: operator, Right: right}
	}
	return left
}

func (p *Parser) parseInfixOperation() Expression {
	left := p.parseElvisExpression()
	for p.wouldAcceptEither("in", "!in", "is", "!is") {
		operator := p.accept(TokenOperator, nl).Text
		if operator == "in" || operator == "!in" {
			right := p.parseElvisExpression()
			left = &BinaryExpression{node: at(left.Pos()), Left: left, Operator: operator, Right: right}
		} else {
			right := p.parseType()
			left = &TypeOperation{node: at(left.Pos()), Left: left, Operator: operator, Type: right}
		}
	}
	return left
}

func (p *Parser) parseElvisExpression() Expression {
	left := p.parseInfixFunctionCall()
	for p.tryAccept(nl, "?:", nl) {
		right := p.parseInfixFunctionCall()
		left = &BinaryExpression{node: at(left.Pos()), Left: left, Operator: "?:", Right: right}
	}
	return left
}

func (p *Parser) parseInfixFunctionCall() Expression {
	left := p.parseRangeExpression()
	for p.wouldAccept(TokenIdentifier) {
		operator := p.accept(TokenIdentifier, nl).Text
		right := p.parseRangeExpression()
		left = &BinaryExpression{node: at(left.Pos()), Left: left, Operator: operator, Right: right}
	}
	return left
}

func (p *Parser) parseRangeExpression() Expression {
	left := p.parseAdditiveExpression()
	for p.tryAccept("..", nl) {
		right := p.parseAdditiveExpression()
		left = &BinaryExpression{node: at(left.Pos()), Left: left, Operator: "..", Right: right}
	}
	return left
}

func (p *Parser) parseAdditiveExpression() Expression {
	left := p.parseMultiplicativeExpression()
	for p.wouldAcceptEither("+", "-") {
		operator := p.accept(TokenOperator, nl).Text
		right := p.parseMultiplicativeExpression()
		left = &BinaryExpression{node: at(left.Pos()), Left: left, Operator: operator, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicativeExpression() Expression {
	left := p.parseAsExpression()
	for p.wouldAcceptEither("*", "/", "%") {
		operator := p.accept(TokenOperator, nl).Text
		right := p.parseAsExpression()
		left = &BinaryExpression{node: at(left.Pos()), Left: left, Operator: operator, Right: right}
	}
	return left
}

func (p *Parser) parseAsExpression() Expression {
	left := p.parsePrefixUnaryExpression()
	for p.wouldAcceptEither(seq(nl, "as"), seq(nl, "as?")) {
		operator := p.accept(nl, TokenOperator, nl).Text
		right := p.parseType()
		left = &TypeOperation{node: at(left.Pos()), Left: left, Operator: operator, Type: right}
	}
	return left
}

func (p *Parser) parsePrefixUnaryExpression() Expression {
	prefixes := p.parseUnaryPrefixes()
	expression := p.parsePostfixUnaryExpression()
	if len(prefixes) == 0 {
		return expression
	}
	return &PrefixUnaryExpression{
		node:       at(expression.Pos()),
		Prefixes:   prefixes,
		Expression: expression,
	}
}

func (p *Parser) parseUnaryPrefixes() []UnaryPrefix {
	var prefixes []UnaryPrefix
	for p.wouldAcceptEither(seq(nl, TokenAt), seq(TokenIdentifier, TokenAt),
		"++", "--", "-", "+", "!") {
		prefixes = append(prefixes, p.parseUnaryPrefix())
	}
	return prefixes
}

func (p *Parser) parseUnaryPrefix() UnaryPrefix {
	if p.wouldAccept(nl, TokenAt) {
		return p.parseAnnotation(nil).(UnaryPrefix)
	}
	if p.wouldAccept(TokenIdentifier, TokenAt) {
		return p.parseLabel()
	}
	if p.wouldAcceptEither("++", "--", "-", "+", "!") {
		token := p.accept(anyToken, nl)
		return &UnaryOperator{node: at(token.Position), Symbol: token.Text}
	}
	p.fail("a unary prefix")
	return nil
}

func (p *Parser) parsePostfixUnaryExpression() Expression {
	expression := p.parsePrimaryExpression()

	var suffixes []PostfixSuffix
	for {
		suffix, ok := tryParse(p, p.parsePostfixUnarySuffix)
		if !ok {
			break
		}
		suffixes = append(suffixes, suffix)
	}

	if len(suffixes) == 0 {
		return expression
	}

	return &PostfixUnaryExpression{
		node:       at(expression.Pos()),
		Expression: expression,
		Suffixes:   suffixes,
	}
}

func (p *Parser) parsePostfixUnarySuffix() PostfixSuffix {
	if p.wouldAcceptEither("++", "--") {
		token := p.accept(anyToken)
		return &UnaryOperator{node: at(token.Position), Symbol: token.Text}
	}
	if token := p.cur.current(); p.tryAccept("!", "!") {
		return &UnaryOperator{node: at(token.Position), Symbol: "!!"}
	}
	if p.wouldAcceptEither(seq(nl, "."), seq(nl, "?", "."), "::") {
		return p.parseNavigationSuffix()
	}
	if p.wouldAccept("[") {
		return p.parseIndexingSuffix()
	}
	if suffix, ok := tryParse(p, p.parseCallSuffix); ok {
		return suffix
	}
	if p.wouldAccept("<") {
		return p.parseTypeArguments()
	}
	p.fail("a postfix unary suffix")
	return nil
}

func (p *Parser) parseDirectlyAssignableExpression() Expression {
	if parenthesized, ok := tryParse(p, p.parseParenthesizedDirectlyAssignableExpression); ok {
		return parenthesized
	}

	direct, ok := attempt(p, func() Expression {
		parsed, ok := tryParse(p, p.parsePostfixUnaryExpression)
		postfix, isPostfix := parsed.(*PostfixUnaryExpression)
		if !ok || !isPostfix {
			p.fail("a directly assignable expression")
		}
		switch postfix.Suffixes[len(postfix.Suffixes)-1].(type) {
		case *TypeArguments, *IndexingSuffix, *NavigationSuffix:
		default:
			p.fail("a directly assignable expression")
		}
		return &DirectlyAssignableExpression{node: at(postfix.Pos()), Expression: postfix}
	})
	if ok {
		return direct
	}

	ident := p.parseSimpleIdentifier()
	return &DirectlyAssignableExpression{node: at(ident.Pos()), Expression: ident}
}

func (p *Parser) parseParenthesizedDirectlyAssignableExpression() *ParenthesizedDirectlyAssignableExpression {
	token := p.accept("(", nl)
	expression := p.parseDirectlyAssignableExpression()
	p.accept(nl, ")")
	return &ParenthesizedDirectlyAssignableExpression{
		node:       at(token.Position),
		Expression: expression,
	}
}

func (p *Parser) parseAssignableExpression() Expression {
	if p.wouldAccept("(") {
		return p.parseParenthesizedAssignableExpression()
	}
	return p.parsePrefixUnaryExpression()
}

func (p *Parser) parseParenthesizedAssignableExpression() *ParenthesizedAssignableExpression {
	token := p.accept("(", nl)
	expression := p.parseAssignableExpression()
	p.accept(nl, ")")
	return &ParenthesizedAssignableExpression{
		node:       at(token.Position),
		Expression: expression,
	}
}

func (p *Parser) parseIndexingSuffix() *IndexingSuffix {
	token := p.accept("[", nl)

	expressions := []Expression{p.parseExpression()}
	for !p.wouldAccept(nl, "]") {
		p.accept(nl, ",", nl)
		if p.wouldAccept("]") {
			break
		}
		expressions = append(expressions, p.parseExpression())
	}
	p.accept(nl, "]")

	return &IndexingSuffix{node: at(token.Position), Items: expressions}
}

func (p *Parser) parseNavigationSuffix() *NavigationSuffix {
	var token Token
	var operator string
	if p.wouldAccept(nl, ".") {
		token = p.accept(nl, ".")
		operator = "."
	} else if p.wouldAccept(nl, "?", ".") {
		token = p.accept(nl, "?", ".")
		operator = "?."
	} else if p.wouldAccept("::") {
		token = p.accept("::")
		operator = "::"
	} else {
		p.fail("a member access operator (., ?., or ::)")
	}

	p.consumeNewLines()
	name := ""
	var target *ParenthesizedExpression
	if p.tryAccept("class") {
		name = "class"
	} else if p.wouldAccept(TokenIdentifier) {
		name = p.parseSimpleIdentifier().Value
	} else if p.wouldAccept("(") {
		target = p.parseParenthesizedExpression()
	} else {
		p.fail("a suffix ('class', identifier, or parenthesized expression)")
	}

	return &NavigationSuffix{
		node:     at(token.Position),
		Operator: operator,
		Name:     name,
		Target:   target,
	}
}

func (p *Parser) parseCallSuffix() *CallSuffix {
	var generics TypeArguments
	if p.wouldAccept("<") {
		generics = *p.parseTypeArguments()
	}

	var arguments *ValueArguments
	if p.wouldAccept("(") {
		arguments = p.parseValueArguments()
	}

	var lambda *AnnotatedLambda
	if p.isAcceptingAnnotatedLambda() {
		lambda = p.parseAnnotatedLambda()
	}

	var position Position
	switch {
	case len(generics.Items) > 0:
		position = generics.Pos()
	case arguments != nil:
		position = arguments.Pos()
	case lambda != nil:
		position = lambda.Pos()
	default:
		p.fail("a call suffix")
	}

	return &CallSuffix{
		node:      at(position),
		Generics:  generics,
		Arguments: arguments,
		Lambda:    lambda,
	}
}

func (p *Parser) parseAnnotatedLambda() *AnnotatedLambda {
	annotations := p.parseAnnotations(nil)

	var label *Label
	if p.wouldAccept(TokenIdentifier, TokenAt) {
		label = p.parseLabel()
	}

	p.consumeNewLines()
	literal := p.parseLambdaLiteral()

	return &AnnotatedLambda{
		node:        at(literal.Pos()),
		Annotations: annotations,
		Label:       label,
		Value:       literal,
	}
}

func (p *Parser) parseTypeArguments() *TypeArguments {
	token := p.accept("<", nl)

	projections := []TypeProjection{p.parseTypeProjection()}
	for !p.wouldAccept(nl, ">") {
		p.accept(nl, ",")
		if p.wouldAccept(nl, ">") {
			break
		}
		p.consumeNewLines()
		projections = append(projections, p.parseTypeProjection())
	}
	p.accept(nl, ">")

	return &TypeArguments{node: at(token.Position), Items: projections}
}

func (p *Parser) parseValueArguments() *ValueArguments {
	token := p.accept("(")

	var arguments []*ValueArgument
	for !p.wouldAccept(nl, ")") {
		p.consumeNewLines()
		arguments = append(arguments, p.parseValueArgument())
		if p.wouldAccept(nl, ")") {
			break
		}
		p.accept(nl, ",")
	}
	p.accept(nl, ")")

	return &ValueArguments{node: at(token.Position), Items: arguments}
}

func (p *Parser) parseValueArgument() *ValueArgument {
	var annotation Annotation
	if p.wouldAccept(nl, TokenAt) {
		annotation = p.parseAnnotation(nil)
	}

	p.consumeNewLines()

	name := ""
	if p.wouldAccept(TokenIdentifier, nl, "=") {
		name = p.parseSimpleIdentifier().Value
		p.accept(nl, "=", nl)
	}

	spread := p.tryAccept("*")

	p.consumeNewLines()
	value := p.parseExpression()

	return &ValueArgument{
		node:       at(value.Pos()),
		Annotation: annotation,
		Name:       name,
		Spread:     spread,
		Value:      value,
	}
}

func (p *Parser) parsePrimaryExpression() Expression {
	if reference, ok := tryParse(p, p.parseCallableReference); ok {
		return reference
	}

	token := p.cur.current()
	if token.Kind.IsLiteral() {
		return p.parseLiteralConstant()
	}
	if token.Kind.IsString() {
		return p.parseStringLiteral()
	}
	if token.Kind == TokenIdentifier {
		return p.parseSimpleIdentifier()
	}

	switch token.Text {
	case "if":
		return p.parseIfExpression()
	case "when":
		return p.parseWhenExpression()
	case "try":
		return p.parseTryExpression()
	case "return", "return@", "continue", "continue@", "break", "break@", "throw":
		return p.parseJumpExpression()
	case "(":
		return p.parseParenthesizedExpression()
	case "this", "this@":
		return p.parseThisExpression()
	case "super", "super@":
		return p.parseSuperExpression()
	case "{", "fun":
		return p.parseFunctionLiteral()
	case "object":
		return p.parseObjectLiteral()
	case "[":
		return p.parseCollectionLiteral()
	}
	p.fail("a primary expression")
	return nil
}

func (p *Parser) parseParenthesizedExpression() *ParenthesizedExpression {
	token := p.accept("(", nl)
	expression := p.parseExpression()
	p.accept(nl, ")")
	return &ParenthesizedExpression{node: at(token.Position), Expression: expression}
}

func (p *Parser) parseCollectionLiteral() *CollectionLiteral {
	token := p.accept("[")

	var expressions []Expression
	for !p.wouldAccept(nl, "]") {
		p.consumeNewLines()
		expressions = append(expressions, p.parseExpression())
		if p.wouldAccept(nl, "]") {
			break
		}
		p.accept(nl, ",")
	}
	p.accept(nl, "]")

	return &CollectionLiteral{node: at(token.Position), Items: expressions}
}

var literalKinds = map[TokenKind]LiteralKind{
	TokenInteger:   LiteralInteger,
	TokenHex:       LiteralHex,
	TokenBin:       LiteralBin,
	TokenUnsigned:  LiteralUnsigned,
	TokenLong:      LiteralLong,
	TokenFloat:     LiteralFloat,
	TokenDouble:    LiteralDouble,
	TokenBoolean:   LiteralBoolean,
	TokenNull:      LiteralNull,
	TokenCharacter: LiteralCharacter,
}

func (p *Parser) parseLiteralConstant() *LiteralConstant {
	token := p.accept(literalConstant)
	return &LiteralConstant{
		node:  at(token.Position),
		Kind:  literalKinds[token.Kind],
		Value: token.Text,
	}
}

func (p *Parser) parseStringLiteral() *StringLiteral {
	if p.wouldAccept(TokenLineString) {
		token := p.accept(TokenLineString)
		return &StringLiteral{node: at(token.Position), Value: token.Text}
	}
	if p.wouldAccept(TokenMultiLineString) {
		token := p.accept(TokenMultiLineString)
		return &StringLiteral{node: at(token.Position), Value: token.Text, MultiLine: true}
	}
	p.fail("a string literal")
	return nil
}

func (p *Parser) parseLambdaLiteral() *LambdaLiteral {
	token := p.accept("{", nl)

	parameters, ok := attempt(p, func() []*LambdaParameter {
		params := p.parseLambdaParameters()
		p.accept(nl, "->", nl)
		return params
	})
	if !ok {
		parameters = nil
	}

	statements := p.parseStatements()
	p.accept(nl, "}")

	return &LambdaLiteral{
		node:       at(token.Position),
		Parameters: parameters,
		Statements: statements,
	}
}

func (p *Parser) parseLambdaParameters() []*LambdaParameter {
	parameters := []*LambdaParameter{p.parseLambdaParameter()}
	for p.tryAccept(nl, ",") {
		if p.wouldAcceptEither(TokenEOF, seq(nl, "->")) {
			break
		}
		parameters = append(parameters, p.parseLambdaParameter())
	}
	return parameters
}

func (p *Parser) parseLambdaParameter() *LambdaParameter {
	var variable Node
	var paramType *Type
	if p.wouldAccept("(") {
		variable = p.parseMultiVariableDeclaration()
		if p.tryAccept(nl, ":", nl) {
			paramType = p.parseType()
		}
	} else {
		declaration := p.parseVariableDeclaration()
		variable = declaration
		paramType = declaration.Type
	}
	return &LambdaParameter{
		node:     at(variable.Pos()),
		Variable: variable,
		Type:     paramType,
	}
}

func (p *Parser) parseAnonymousFunction() *AnonymousFunction {
	token := p.accept("fun", nl)

	receiver, ok := attempt(p, func() *Type {
		parsed := p.parseType()
		p.accept(nl, ".", nl)
		return parsed
	})
	if !ok {
		receiver = nil
	}

	parameters := p.parseParametersWithOptionalType()

	var funType *Type
	if p.tryAccept(nl, ":", nl) {
		funType = p.parseType()
	}

	var constraints TypeConstraints
	if p.wouldAccept(nl, "where") {
		constraints = *p.parseTypeConstraints()
	}

	var body Node
	if p.wouldAcceptEither(seq(nl, "{"), seq(nl, "=")) {
		body = p.parseFunctionBody()
	}

	return &AnonymousFunction{
		node:        at(token.Position),
		Receiver:    receiver,
		Parameters:  *parameters,
		Type:        funType,
		Constraints: constraints,
		Body:        body,
	}
}

func (p *Parser) parseFunctionLiteral() Expression {
	if p.wouldAccept("{") {
		return p.parseLambdaLiteral()
	}
	if p.wouldAccept("fun") {
		return p.parseAnonymousFunction()
	}
	p.fail("a lambda literal or anonymous function")
	return nil
}

func (p *Parser) parseObjectLiteral() *ObjectLiteral {
	token := p.accept("object")

	var supertypes []*AnnotatedDelegationSpecifier
	if p.tryAccept(nl, ":", nl) {
		supertypes = p.parseDelegationSpecifiers()
	}

	var body *ClassBody
	if p.wouldAccept(nl, "{") {
		p.consumeNewLines()
		body = p.parseClassBody()
	}

	return &ObjectLiteral{
		node:       at(token.Position),
		Supertypes: supertypes,
		Body:       body,
	}
}

func (p *Parser) parseThisExpression() *ThisExpression {
	if p.wouldAccept("this@") {
		token := p.accept("this@")
		label := p.parseSimpleIdentifier().Value
		return &ThisExpression{node: at(token.Position), Label: label}
	}
	token := p.accept("this")
	return &ThisExpression{node: at(token.Position)}
}

func (p *Parser) parseSuperExpression() *SuperExpression {
	if p.wouldAccept("super@") {
		token := p.accept("super@")
		label := p.parseSimpleIdentifier().Value
		return &SuperExpression{node: at(token.Position), Label: label}
	}

	token := p.accept("super")

	var supertype *Type
	if p.tryAccept("<", nl) {
		supertype = p.parseType()
		p.accept(nl, ">")
	}

	label := ""
	if p.tryAccept(TokenAt) {
		label = p.parseSimpleIdentifier().Value
	}

	return &SuperExpression{
		node:      at(token.Position),
		Supertype: supertype,
		Label:     label,
	}
}

func (p *Parser) parseIfExpression() *IfExpression {
	token := p.accept("if", nl, "(", nl)
	condition := p.parseExpression()
	p.accept(nl, ")", nl)

	var ifBody, elseBody Node
	if p.wouldAccept(nl, "else") {
		// empty then-branch, e.g. "if (x) else y()"
	} else if !p.wouldAccept(";") {
		ifBody = p.parseControlStructureBody()
	}

	if p.tryAccept(";") || p.wouldAccept(nl, "else") {
		// an "else ->" belongs to the enclosing when entry, e.g.
		// "when { x -> if (c) { } else -> y }"
		if p.wouldAccept(nl, "else", nl, "->") {
			// leave it
		} else if p.tryAccept(nl, "else", nl) {
			if !p.tryAccept(";") {
				elseBody = p.parseControlStructureBody()
			}
		}
	}

	return &IfExpression{
		node:      at(token.Position),
		Condition: condition,
		Then:      ifBody,
		Else:      elseBody,
	}
}

func (p *Parser) parseWhenExpression() *WhenExpression {
	token := p.accept("when", nl)

	var subject *WhenSubject
	if p.wouldAccept("(") {
		subject = p.parseWhenSubject()
	}

	p.accept(nl, "{", nl)

	var entries []WhenEntry
	for !p.wouldAccept(nl, "}") {
		p.consumeNewLines()
		entries = append(entries, p.parseWhenEntry())
	}

	p.accept(nl, "}")

	return &WhenExpression{
		node:    at(token.Position),
		Subject: subject,
		Entries: entries,
	}
}

func (p *Parser) parseWhenSubject() *WhenSubject {
	token := p.accept("(")

	acceptingVal := false
	p.simulate(func() {
		p.parseAnnotations(nil)
		acceptingVal = p.wouldAccept(nl, "val")
	})

	var annotations []Annotation
	var declaration *VariableDeclaration
	if acceptingVal {
		annotations = p.parseAnnotations(nil)
		p.accept(nl, "val", nl)
		declaration = p.parseVariableDeclaration()
		p.accept(nl, "=", nl)
	}

	value := p.parseExpression()
	p.accept(")")

	return &WhenSubject{
		node:        at(token.Position),
		Annotations: annotations,
		Declaration: declaration,
		Value:       value,
	}
}

func (p *Parser) parseWhenEntry() WhenEntry {
	if p.wouldAccept("else") {
		token := p.accept("else")
		p.accept(nl, "->", nl)
		body := p.parseControlStructureBody()
		if p.wouldAccept(nl, ";") {
			p.consumeSemi(true)
		}
		return &WhenElseEntry{node: at(token.Position), Body: body}
	}

	conditions := []Node{p.parseWhenCondition()}
	for p.tryAccept(nl, ",", nl) {
		if p.wouldAccept("->") {
			break
		}
		conditions = append(conditions, p.parseWhenCondition())
	}

	p.accept(nl, "->", nl)
	body := p.parseControlStructureBody()
	if p.wouldAccept(nl, ";") {
		p.consumeSemi(true)
	}

	return &WhenConditionEntry{
		node:       at(conditions[0].Pos()),
		Conditions: conditions,
		Body:       body,
	}
}

func (p *Parser) parseWhenCondition() Node {
	if p.wouldAcceptEither("in", "!in") {
		return p.parseRangeTest()
	}
	if p.wouldAcceptEither("is", "!is") {
		return p.parseTypeTest()
	}
	return p.parseExpression()
}

func (p *Parser) parseRangeTest() *RangeTest {
	if !p.wouldAcceptEither("in", "!in") {
		p.fail("'in' or '!in'")
	}

	token := p.accept(anyToken, nl)
	operand := p.parseExpression()
	return &RangeTest{
		node:     at(token.Position),
		Operator: token.Text,
		Operand:  operand,
	}
}

func (p *Parser) parseTypeTest() *TypeTest {
	if !p.wouldAcceptEither("is", "!is") {
		p.fail("'is' or '!is'")
	}

	token := p.accept(anyToken, nl)
	operand := p.parseType()
	return &TypeTest{
		node:     at(token.Position),
		Operator: token.Text,
		Operand:  operand,
	}
}

func (p *Parser) parseTryExpression() *TryExpression {
	token := p.accept("try", nl)
	tryBlock := p.parseBlock()

	var catchBlocks []*CatchBlock
	for p.wouldAccept(nl, "catch") {
		p.consumeNewLines()
		catchBlocks = append(catchBlocks, p.parseCatchBlock())
	}

	var finallyBlock *FinallyBlock
	if p.wouldAccept(nl, "finally") {
		p.consumeNewLines()
		finallyBlock = p.parseFinallyBlock()
	}

	if len(catchBlocks) == 0 && finallyBlock == nil {
		p.fail("a catch/finally block")
	}

	return &TryExpression{
		node:         at(token.Position),
		TryBlock:     tryBlock,
		CatchBlocks:  catchBlocks,
		FinallyBlock: finallyBlock,
	}
}

func (p *Parser) parseCatchBlock() *CatchBlock {
	token := p.accept("catch")
	p.accept(nl, "(")
	annotations := p.parseAnnotations(nil)
	name := p.parseSimpleIdentifier().Value
	p.accept(":")
	catchType := p.parseType()
	p.tryAccept(nl, ",")
	p.accept(")", nl)
	block := p.parseBlock()
	return &CatchBlock{
		node:        at(token.Position),
		Annotations: annotations,
		Name:        name,
		Type:        catchType,
		Block:       block,
	}
}

func (p *Parser) parseFinallyBlock() *FinallyBlock {
	token := p.accept("finally", nl)
	block := p.parseBlock()
	return &FinallyBlock{node: at(token.Position), Block: block}
}

func (p *Parser) parseJumpExpression() Expression {
	if p.wouldAccept("throw") {
		return p.parseThrowExpression()
	}
	if p.wouldAcceptEither("return", "return@") {
		return p.parseReturnExpression()
	}
	if p.wouldAcceptEither("continue", "continue@") {
		return p.parseContinueExpression()
	}
	if p.wouldAcceptEither("break", "break@") {
		return p.parseBreakExpression()
	}
	p.fail("a jump expression")
	return nil
}

func (p *Parser) parseThrowExpression() *ThrowExpression {
	token := p.accept("throw", nl)
	expression := p.parseExpression()
	return &ThrowExpression{node: at(token.Position), Expression: expression}
}

func (p *Parser) parseReturnExpression() *ReturnExpression {
	var token Token
	label := ""
	if p.wouldAccept("return@") {
		token = p.accept("return@")
		label = p.accept(TokenIdentifier).Text
	} else {
		token = p.accept("return")
	}

	expression, _ := tryParse(p, p.parseExpression)

	return &ReturnExpression{
		node:       at(token.Position),
		Label:      label,
		Expression: expression,
	}
}

func (p *Parser) parseContinueExpression() *ContinueExpression {
	if p.wouldAccept("continue@") {
		token := p.accept("continue@")
		label := p.accept(TokenIdentifier).Text
		return &ContinueExpression{node: at(token.Position), Label: label}
	}
	token := p.accept("continue")
	return &ContinueExpression{node: at(token.Position)}
}

func (p *Parser) parseBreakExpression() *BreakExpression {
	if p.wouldAccept("break@") {
		token := p.accept("break@")
		label := p.accept(TokenIdentifier).Text
		return &BreakExpression{node: at(token.Position), Label: label}
	}
	token := p.accept("break")
	return &BreakExpression{node: at(token.Position)}
}

func (p *Parser) parseCallableReference() *CallableReference {
	var receiver *ReceiverType
	if !p.wouldAccept("::") {
		receiver = p.parseReceiverType()
	}

	token := p.accept("::", nl)

	var member string
	if p.tryAccept("class") {
		member = "class"
	} else {
		member = p.parseSimpleIdentifier().Value
	}

	return &CallableReference{
		node:     at(token.Position),
		Receiver: receiver,
		Member:   member,
	}
}
