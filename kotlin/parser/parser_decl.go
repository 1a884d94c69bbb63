package parser

import "fmt"

func (p *Parser) parseKotlinFile() *KotlinFile {
	var shebang *ShebangLine
	if p.wouldAccept(TokenShebang) {
		shebang = p.parseShebangLine()
	}

	p.consumeNewLines()
	annotations := p.parseAnnotations([]string{"file"})

	var pkg *PackageHeader
	if p.wouldAccept("package") {
		pkg = p.parsePackageHeader()
	}

	imports := p.parseImportList()

	var declarations []Declaration
	for !p.tryAccept(TokenEOF) {
		declarations = append(declarations, p.parseDeclaration(true))
		p.consumeSemis(true)
	}

	return &KotlinFile{
		node:         at(Position{Line: 1, Column: 1}),
		Shebang:      shebang,
		Annotations:  annotations,
		Package:      pkg,
		Imports:      imports,
		Declarations: declarations,
	}
}

func (p *Parser) parseScript() *Script {
	var shebang *ShebangLine
	if p.wouldAccept(TokenShebang) {
		shebang = p.parseShebangLine()
	}

	p.consumeNewLines()
	annotations := p.parseAnnotations([]string{"file"})

	var pkg *PackageHeader
	if p.wouldAccept("package") {
		pkg = p.parsePackageHeader()
	}

	imports := p.parseImportList()

	var statements []*Statement
	for !p.tryAccept(TokenEOF) {
		statements = append(statements, p.parseStatement(true))
		p.consumeSemi(true)
	}

	return &Script{
		node:        at(Position{Line: 1, Column: 1}),
		Shebang:     shebang,
		Annotations: annotations,
		Package:     pkg,
		Imports:     imports,
		Statements:  statements,
	}
}

func (p *Parser) parseShebangLine() *ShebangLine {
	token := p.accept(TokenShebang, TokenNewLine, nl)
	return &ShebangLine{node: at(token.Position), Value: token.Text}
}

func (p *Parser) parsePackageHeader() *PackageHeader {
	token := p.accept("package")
	ident := p.parseIdentifier()
	p.consumeSemi(true)
	return &PackageHeader{node: at(token.Position), Name: ident.Value}
}

func (p *Parser) parseImportList() []*ImportHeader {
	var imports []*ImportHeader
	for p.wouldAccept("import") {
		imports = append(imports, p.parseImportHeader())
	}
	return imports
}

func (p *Parser) parseImportHeader() *ImportHeader {
	token := p.accept("import")
	ident := p.parseIdentifier()

	wildcard := false
	alias := ""
	if p.tryAccept(".", "*") {
		wildcard = true
	} else if p.tryAccept("as") {
		alias = p.parseSimpleIdentifier().Value
	}

	p.consumeSemi(true)

	return &ImportHeader{
		node:     at(token.Position),
		Name:     ident.Value,
		Wildcard: wildcard,
		Alias:    alias,
	}
}

func (p *Parser) parseDeclaration(topLevel bool) Declaration {
	switch p.declarationKind() {
	case declClass:
		return p.parseClassDeclaration()
	case declObject:
		return p.parseObjectDeclaration()
	case declFunction:
		return p.parseFunctionDeclaration()
	case declProperty:
		return p.parsePropertyDeclaration(topLevel)
	case declTypeAlias:
		return p.parseTypeAlias()
	}
	p.fail("a declaration")
	return nil
}

func (p *Parser) parseTypeAlias() *TypeAlias {
	modifiers := p.parseModifiers(nil)
	token := p.accept("typealias", nl)
	name := p.parseSimpleIdentifier().Value

	var generics TypeParameters
	if p.wouldAccept(nl, "<") {
		p.consumeNewLines()
		generics = *p.parseTypeParameters()
	}

	p.accept(nl, "=", nl)
	aliased := p.parseType()

	return &TypeAlias{
		node:      at(token.Position),
		Modifiers: modifiers,
		Name:      name,
		Generics:  generics,
		Type:      aliased,
	}
}

func (p *Parser) parseClassDeclaration() *ClassDeclaration {
	modifiers := p.parseModifiers(nil)

	var token Token
	kind := KindClass
	switch {
	case p.wouldAccept("class"):
		token = p.accept("class")
	case p.wouldAccept("interface"):
		token = p.accept("interface")
		kind = KindInterface
	case p.wouldAccept("fun", nl, "interface"):
		token = p.accept("fun")
		p.accept(nl, "interface")
		kind = KindFunInterface
	default:
		p.fail("'class', 'interface', or 'fun interface'")
	}

	p.consumeNewLines()
	name := p.parseSimpleIdentifier().Value

	var generics TypeParameters
	if p.wouldAccept(nl, "<") {
		p.consumeNewLines()
		generics = *p.parseTypeParameters()
	}

	p.consumeNewLines()
	constructor, _ := tryParse(p, p.parsePrimaryConstructor)

	var supertypes []*AnnotatedDelegationSpecifier
	if p.tryAccept(nl, ":", nl) {
		supertypes = p.parseDelegationSpecifiers()
	}

	var constraints TypeConstraints
	if p.wouldAccept(nl, "where") {
		p.consumeNewLines()
		constraints = *p.parseTypeConstraints()
	}

	var body *ClassBody
	var enumBody *EnumClassBody
	if p.wouldAccept(nl, "{") {
		p.consumeNewLines()
		if hasModifier(modifiers, "enum") {
			kind = KindEnum
			enumBody = p.parseEnumClassBody()
		} else {
			body = p.parseClassBody()
		}
	}

	return &ClassDeclaration{
		node:        at(token.Position),
		Kind:        kind,
		Modifiers:   modifiers,
		Name:        name,
		Generics:    generics,
		Constructor: constructor,
		Supertypes:  supertypes,
		Constraints: constraints,
		Body:        body,
		EnumBody:    enumBody,
	}
}

func hasModifier(mods []Modifier, name string) bool {
	for _, mod := range mods {
		if keyword, ok := mod.(*KeywordModifier); ok && keyword.Name == name {
			return true
		}
	}
	return false
}

func (p *Parser) parsePrimaryConstructor() *PrimaryConstructor {
	var modifiers []Modifier
	var token Token
	haveConstructor := false

	// Modifiers consumed before a missing 'constructor' keyword stay
	// consumed; the enclosing tryParse rewinds if the parameters fail too.
	func() {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if _, syntax := r.(*SyntaxError); !syntax {
				panic(r)
			}
			modifiers = nil
			haveConstructor = false
		}()
		modifiers = p.parseModifiers(nil)
		token = p.accept("constructor")
		haveConstructor = true
		p.consumeNewLines()
	}()

	parameters := p.parseClassParameters()
	position := parameters.Pos()
	if haveConstructor {
		position = token.Position
	}

	return &PrimaryConstructor{
		node:       at(position),
		Modifiers:  modifiers,
		Parameters: *parameters,
	}
}

func (p *Parser) parseClassBody() *ClassBody {
	token := p.accept("{", nl)
	p.consumeSemis(true)

	var members []ClassMember
	for !p.wouldAccept(nl, "}") {
		members = append(members, p.parseClassMemberDeclaration())
		p.consumeSemis(true)
	}
	p.accept(nl, "}")

	return &ClassBody{node: at(token.Position), Members: members}
}

func (p *Parser) parseClassParameters() *ClassParameters {
	token := p.accept("(")

	var parameters []*ClassParameter
	for !p.wouldAccept(nl, ")") {
		p.consumeNewLines()
		parameters = append(parameters, p.parseClassParameter())
		if p.wouldAccept(nl, ")") {
			break
		}
		p.accept(nl, ",")
	}
	p.accept(nl, ")")

	return &ClassParameters{node: at(token.Position), Items: parameters}
}

func (p *Parser) parseClassParameter() *ClassParameter {
	modifiers := p.parseModifiers(nil)

	mutability := ""
	if p.tryAccept("val") {
		mutability = "val"
	} else if p.tryAccept("var") {
		mutability = "var"
	}

	p.consumeNewLines()
	ident := p.parseSimpleIdentifier()
	p.accept(":", nl)
	paramType := p.parseType()

	var defaultValue Expression
	if p.wouldAccept(nl, "=") {
		p.accept(nl, "=", nl)
		defaultValue = p.parseExpression()
	}

	return &ClassParameter{
		node:       at(ident.Pos()),
		Modifiers:  modifiers,
		Mutability: mutability,
		Name:       ident.Value,
		Type:       paramType,
		Default:    defaultValue,
	}
}

func (p *Parser) parseDelegationSpecifiers() []*AnnotatedDelegationSpecifier {
	specifiers := []*AnnotatedDelegationSpecifier{p.parseAnnotatedDelegationSpecifier()}
	for p.wouldAccept(nl, ",") {
		p.accept(nl, ",", nl)
		specifiers = append(specifiers, p.parseAnnotatedDelegationSpecifier())
	}
	return specifiers
}

func (p *Parser) parseDelegationSpecifier() DelegationSpecifier {
	specifier, ok := tryParse(p,
		func() DelegationSpecifier { return p.parseExplicitDelegation() },
		func() DelegationSpecifier { return p.parseFunctionType() },
		func() DelegationSpecifier { return p.parseConstructorInvocation() },
		func() DelegationSpecifier { return p.parseUserType() },
	)
	if !ok {
		p.fail("a delegation specifier")
	}
	return specifier
}

func (p *Parser) parseConstructorInvocation() *ConstructorInvocation {
	invoker := p.parseUserType()
	p.consumeNewLines()
	arguments := p.parseValueArguments()
	return &ConstructorInvocation{
		node:      at(invoker.Pos()),
		Invoker:   invoker,
		Arguments: *arguments,
	}
}

func (p *Parser) parseAnnotatedDelegationSpecifier() *AnnotatedDelegationSpecifier {
	annotations := p.parseAnnotations(nil)
	delegate := p.parseDelegationSpecifier()
	return &AnnotatedDelegationSpecifier{
		node:        at(delegate.Pos()),
		Annotations: annotations,
		Delegate:    delegate,
	}
}

func (p *Parser) parseExplicitDelegation() *ExplicitDelegation {
	iface, ok := tryParse(p,
		func() Node { return p.parseFunctionType() },
		func() Node { return p.parseUserType() },
	)
	if !ok {
		p.fail("a user type or function type")
	}

	p.accept(nl, "by", nl)
	delegate := p.parseExpression()

	return &ExplicitDelegation{
		node:      at(iface.Pos()),
		Interface: iface,
		Delegate:  delegate,
	}
}

func (p *Parser) parseTypeParameters() *TypeParameters {
	token := p.accept("<", nl)

	parameters := []*TypeParameter{p.parseTypeParameter()}
	for !p.wouldAccept(nl, ">") {
		p.accept(nl, ",", nl)
		if p.wouldAccept(nl, ">") {
			break
		}
		parameters = append(parameters, p.parseTypeParameter())
	}
	p.accept(nl, ">")

	return &TypeParameters{node: at(token.Position), Items: parameters}
}

func (p *Parser) parseTypeParameter() *TypeParameter {
	modifiers := p.parseModifiers(typeParameterModifiers)

	p.consumeNewLines()
	ident := p.parseSimpleIdentifier()

	var paramType *Type
	if p.tryAccept(nl, ":", nl) {
		paramType = p.parseType()
	}

	return &TypeParameter{
		node:      at(ident.Pos()),
		Modifiers: modifiers,
		Name:      ident.Value,
		Type:      paramType,
	}
}

func (p *Parser) parseTypeConstraints() *TypeConstraints {
	token := p.accept("where", nl)

	constraints := []*TypeConstraint{p.parseTypeConstraint()}
	for p.tryAccept(nl, ",", nl) {
		constraints = append(constraints, p.parseTypeConstraint())
	}

	return &TypeConstraints{node: at(token.Position), Items: constraints}
}

func (p *Parser) parseTypeConstraint() *TypeConstraint {
	annotations := p.parseAnnotations(nil)
	ident := p.parseSimpleIdentifier()
	p.accept(nl, ":", nl)
	constraintType := p.parseType()
	return &TypeConstraint{
		node:        at(ident.Pos()),
		Annotations: annotations,
		Name:        ident.Value,
		Type:        constraintType,
	}
}

func (p *Parser) parseClassMemberDeclaration() ClassMember {
	if p.wouldAccept("init") {
		return p.parseAnonymousInitializer()
	}

	const (
		memberNone = iota
		memberCompanion
		memberConstructor
		memberDeclaration
	)
	member := memberNone
	p.simulate(func() {
		p.parseModifiers(nil)
		switch p.cur.current().Text {
		case "companion":
			member = memberCompanion
		case "constructor":
			member = memberConstructor
		case "class", "interface", "fun", "object", "val", "var", "typealias":
			member = memberDeclaration
		}
	})

	switch member {
	case memberCompanion:
		return p.parseCompanionObject()
	case memberConstructor:
		return p.parseSecondaryConstructor()
	case memberDeclaration:
		return p.parseDeclaration(true)
	}
	p.fail("a class member declaration")
	return nil
}

func (p *Parser) parseAnonymousInitializer() *AnonymousInitializer {
	token := p.accept("init", nl)
	block := p.parseBlock()
	return &AnonymousInitializer{node: at(token.Position), Body: block}
}

func (p *Parser) parseCompanionObject() *CompanionObject {
	modifiers := p.parseModifiers(nil)
	token := p.accept("companion")
	p.accept(nl, "object")

	name := ""
	if p.wouldAccept(nl, TokenIdentifier) {
		name = p.parseSimpleIdentifier().Value
	}

	var interfaces []*AnnotatedDelegationSpecifier
	if p.tryAccept(nl, ":", nl) {
		interfaces = p.parseDelegationSpecifiers()
	}

	var body *ClassBody
	if p.wouldAccept(nl, "{") {
		p.consumeNewLines()
		body = p.parseClassBody()
	}

	return &CompanionObject{
		node:       at(token.Position),
		Modifiers:  modifiers,
		Name:       name,
		Interfaces: interfaces,
		Body:       body,
	}
}

func (p *Parser) parseFunctionValueParameters() *FunctionValueParameters {
	token := p.accept("(")

	var parameters []*FunctionValueParameter
	for !p.wouldAccept(nl, ")") {
		p.consumeNewLines()
		parameters = append(parameters, p.parseFunctionValueParameter())
		if !p.tryAccept(nl, ",") {
			break
		}
	}
	p.accept(nl, ")")

	return &FunctionValueParameters{node: at(token.Position), Items: parameters}
}

func (p *Parser) parseFunctionValueParameter() *FunctionValueParameter {
	modifiers := p.parseModifiers(parameterModifiers)
	parameter := p.parseParameter()

	var defaultValue Expression
	if p.tryAccept(nl, "=", nl) {
		defaultValue = p.parseExpression()
	}

	return &FunctionValueParameter{
		node:      at(parameter.Pos()),
		Modifiers: modifiers,
		Parameter: parameter,
		Default:   defaultValue,
	}
}

func (p *Parser) parseFunctionDeclaration() *FunctionDeclaration {
	modifiers := p.parseModifiers(nil)
	token := p.accept("fun")

	var generics TypeParameters
	if p.wouldAccept(nl, "<") {
		p.consumeNewLines()
		generics = *p.parseTypeParameters()
	}

	p.consumeNewLines()
	consumed, receiver := p.parseAmbiguousReceiver()

	var name string
	if consumed != nil {
		name = consumed.Value
	} else {
		p.consumeNewLines()
		if receiver != nil {
			p.accept(".")
		}
		name = p.parseSimpleIdentifier().Value
	}

	p.consumeNewLines()
	parameters := p.parseFunctionValueParameters()

	var funType *Type
	if p.tryAccept(nl, ":", nl) {
		funType = p.parseType()
	}

	var constraints TypeConstraints
	if p.wouldAccept(nl, "where") {
		p.consumeNewLines()
		constraints = *p.parseTypeConstraints()
	}

	var body Node
	if p.wouldAcceptEither(seq(nl, "{"), seq(nl, "=")) {
		p.consumeNewLines()
		body = p.parseFunctionBody()
	}

	return &FunctionDeclaration{
		node:        at(token.Position),
		Modifiers:   modifiers,
		Generics:    generics,
		Receiver:    receiver,
		Name:        name,
		Parameters:  *parameters,
		Type:        funType,
		Constraints: constraints,
		Body:        body,
	}
}

func (p *Parser) parseFunctionBody() Node {
	if p.wouldAccept("{") {
		return p.parseBlock()
	}
	if p.tryAccept("=", nl) {
		return p.parseExpression()
	}
	p.fail("'{' or '='")
	return nil
}

func (p *Parser) parseVariableDeclaration() *VariableDeclaration {
	annotations := p.parseAnnotations(nil)
	p.consumeNewLines()
	ident := p.parseSimpleIdentifier()

	var varType *Type
	if p.tryAccept(nl, ":", nl) {
		varType = p.parseType()
	}

	return &VariableDeclaration{
		node:        at(ident.Pos()),
		Annotations: annotations,
		Name:        ident.Value,
		Type:        varType,
	}
}

func (p *Parser) parseMultiVariableDeclaration() *MultiVariableDeclaration {
	token := p.accept("(", nl)

	declarations := []*VariableDeclaration{p.parseVariableDeclaration()}
	for !p.wouldAccept(nl, ")") {
		p.accept(nl, ",", nl)
		if p.wouldAccept(nl, ")") {
			break
		}
		declarations = append(declarations, p.parseVariableDeclaration())
	}
	p.accept(nl, ")")

	return &MultiVariableDeclaration{node: at(token.Position), Items: declarations}
}

func (p *Parser) parsePropertyDeclaration(topLevel bool) *PropertyDeclaration {
	modifiers := p.parseModifiers(nil)
	if !p.wouldAcceptEither("val", "var") {
		p.fail("'val' or 'var'")
	}
	token := p.accept(anyToken)

	var generics TypeParameters
	if p.wouldAccept(nl, "<") {
		generics = *p.parseTypeParameters()
	}

	p.consumeNewLines()
	consumed, receiver := p.parseAmbiguousReceiver()

	p.consumeNewLines()
	var declaration Node
	switch {
	case consumed != nil:
		var varType *Type
		if p.tryAccept(":", nl) {
			varType = p.parseType()
		}
		declaration = &VariableDeclaration{
			node: at(consumed.Pos()),
			Name: consumed.Value,
			Type: varType,
		}
	case p.wouldAccept("("):
		declaration = p.parseMultiVariableDeclaration()
		if p.wouldAccept(nl, ":") {
			p.failWith("type annotations are not allowed on a destructuring declaration")
		}
	default:
		if receiver == nil {
			p.fail("a property name")
		}
		if p.tryAccept(".") {
			if p.wouldAccept("(") {
				p.failWith("receiver type is not allowed on a destructuring declaration")
			}
			declaration = p.parseVariableDeclaration()
		} else {
			// A single-element destructuring like "val (x) = pair" parses
			// as a parenthesized receiver type; rebuild the declaration.
			parenthesized, ok := receiver.Subtype.(*ParenthesizedType)
			if !ok {
				p.fail("a property name")
			}
			if p.wouldAccept(":") {
				p.failWith("type annotations are not allowed on a destructuring declaration")
			}
			inner := &VariableDeclaration{
				node: at(parenthesized.Type.Pos()),
				Name: parenthesized.Type.String(),
			}
			declaration = &MultiVariableDeclaration{
				node:  at(receiver.Pos()),
				Items: []*VariableDeclaration{inner},
			}
			receiver = nil
		}
	}

	var constraints TypeConstraints
	if p.wouldAccept(nl, "where") {
		p.consumeNewLines()
		constraints = *p.parseTypeConstraints()
	}

	var value Expression
	var delegate *PropertyDelegate
	if p.tryAccept(nl, "=", nl) {
		p.consumeNewLines()
		value = p.parseExpression()
	} else if p.wouldAccept(nl, "by") {
		p.consumeNewLines()
		delegate = p.parsePropertyDelegate()
	}

	p.tryAccept(nl, ";")

	accepting := func() (acceptingGet, acceptingSet bool) {
		p.simulate(func() {
			p.consumeNewLines()
			p.parseModifiers(nil)
			text := p.cur.current().Text
			acceptingGet = text == "get"
			acceptingSet = text == "set"
		})
		return acceptingGet, acceptingSet
	}

	var getter *Getter
	var setter *Setter
	if topLevel {
		for i := 0; i < 2; i++ {
			acceptingGet, acceptingSet := accepting()
			if acceptingGet {
				if getter != nil {
					p.failWith(fmt.Sprintf("duplicate getter at %s", p.cur.current().Position))
				}
				p.consumeNewLines()
				getter = p.parseGetter()
				p.consumeSemi(true)
			} else if acceptingSet {
				if setter != nil {
					p.failWith(fmt.Sprintf("duplicate setter at %s", p.cur.current().Position))
				}
				p.consumeNewLines()
				setter = p.parseSetter()
				p.consumeSemi(true)
			} else {
				break
			}
		}
	}

	return &PropertyDeclaration{
		node:        at(token.Position),
		Modifiers:   modifiers,
		Mutability:  token.Text,
		Generics:    generics,
		Receiver:    receiver,
		Declaration: declaration,
		Constraints: constraints,
		Value:       value,
		Delegate:    delegate,
		Getter:      getter,
		Setter:      setter,
	}
}

func (p *Parser) parsePropertyDelegate() *PropertyDelegate {
	token := p.accept("by", nl)
	value := p.parseExpression()
	return &PropertyDelegate{node: at(token.Position), Value: value}
}

func (p *Parser) parseGetter() *Getter {
	modifiers := p.parseModifiers(nil)
	token := p.accept("get")

	var getType *Type
	var body Node
	if p.tryAccept(nl, "(", nl) {
		p.accept(")")
		if p.tryAccept(nl, ":", nl) {
			getType = p.parseType()
		}
		p.consumeNewLines()
		body = p.parseFunctionBody()
	}

	return &Getter{
		node:      at(token.Position),
		Modifiers: modifiers,
		Type:      getType,
		Body:      body,
	}
}

func (p *Parser) parseSetter() *Setter {
	modifiers := p.parseModifiers(nil)
	token := p.accept("set")

	var parameter *FunctionValueParameterWithOptionalType
	var setType *Type
	var body Node
	if p.tryAccept(nl, "(", nl) {
		parameter = p.parseFunctionValueParameterWithOptionalType()
		p.tryAccept(nl, ",")
		p.accept(nl, ")")
		if p.tryAccept(nl, ":", nl) {
			setType = p.parseType()
		}
		p.consumeNewLines()
		body = p.parseFunctionBody()
	}

	return &Setter{
		node:      at(token.Position),
		Modifiers: modifiers,
		Parameter: parameter,
		Type:      setType,
		Body:      body,
	}
}

func (p *Parser) parseParametersWithOptionalType() *ParametersWithOptionalType {
	token := p.accept("(")
	p.consumeNewLines()

	var parameters []*FunctionValueParameterWithOptionalType
	for !p.wouldAccept(nl, ")") {
		parameters = append(parameters, p.parseFunctionValueParameterWithOptionalType())
		if p.wouldAccept(nl, ")") {
			break
		}
		p.accept(nl, ",", nl)
	}
	p.accept(nl, ")")

	return &ParametersWithOptionalType{node: at(token.Position), Items: parameters}
}

func (p *Parser) parseFunctionValueParameterWithOptionalType() *FunctionValueParameterWithOptionalType {
	modifiers := p.parseModifiers(nil)
	parameter := p.parseParameterWithOptionalType()

	var defaultValue Expression
	if p.tryAccept(nl, "=", nl) {
		defaultValue = p.parseExpression()
	}

	return &FunctionValueParameterWithOptionalType{
		node:      at(parameter.Pos()),
		Modifiers: modifiers,
		Parameter: parameter,
		Default:   defaultValue,
	}
}

func (p *Parser) parseParameterWithOptionalType() *ParameterWithOptionalType {
	ident := p.parseSimpleIdentifier()
	p.consumeNewLines()

	var paramType *Type
	if p.tryAccept(":", nl) {
		paramType = p.parseType()
	}

	return &ParameterWithOptionalType{
		node: at(ident.Pos()),
		Name: ident.Value,
		Type: paramType,
	}
}

func (p *Parser) parseParameter() *Parameter {
	ident := p.parseSimpleIdentifier()
	p.accept(nl, ":", nl)
	paramType := p.parseType()
	return &Parameter{node: at(ident.Pos()), Name: ident.Value, Type: paramType}
}

func (p *Parser) parseObjectDeclaration() *ObjectDeclaration {
	modifiers := p.parseModifiers(nil)
	token := p.accept("object")

	p.consumeNewLines()
	ident := p.parseSimpleIdentifier()

	var supertypes []*AnnotatedDelegationSpecifier
	if p.tryAccept(nl, ":", nl) {
		supertypes = p.parseDelegationSpecifiers()
	}

	var body *ClassBody
	if p.wouldAccept(nl, "{") {
		p.consumeNewLines()
		body = p.parseClassBody()
	}

	return &ObjectDeclaration{
		node:       at(token.Position),
		Modifiers:  modifiers,
		Name:       ident.Value,
		Supertypes: supertypes,
		Body:       body,
	}
}

func (p *Parser) parseSecondaryConstructor() *SecondaryConstructor {
	modifiers := p.parseModifiers(nil)
	token := p.accept("constructor", nl)
	parameters := p.parseFunctionValueParameters()

	var delegation *ConstructorDelegationCall
	if p.tryAccept(nl, ":", nl) {
		delegation = p.parseConstructorDelegationCall()
	}

	var body *Block
	if p.wouldAccept(nl, "{") {
		p.consumeNewLines()
		body = p.parseBlock()
	}

	return &SecondaryConstructor{
		node:       at(token.Position),
		Modifiers:  modifiers,
		Parameters: *parameters,
		Delegation: delegation,
		Body:       body,
	}
}

func (p *Parser) parseConstructorDelegationCall() *ConstructorDelegationCall {
	var token Token
	if p.wouldAccept("this") {
		token = p.accept("this", nl)
	} else if p.wouldAccept("super") {
		token = p.accept("super", nl)
	} else {
		p.fail("'this' or 'super'")
	}

	arguments := p.parseValueArguments()

	return &ConstructorDelegationCall{
		node:      at(token.Position),
		Delegate:  token.Text,
		Arguments: *arguments,
	}
}

func (p *Parser) parseEnumClassBody() *EnumClassBody {
	token := p.accept("{")
	p.consumeNewLines()

	var entries []*EnumEntry
	if !p.wouldAcceptEither(";", "}") {
		entries = p.parseEnumEntries()
	}

	var members []ClassMember
	if p.tryAccept(nl, ";", nl) {
		for !p.wouldAccept(nl, "}") {
			members = append(members, p.parseClassMemberDeclaration())
			p.consumeSemis(true)
		}
	}

	p.accept(nl, "}")

	return &EnumClassBody{
		node:    at(token.Position),
		Entries: entries,
		Members: members,
	}
}

func (p *Parser) parseEnumEntries() []*EnumEntry {
	entries := []*EnumEntry{p.parseEnumEntry()}
	for p.tryAccept(nl, ",") {
		if p.wouldAcceptEither(TokenEOF, seq(nl, ";"), seq(nl, "}")) {
			break
		}
		p.consumeNewLines()
		entries = append(entries, p.parseEnumEntry())
	}
	return entries
}

func (p *Parser) parseEnumEntry() *EnumEntry {
	modifiers := p.parseModifiers(nil)
	if len(modifiers) > 0 {
		p.consumeNewLines()
	}

	ident := p.parseSimpleIdentifier()

	var arguments ValueArguments
	if p.wouldAccept(nl, "(") {
		p.consumeNewLines()
		arguments = *p.parseValueArguments()
	}

	var body *ClassBody
	if p.wouldAccept(nl, "{") {
		p.consumeNewLines()
		body = p.parseClassBody()
	}

	return &EnumEntry{
		node:      at(ident.Pos()),
		Modifiers: modifiers,
		Name:      ident.Value,
		Arguments: arguments,
		Body:      body,
	}
}

// parseModifiers parses keyword modifiers and annotations. allowed limits
// the accepted modifier keywords; nil means the general modifier set.
func (p *Parser) parseModifiers(allowed map[string]bool) []Modifier {
	if allowed == nil {
		allowed = allModifiers
	}

	var modifiers []Modifier
	for {
		current := p.cur.current()
		if current.Kind != TokenEOF && current.Kind != TokenInvalid && allowed[current.Text] {
			// edge case: a modifier keyword used as a name, e.g. the
			// parameter "value" in "(value)" or "value: Int"
			if p.wouldAcceptEither(seq(anyToken, nl, ")"), seq(anyToken, nl, ":")) {
				break
			}
			token := p.accept(anyToken)
			modifiers = append(modifiers, &KeywordModifier{node: at(token.Position), Name: token.Text})
		} else if p.wouldAccept(nl, TokenAt) {
			modifiers = append(modifiers, p.parseAnnotation(nil))
		} else {
			break
		}
		p.consumeNewLines()
	}
	return modifiers
}

var annotationTargets = []string{
	"file", "field", "property", "get", "set", "receiver",
	"param", "setparam", "delegate",
}

func (p *Parser) parseAnnotations(allowedTargets []string) []Annotation {
	var annotations []Annotation
	for p.wouldAccept(nl, TokenAt) {
		annotations = append(annotations, p.parseAnnotation(allowedTargets))
	}
	return annotations
}

func (p *Parser) parseAnnotation(allowedTargets []string) Annotation {
	token := p.accept(nl, TokenAt)

	targets := allowedTargets
	if targets == nil {
		targets = annotationTargets
	}

	target := ""
	for _, candidate := range targets {
		if p.tryAccept(candidate, nl, ":", nl) {
			target = candidate
			break
		}
	}

	if !p.tryAccept("[") {
		unescaped := p.parseUnescapedAnnotation()
		p.consumeNewLines()
		return &SingleAnnotation{
			node:       at(token.Position),
			Target:     target,
			Annotation: unescaped,
		}
	}

	annotations := []*UnescapedAnnotation{p.parseUnescapedAnnotation()}
	for !p.tryAccept("]") {
		annotations = append(annotations, p.parseUnescapedAnnotation())
	}
	p.consumeNewLines()

	return &MultiAnnotation{
		node:        at(token.Position),
		Target:      target,
		Annotations: annotations,
	}
}

func (p *Parser) parseUnescapedAnnotation() *UnescapedAnnotation {
	// "@Annotation () -> Unit" annotates a function type; the parentheses
	// are its parameter list, not annotation arguments. Only treat "(" as
	// arguments when no type follows.
	isTypeAhead := func() bool {
		var ahead Node
		p.simulate(func() {
			if parsed, ok := attempt(p, p.parseType); ok {
				ahead = parsed
			}
		})
		if ahead == nil {
			return false
		}
		for {
			if t, ok := ahead.(*Type); ok {
				ahead = t.Subtype
				continue
			}
			if t, ok := ahead.(*ParenthesizedType); ok {
				ahead = t.Type
				continue
			}
			break
		}
		switch ahead.(type) {
		case *FunctionType, *NullableType:
			return true
		}
		return false
	}

	userType := p.parseUserType()
	var arguments ValueArguments
	if p.wouldAccept("(") && !isTypeAhead() {
		arguments = *p.parseValueArguments()
	}
	return &UnescapedAnnotation{
		node:      at(userType.Pos()),
		Name:      userType.String(),
		Arguments: arguments,
	}
}

func (p *Parser) parseSimpleIdentifier() *Identifier {
	token := p.accept(TokenIdentifier)
	return &Identifier{node: at(token.Position), Value: token.Text}
}

func (p *Parser) parseIdentifier() *Identifier {
	token := p.accept(TokenIdentifier)
	value := token.Text
	for p.wouldAccept(nl, ".", TokenIdentifier) {
		p.accept(nl, ".")
		value += "." + p.accept(TokenIdentifier).Text
	}
	return &Identifier{node: at(token.Position), Value: value}
}
