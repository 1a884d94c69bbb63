package parser

// cachedType records the outcome of parseType at a start index: the parsed
// type and the index it ended at, or the error it failed with.
type cachedType struct {
	result *Type
	end    int
	err    *SyntaxError
}

// parseType caches its outcome per start index. Function types, nullable
// types, and parenthesized types all begin with '(', so the trial parses
// re-enter the same parenthesized interior; without the cache, each nesting
// level multiplies the retries.
func (p *Parser) parseType() *Type {
	start := p.cur.save()
	if entry, ok := p.typeCache[start]; ok {
		if entry.err != nil {
			panic(entry.err)
		}
		p.cur.restore(entry.end)
		return entry.result
	}
	return p.parseTypeAt(start)
}

func (p *Parser) parseTypeAt(start int) (result *Type) {
	defer func() {
		r := recover()
		if r == nil {
			p.typeCache[start] = cachedType{result: result, end: p.cur.save()}
			return
		}
		if err, ok := r.(*SyntaxError); ok {
			p.typeCache[start] = cachedType{err: err}
		}
		panic(r)
	}()

	modifiers := p.parseModifiers(typeModifiers)
	subtype, ok := tryParse(p,
		func() Node { return p.parseFunctionType() },
		func() Node { return p.parseNullableType() },
		func() Node { return p.parseTypeReference() },
		func() Node { return p.parseParenthesizedType() },
	)
	if !ok {
		p.fail("a type")
	}

	return &Type{
		node:      at(subtype.Pos()),
		Modifiers: modifiers,
		Subtype:   subtype,
	}
}

func (p *Parser) parseTypeReference() *TypeReference {
	if p.wouldAccept("dynamic") {
		token := p.accept("dynamic")
		return &TypeReference{node: at(token.Position), Dynamic: true}
	}
	userType := p.parseUserType()
	return &TypeReference{node: at(userType.Pos()), UserType: userType}
}

func (p *Parser) parseNullableType() *NullableType {
	var subtype Node
	if p.wouldAccept("(") {
		subtype = p.parseParenthesizedType()
	} else {
		subtype = p.parseTypeReference()
	}

	p.accept(nl, "?")
	quest := "?"
	for p.tryAccept("?") {
		quest += "?"
	}

	return &NullableType{
		node:    at(subtype.Pos()),
		Subtype: subtype,
		Quest:   quest,
	}
}

func (p *Parser) parseUserType() *UserType {
	types := []*SimpleUserType{p.parseSimpleUserType()}
	for p.wouldAccept(nl, ".", nl, TokenIdentifier) {
		p.accept(nl, ".", nl)
		types = append(types, p.parseSimpleUserType())
	}
	return &UserType{node: at(types[0].Pos()), Items: types}
}

func (p *Parser) parseSimpleUserType() *SimpleUserType {
	token := p.accept(TokenIdentifier)

	var generics TypeArguments
	if p.wouldAccept(nl, "<") {
		p.consumeNewLines()
		generics = *p.parseTypeArguments()
	}

	return &SimpleUserType{
		node:     at(token.Position),
		Name:     token.Text,
		Generics: generics,
	}
}

func (p *Parser) parseTypeProjection() TypeProjection {
	if p.wouldAccept("*") {
		token := p.accept("*")
		return &TypeProjectionStar{node: at(token.Position)}
	}
	modifiers := p.parseModifiers(varianceModifiers)
	projection := p.parseType()
	return &TypeProjectionWithType{
		node:      at(projection.Pos()),
		Modifiers: modifiers,
		Type:      projection,
	}
}

func (p *Parser) parseFunctionType() *FunctionType {
	// try without a receiver first
	funType, ok := attempt(p, func() *FunctionType {
		parameters := p.parseFunctionTypeParameters()
		p.accept(nl, "->", nl)
		returnType := p.parseType()
		return &FunctionType{
			node:       at(parameters.Pos()),
			Parameters: *parameters,
			Return:     returnType,
		}
	})
	if ok {
		return funType
	}

	receiver := p.parseReceiverType()
	p.accept(nl, ".", nl)
	parameters := p.parseFunctionTypeParameters()
	p.accept(nl, "->", nl)
	returnType := p.parseType()

	return &FunctionType{
		node:       at(parameters.Pos()),
		Receiver:   receiver,
		Parameters: *parameters,
		Return:     returnType,
	}
}

func (p *Parser) parseFunctionTypeParameters() *FunctionTypeParameters {
	token := p.accept("(")

	var parameters []Node
	for !p.wouldAccept(nl, ")") {
		p.consumeNewLines()
		if p.wouldAccept(TokenIdentifier, nl, ":") {
			parameters = append(parameters, p.parseParameter())
		} else {
			parameters = append(parameters, p.parseType())
		}
		if p.wouldAccept(nl, ")") {
			break
		}
		p.accept(nl, ",")
	}
	p.accept(nl, ")")

	return &FunctionTypeParameters{node: at(token.Position), Items: parameters}
}

func (p *Parser) parseParenthesizedType() *ParenthesizedType {
	token := p.accept("(", nl)
	subtype := p.parseType()
	p.accept(nl, ")")
	return &ParenthesizedType{node: at(token.Position), Type: subtype}
}

func (p *Parser) parseReceiverType() *ReceiverType {
	modifiers := p.parseModifiers(typeModifiers)
	subtype, ok := tryParse(p,
		func() Node { return p.parseNullableType() },
		func() Node { return p.parseTypeReference() },
		func() Node { return p.parseParenthesizedType() },
	)
	if !ok {
		p.fail("a receiver type")
	}

	return &ReceiverType{
		node:      at(subtype.Pos()),
		Modifiers: modifiers,
		Subtype:   subtype,
	}
}
