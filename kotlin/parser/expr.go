package parser

import "strings"

// Expression is implemented by every expression node.
type Expression interface {
	Node
	expression()
}

// Statement wraps a declaration, assignment, loop, or expression together
// with its annotations and labels.
type Statement struct {
	node
	Annotations []Annotation
	Labels      []*Label
	Statement   Node
}

func (s *Statement) String() string {
	return prefixJoin(s.Annotations) + prefixJoin(s.Labels) + s.Statement.String()
}

type Block struct {
	node
	Statements []*Statement
}

func (b *Block) String() string {
	if len(b.Statements) == 0 {
		return "{ }"
	}
	return "{\n" + indent(join(b.Statements, "\n")) + "\n}"
}

// ForStatement iterates a container. Variable is a *VariableDeclaration or
// *MultiVariableDeclaration; a nil Body renders as ";".
type ForStatement struct {
	node
	Annotations []Annotation
	Variable    Node
	Container   Expression
	Body        Node
}

func (f *ForStatement) String() string {
	body := ";"
	if f.Body != nil {
		body = " " + f.Body.String()
	}
	return "for (" + prefixJoin(f.Annotations) + f.Variable.String() + " in " + f.Container.String() + ")" + body
}

type WhileStatement struct {
	node
	Condition Expression
	Body      Node
}

func (w *WhileStatement) String() string {
	if w.Body != nil {
		return "while (" + w.Condition.String() + ") " + w.Body.String()
	}
	return "while (" + w.Condition.String() + ");"
}

type DoWhileStatement struct {
	node
	Body      Node
	Condition Expression
}

func (d *DoWhileStatement) String() string {
	if d.Body != nil {
		return "do " + d.Body.String() + " while (" + d.Condition.String() + ")"
	}
	return "do while (" + d.Condition.String() + ")"
}

// Assignment is "target op value" with op one of = += -= *= /= %=.
type Assignment struct {
	node
	Assignable Expression
	Operator   string
	Value      Expression
}

func (a *Assignment) String() string {
	return a.Assignable.String() + " " + a.Operator + " " + a.Value.String()
}

// BinaryExpression covers every infix operation whose right operand is an
// expression: || && equality comparison elvis range additive multiplicative
// in !in and named infix calls.
type BinaryExpression struct {
	node
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpression) String() string {
	return b.Left.String() + " " + b.Operator + " " + b.Right.String()
}

// TypeOperation is an infix operation whose right operand is a type:
// is !is as as?.
type TypeOperation struct {
	node
	Left     Expression
	Operator string
	Type     *Type
}

func (t *TypeOperation) String() string {
	return t.Left.String() + " " + t.Operator + " " + t.Type.String()
}

// UnaryPrefix is an annotation, label, or operator preceding an expression.
type UnaryPrefix interface {
	Node
	unaryPrefix()
}

// UnaryOperator is a bare operator used as a prefix (+ - ++ -- !) or
// postfix (++ -- !!) element.
type UnaryOperator struct {
	node
	Symbol string
}

func (u *UnaryOperator) String() string { return u.Symbol }

type PrefixUnaryExpression struct {
	node
	Prefixes   []UnaryPrefix
	Expression Expression
}

func (p *PrefixUnaryExpression) String() string {
	var sb strings.Builder
	for _, prefix := range p.Prefixes {
		sb.WriteString(prefix.String())
		switch prefix.(type) {
		case *Label, *SingleAnnotation, *MultiAnnotation:
			sb.WriteString(" ")
		}
	}
	sb.WriteString(p.Expression.String())
	return sb.String()
}

// PostfixSuffix is a postfix element: an operator, type arguments, a call,
// an indexing, or a navigation.
type PostfixSuffix interface {
	Node
	postfixSuffix()
}

type PostfixUnaryExpression struct {
	node
	Expression Expression
	Suffixes   []PostfixSuffix
}

func (p *PostfixUnaryExpression) String() string {
	var sb strings.Builder
	sb.WriteString(p.Expression.String())
	for _, suffix := range p.Suffixes {
		sb.WriteString(suffix.String())
	}
	return sb.String()
}

// DirectlyAssignableExpression marks the target of an assignment.
type DirectlyAssignableExpression struct {
	node
	Expression Expression
}

func (d *DirectlyAssignableExpression) String() string { return d.Expression.String() }

type ParenthesizedDirectlyAssignableExpression struct {
	node
	Expression Expression
}

func (p *ParenthesizedDirectlyAssignableExpression) String() string {
	return "(" + p.Expression.String() + ")"
}

type ParenthesizedAssignableExpression struct {
	node
	Expression Expression
}

func (p *ParenthesizedAssignableExpression) String() string {
	return "(" + p.Expression.String() + ")"
}

type IndexingSuffix struct {
	node
	Items []Expression
}

func (i *IndexingSuffix) String() string { return "[" + join(i.Items, ", ") + "]" }

// NavigationSuffix is ". name", "?. name", or ":: name"; the member is a
// name, "class", or a parenthesized expression.
type NavigationSuffix struct {
	node
	Operator string // "." "?." "::"
	Name     string
	Target   *ParenthesizedExpression
}

func (n *NavigationSuffix) String() string {
	if n.Target != nil {
		return n.Operator + n.Target.String()
	}
	return n.Operator + n.Name
}

// CallSuffix is the argument part of a call: optional type arguments,
// optional parenthesized arguments, optional trailing lambda. Arguments nil
// distinguishes "f { }" from "f() { }".
type CallSuffix struct {
	node
	Generics  TypeArguments
	Arguments *ValueArguments
	Lambda    *AnnotatedLambda
}

func (c *CallSuffix) String() string {
	var sb strings.Builder
	if len(c.Generics.Items) > 0 {
		sb.WriteString(c.Generics.String())
	}
	if c.Arguments != nil {
		sb.WriteString(c.Arguments.String())
	}
	if c.Lambda != nil {
		sb.WriteString(" ")
		sb.WriteString(c.Lambda.String())
	}
	return sb.String()
}

type AnnotatedLambda struct {
	node
	Annotations []Annotation
	Label       *Label
	Value       *LambdaLiteral
}

func (a *AnnotatedLambda) String() string {
	label := ""
	if a.Label != nil {
		label = a.Label.String()
	}
	return prefixJoin(a.Annotations) + label + a.Value.String()
}

type ValueArgument struct {
	node
	Annotation Annotation
	Name       string
	Spread     bool
	Value      Expression
}

func (v *ValueArgument) String() string {
	var sb strings.Builder
	if v.Annotation != nil {
		sb.WriteString(v.Annotation.String())
		sb.WriteString(" ")
	}
	if v.Name != "" {
		sb.WriteString(v.Name)
		sb.WriteString(" = ")
	}
	if v.Spread {
		sb.WriteString("*")
	}
	sb.WriteString(v.Value.String())
	return sb.String()
}

type ValueArguments struct {
	node
	Items []*ValueArgument
}

func (v *ValueArguments) String() string { return "(" + join(v.Items, ", ") + ")" }

// LiteralKind identifies the class of a literal constant.
type LiteralKind int

const (
	LiteralInteger LiteralKind = iota
	LiteralHex
	LiteralBin
	LiteralUnsigned
	LiteralLong
	LiteralFloat
	LiteralDouble
	LiteralBoolean
	LiteralNull
	LiteralCharacter
)

// LiteralConstant is a literal kept as its exact source text.
type LiteralConstant struct {
	node
	Kind  LiteralKind
	Value string
}

func (l *LiteralConstant) String() string { return l.Value }

// StringLiteral keeps the raw literal text, quotes and templates included.
type StringLiteral struct {
	node
	Value     string
	MultiLine bool
}

func (s *StringLiteral) String() string { return s.Value }

type ParenthesizedExpression struct {
	node
	Expression Expression
}

func (p *ParenthesizedExpression) String() string { return "(" + p.Expression.String() + ")" }

type CollectionLiteral struct {
	node
	Items []Expression
}

func (c *CollectionLiteral) String() string { return "[" + join(c.Items, ", ") + "]" }

// LambdaLiteral is "{ params -> statements }". A single statement renders on
// one line, several render indented.
type LambdaLiteral struct {
	node
	Parameters []*LambdaParameter
	Statements []*Statement
}

func (l *LambdaLiteral) String() string {
	statements := join(l.Statements, "\n")
	switch {
	case len(l.Statements) > 1:
		statements = "\n" + indent(statements) + "\n"
	case len(l.Statements) == 1:
		statements = " " + statements + " "
	}
	if len(l.Parameters) > 0 {
		return "{ " + join(l.Parameters, ", ") + " ->" + statements + "}"
	}
	return "{" + statements + "}"
}

// LambdaParameter declares a lambda parameter. Variable is a
// *VariableDeclaration or *MultiVariableDeclaration; Type is only rendered
// for destructured parameters.
type LambdaParameter struct {
	node
	Variable Node
	Type     *Type
}

func (l *LambdaParameter) String() string {
	if _, multi := l.Variable.(*MultiVariableDeclaration); multi && l.Type != nil {
		return l.Variable.String() + ": " + l.Type.String()
	}
	return l.Variable.String()
}

type AnonymousFunction struct {
	node
	Receiver    *Type
	Parameters  ParametersWithOptionalType
	Type        *Type
	Constraints TypeConstraints
	Body        Node // nil, *Block, or Expression
}

func (a *AnonymousFunction) String() string {
	var sb strings.Builder
	sb.WriteString("fun")
	if a.Receiver != nil {
		sb.WriteString(" ")
		sb.WriteString(a.Receiver.String())
		sb.WriteString(".")
	}
	sb.WriteString(a.Parameters.String())
	if a.Type != nil {
		sb.WriteString(": ")
		sb.WriteString(a.Type.String())
	}
	if len(a.Constraints.Items) > 0 {
		sb.WriteString(" ")
		sb.WriteString(a.Constraints.String())
	}
	sb.WriteString(functionBodyString(a.Body))
	return sb.String()
}

type ObjectLiteral struct {
	node
	Supertypes []*AnnotatedDelegationSpecifier
	Body       *ClassBody
}

func (o *ObjectLiteral) String() string {
	var sb strings.Builder
	sb.WriteString("object")
	if len(o.Supertypes) > 0 {
		sb.WriteString(" : ")
		sb.WriteString(join(o.Supertypes, ", "))
	}
	if o.Body != nil {
		sb.WriteString(" ")
		sb.WriteString(o.Body.String())
	}
	return sb.String()
}

type ThisExpression struct {
	node
	Label string
}

func (t *ThisExpression) String() string {
	if t.Label != "" {
		return "this@" + t.Label
	}
	return "this"
}

type SuperExpression struct {
	node
	Supertype *Type
	Label     string
}

func (s *SuperExpression) String() string {
	out := "super"
	if s.Supertype != nil {
		out += "<" + s.Supertype.String() + ">"
	}
	if s.Label != "" {
		out += "@" + s.Label
	}
	return out
}

// IfExpression. Then and Else are a *Block or *Statement; a nil Then
// renders as ";".
type IfExpression struct {
	node
	Condition Expression
	Then      Node
	Else      Node
}

func (i *IfExpression) String() string {
	out := "if (" + i.Condition.String() + ")"
	if i.Then != nil {
		out += " " + i.Then.String()
	} else {
		out += ";"
	}
	if i.Else != nil {
		out += " else " + i.Else.String()
	}
	return out
}

type WhenExpression struct {
	node
	Subject *WhenSubject
	Entries []WhenEntry
}

func (w *WhenExpression) String() string {
	subject := ""
	if w.Subject != nil {
		subject = " " + w.Subject.String()
	}
	if len(w.Entries) == 0 {
		return "when" + subject + " { }"
	}
	return "when" + subject + " {\n" + indent(join(w.Entries, "\n")) + "\n}"
}

// WhenSubject is the parenthesized subject, optionally declaring a val.
type WhenSubject struct {
	node
	Annotations []Annotation
	Declaration *VariableDeclaration
	Value       Expression
}

func (w *WhenSubject) String() string {
	inner := prefixJoin(w.Annotations)
	if w.Declaration != nil {
		inner += "val " + w.Declaration.String() + " = " + w.Value.String()
	} else {
		inner += w.Value.String()
	}
	return "(" + inner + ")"
}

// WhenEntry is one arm of a when expression.
type WhenEntry interface {
	Node
	whenEntry()
}

// WhenConditionEntry holds conditions that are Expressions, *RangeTest, or
// *TypeTest nodes.
type WhenConditionEntry struct {
	node
	Conditions []Node
	Body       Node
}

func (w *WhenConditionEntry) String() string {
	return join(w.Conditions, ", ") + " -> " + w.Body.String()
}

type WhenElseEntry struct {
	node
	Body Node
}

func (w *WhenElseEntry) String() string { return "else -> " + w.Body.String() }

func (*WhenConditionEntry) whenEntry() {}
func (*WhenElseEntry) whenEntry()      {}

// RangeTest is an "in"/"!in" condition in a when entry.
type RangeTest struct {
	node
	Operator string
	Operand  Expression
}

func (r *RangeTest) String() string { return r.Operator + " " + r.Operand.String() }

// TypeTest is an "is"/"!is" condition in a when entry.
type TypeTest struct {
	node
	Operator string
	Operand  *Type
}

func (t *TypeTest) String() string { return t.Operator + " " + t.Operand.String() }

type TryExpression struct {
	node
	TryBlock     *Block
	CatchBlocks  []*CatchBlock
	FinallyBlock *FinallyBlock
}

func (t *TryExpression) String() string {
	out := "try " + t.TryBlock.String()
	if len(t.CatchBlocks) > 0 {
		out += " " + join(t.CatchBlocks, " ")
	}
	if t.FinallyBlock != nil {
		out += " " + t.FinallyBlock.String()
	}
	return out
}

type CatchBlock struct {
	node
	Annotations []Annotation
	Name        string
	Type        *Type
	Block       *Block
}

func (c *CatchBlock) String() string {
	return "catch (" + prefixJoin(c.Annotations) + c.Name + ": " + c.Type.String() + ") " + c.Block.String()
}

type FinallyBlock struct {
	node
	Block *Block
}

func (f *FinallyBlock) String() string { return "finally " + f.Block.String() }

type ThrowExpression struct {
	node
	Expression Expression
}

func (t *ThrowExpression) String() string { return "throw " + t.Expression.String() }

type ReturnExpression struct {
	node
	Label      string
	Expression Expression
}

func (r *ReturnExpression) String() string {
	out := "return"
	if r.Label != "" {
		out += "@" + r.Label
	}
	if r.Expression != nil {
		out += " " + r.Expression.String()
	}
	return out
}

type ContinueExpression struct {
	node
	Label string
}

func (c *ContinueExpression) String() string {
	if c.Label != "" {
		return "continue@" + c.Label
	}
	return "continue"
}

type BreakExpression struct {
	node
	Label string
}

func (b *BreakExpression) String() string {
	if b.Label != "" {
		return "break@" + b.Label
	}
	return "break"
}

// CallableReference is "::member" or "Receiver::member"; member may be
// "class".
type CallableReference struct {
	node
	Receiver *ReceiverType
	Member   string
}

func (c *CallableReference) String() string {
	if c.Receiver != nil {
		return c.Receiver.String() + "::" + c.Member
	}
	return "::" + c.Member
}

// Identifier is a simple identifier used as an expression.
type Identifier struct {
	node
	Value string
}

func (i *Identifier) String() string { return i.Value }

func (*BinaryExpression) expression()                          {}
func (*TypeOperation) expression()                             {}
func (*PrefixUnaryExpression) expression()                     {}
func (*PostfixUnaryExpression) expression()                    {}
func (*DirectlyAssignableExpression) expression()              {}
func (*ParenthesizedDirectlyAssignableExpression) expression() {}
func (*ParenthesizedAssignableExpression) expression()         {}
func (*LiteralConstant) expression()                           {}
func (*StringLiteral) expression()                             {}
func (*ParenthesizedExpression) expression()                   {}
func (*CollectionLiteral) expression()                         {}
func (*LambdaLiteral) expression()                             {}
func (*AnonymousFunction) expression()                         {}
func (*ObjectLiteral) expression()                             {}
func (*ThisExpression) expression()                            {}
func (*SuperExpression) expression()                           {}
func (*IfExpression) expression()                              {}
func (*WhenExpression) expression()                            {}
func (*TryExpression) expression()                             {}
func (*ThrowExpression) expression()                           {}
func (*ReturnExpression) expression()                          {}
func (*ContinueExpression) expression()                        {}
func (*BreakExpression) expression()                           {}
func (*CallableReference) expression()                         {}
func (*Identifier) expression()                                {}

func (*SingleAnnotation) unaryPrefix() {}
func (*MultiAnnotation) unaryPrefix()  {}
func (*Label) unaryPrefix()            {}
func (*UnaryOperator) unaryPrefix()    {}

func (*UnaryOperator) postfixSuffix()    {}
func (*TypeArguments) postfixSuffix()    {}
func (*CallSuffix) postfixSuffix()       {}
func (*IndexingSuffix) postfixSuffix()   {}
func (*NavigationSuffix) postfixSuffix() {}
