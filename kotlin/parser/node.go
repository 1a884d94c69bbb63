package parser

import (
	"fmt"
	"strings"
)

// Node is implemented by every element of the syntax tree. String renders
// the node back to equivalent Kotlin source; parsing the render yields the
// same tree. Comments and incidental whitespace are normalized away.
type Node interface {
	Pos() Position
	String() string
}

// node carries the position of the first token of a syntax element. It is
// embedded in every concrete node type.
type node struct {
	Position Position
}

func (n *node) Pos() Position { return n.Position }

func at(p Position) node { return node{Position: p} }

// Marker interfaces classify nodes into the closed unions the grammar uses.

// Declaration is a top-level or member declaration.
type Declaration interface {
	ClassMember
	declaration()
}

// ClassMember is anything that may appear in a class body: declarations,
// companion objects, init blocks, and secondary constructors.
type ClassMember interface {
	Node
	classMember()
}

// Modifier is a keyword modifier or an annotation.
type Modifier interface {
	Node
	modifier()
}

// Annotation is a single or multi annotation, optionally with a use-site
// target.
type Annotation interface {
	Modifier
	annotation()
}

// DelegationSpecifier is a supertype entry: a constructor invocation, an
// explicit delegation, a user type, or a function type.
type DelegationSpecifier interface {
	Node
	delegationSpecifier()
}

const indentPrefix = "    "

// indent prefixes every line of code, blank lines included.
func indent(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = indentPrefix + line
	}
	return strings.Join(lines, "\n")
}

func join[T fmt.Stringer](items []T, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, sep)
}

// prefixJoin renders items space-separated with a trailing space, or an
// empty string when there are none. Used for modifier and annotation lists
// that precede a declaration.
func prefixJoin[T fmt.Stringer](items []T) string {
	if len(items) == 0 {
		return ""
	}
	return join(items, " ") + " "
}

// KotlinFile is a parsed source file.
type KotlinFile struct {
	node
	Shebang      *ShebangLine
	Annotations  []Annotation
	Package      *PackageHeader
	Imports      []*ImportHeader
	Declarations []Declaration
}

func (f *KotlinFile) String() string {
	return fileString(f.Shebang, f.Annotations, f.Package, f.Imports,
		join(f.Declarations, "\n\n"), len(f.Declarations) > 0)
}

// Script is a parsed script file: top-level statements instead of
// declarations.
type Script struct {
	node
	Shebang     *ShebangLine
	Annotations []Annotation
	Package     *PackageHeader
	Imports     []*ImportHeader
	Statements  []*Statement
}

func (s *Script) String() string {
	return fileString(s.Shebang, s.Annotations, s.Package, s.Imports,
		join(s.Statements, "\n"), len(s.Statements) > 0)
}

func fileString(shebang *ShebangLine, annotations []Annotation, pkg *PackageHeader, imports []*ImportHeader, body string, hasBody bool) string {
	var sb strings.Builder
	if shebang != nil {
		sb.WriteString(shebang.String())
		sb.WriteString("\n\n")
	}
	if len(annotations) > 0 {
		sb.WriteString(join(annotations, "\n"))
		sb.WriteString("\n\n")
	}
	if pkg != nil {
		sb.WriteString(pkg.String())
		sb.WriteString("\n\n")
	}
	if len(imports) > 0 {
		sb.WriteString(join(imports, "\n"))
		if hasBody {
			sb.WriteString("\n\n")
		}
	}
	sb.WriteString(body)
	return sb.String()
}

// ShebangLine is the raw first line of a script, including the "#!".
type ShebangLine struct {
	node
	Value string
}

func (s *ShebangLine) String() string { return s.Value }

type PackageHeader struct {
	node
	Name string
}

func (p *PackageHeader) String() string { return "package " + p.Name }

// ImportHeader is a single import. Name never includes a trailing ".*";
// wildcard imports set Wildcard instead.
type ImportHeader struct {
	node
	Name     string
	Wildcard bool
	Alias    string
}

func (i *ImportHeader) String() string {
	var sb strings.Builder
	sb.WriteString("import ")
	sb.WriteString(i.Name)
	if i.Wildcard {
		sb.WriteString(".*")
	}
	if i.Alias != "" {
		sb.WriteString(" as ")
		sb.WriteString(i.Alias)
	}
	return sb.String()
}

type TypeAlias struct {
	node
	Modifiers []Modifier
	Name      string
	Generics  TypeParameters
	Type      *Type
}

func (t *TypeAlias) String() string {
	generics := ""
	if len(t.Generics.Items) > 0 {
		generics = t.Generics.String()
	}
	return fmt.Sprintf("%stypealias %s%s = %s", prefixJoin(t.Modifiers), t.Name, generics, t.Type)
}

// ClassKind distinguishes the declaration forms sharing the class grammar.
type ClassKind int

const (
	KindClass ClassKind = iota
	KindInterface
	KindFunInterface
	KindEnum
)

func (k ClassKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindFunInterface:
		return "fun interface"
	default:
		// enum renders as "class"; the "enum" keyword is a modifier
		return "class"
	}
}

// ClassDeclaration covers class, interface, fun interface, and enum class
// declarations. Exactly one of Body and EnumBody is set for enums; Body for
// the rest; both nil for a declaration without a body.
type ClassDeclaration struct {
	node
	Kind        ClassKind
	Modifiers   []Modifier
	Name        string
	Generics    TypeParameters
	Constructor *PrimaryConstructor
	Supertypes  []*AnnotatedDelegationSpecifier
	Constraints TypeConstraints
	Body        *ClassBody
	EnumBody    *EnumClassBody
}

func (c *ClassDeclaration) String() string {
	var sb strings.Builder
	sb.WriteString(prefixJoin(c.Modifiers))
	sb.WriteString(c.Kind.String())
	sb.WriteString(" ")
	sb.WriteString(c.Name)
	if len(c.Generics.Items) > 0 {
		sb.WriteString(c.Generics.String())
	}
	if c.Constructor != nil {
		sb.WriteString(c.Constructor.String())
	}
	if len(c.Supertypes) > 0 {
		sb.WriteString(" : ")
		sb.WriteString(join(c.Supertypes, ", "))
	}
	if len(c.Constraints.Items) > 0 {
		sb.WriteString(" ")
		sb.WriteString(c.Constraints.String())
	}
	if c.Body != nil {
		sb.WriteString(" ")
		sb.WriteString(c.Body.String())
	} else if c.EnumBody != nil {
		sb.WriteString(" ")
		sb.WriteString(c.EnumBody.String())
	}
	return sb.String()
}

type PrimaryConstructor struct {
	node
	Modifiers  []Modifier
	Parameters ClassParameters
}

func (p *PrimaryConstructor) String() string {
	if len(p.Modifiers) > 0 {
		return " " + join(p.Modifiers, " ") + " constructor" + p.Parameters.String()
	}
	return p.Parameters.String()
}

type ClassBody struct {
	node
	Members []ClassMember
}

func (c *ClassBody) String() string {
	if len(c.Members) == 0 {
		return "{ }"
	}
	parts := make([]string, len(c.Members))
	for i, member := range c.Members {
		parts[i] = indent(member.String())
	}
	return "{\n" + strings.Join(parts, "\n\n") + "\n}"
}

// ClassParameter is a primary constructor parameter. Mutability is "val",
// "var", or empty for a plain parameter.
type ClassParameter struct {
	node
	Modifiers  []Modifier
	Mutability string
	Name       string
	Type       *Type
	Default    Expression
}

func (c *ClassParameter) String() string {
	var sb strings.Builder
	sb.WriteString(prefixJoin(c.Modifiers))
	if c.Mutability != "" {
		sb.WriteString(c.Mutability)
		sb.WriteString(" ")
	}
	sb.WriteString(c.Name)
	sb.WriteString(": ")
	sb.WriteString(c.Type.String())
	if c.Default != nil {
		sb.WriteString(" = ")
		sb.WriteString(c.Default.String())
	}
	return sb.String()
}

type ClassParameters struct {
	node
	Items []*ClassParameter
}

func (c *ClassParameters) String() string { return "(" + join(c.Items, ", ") + ")" }

type AnnotatedDelegationSpecifier struct {
	node
	Annotations []Annotation
	Delegate    DelegationSpecifier
}

func (a *AnnotatedDelegationSpecifier) String() string {
	return prefixJoin(a.Annotations) + a.Delegate.String()
}

type ConstructorInvocation struct {
	node
	Invoker   *UserType
	Arguments ValueArguments
}

func (c *ConstructorInvocation) String() string {
	return c.Invoker.String() + c.Arguments.String()
}

type ExplicitDelegation struct {
	node
	Interface Node // *UserType or *FunctionType
	Delegate  Expression
}

func (e *ExplicitDelegation) String() string {
	return e.Interface.String() + " by " + e.Delegate.String()
}

type TypeParameter struct {
	node
	Modifiers []Modifier
	Name      string
	Type      *Type
}

func (t *TypeParameter) String() string {
	s := prefixJoin(t.Modifiers) + t.Name
	if t.Type != nil {
		s += ": " + t.Type.String()
	}
	return s
}

type TypeParameters struct {
	node
	Items []*TypeParameter
}

func (t *TypeParameters) String() string { return "<" + join(t.Items, ", ") + ">" }

type TypeConstraint struct {
	node
	Annotations []Annotation
	Name        string
	Type        *Type
}

func (t *TypeConstraint) String() string {
	return prefixJoin(t.Annotations) + t.Name + " : " + t.Type.String()
}

type TypeConstraints struct {
	node
	Items []*TypeConstraint
}

func (t *TypeConstraints) String() string { return "where " + join(t.Items, ", ") }

type AnonymousInitializer struct {
	node
	Body *Block
}

func (a *AnonymousInitializer) String() string { return "init " + a.Body.String() }

type CompanionObject struct {
	node
	Modifiers  []Modifier
	Name       string
	Interfaces []*AnnotatedDelegationSpecifier
	Body       *ClassBody
}

func (c *CompanionObject) String() string {
	var sb strings.Builder
	sb.WriteString(prefixJoin(c.Modifiers))
	sb.WriteString("companion object")
	if c.Name != "" {
		sb.WriteString(" ")
		sb.WriteString(c.Name)
	}
	if len(c.Interfaces) > 0 {
		sb.WriteString(" : ")
		sb.WriteString(join(c.Interfaces, ", "))
	}
	if c.Body != nil {
		sb.WriteString(" ")
		sb.WriteString(c.Body.String())
	}
	return sb.String()
}

type Parameter struct {
	node
	Name string
	Type *Type
}

func (p *Parameter) String() string { return p.Name + ": " + p.Type.String() }

type FunctionValueParameter struct {
	node
	Modifiers []Modifier
	Parameter *Parameter
	Default   Expression
}

func (f *FunctionValueParameter) String() string {
	s := prefixJoin(f.Modifiers) + f.Parameter.String()
	if f.Default != nil {
		s += " = " + f.Default.String()
	}
	return s
}

// Name returns the parameter name.
func (f *FunctionValueParameter) Name() string { return f.Parameter.Name }

type FunctionValueParameters struct {
	node
	Items []*FunctionValueParameter
}

func (f *FunctionValueParameters) String() string { return "(" + join(f.Items, ", ") + ")" }

// FunctionDeclaration is a named function. Body is nil for an abstract
// declaration, a *Block for a block body, or an Expression for an
// expression body (rendered with "=").
type FunctionDeclaration struct {
	node
	Modifiers   []Modifier
	Generics    TypeParameters
	Receiver    *ReceiverType
	Name        string
	Parameters  FunctionValueParameters
	Type        *Type
	Constraints TypeConstraints
	Body        Node
}

func (f *FunctionDeclaration) String() string {
	var sb strings.Builder
	sb.WriteString(prefixJoin(f.Modifiers))
	sb.WriteString("fun ")
	if len(f.Generics.Items) > 0 {
		sb.WriteString(f.Generics.String())
		sb.WriteString(" ")
	}
	if f.Receiver != nil {
		sb.WriteString(f.Receiver.String())
		sb.WriteString(".")
	}
	sb.WriteString(f.Name)
	sb.WriteString(f.Parameters.String())
	if f.Type != nil {
		sb.WriteString(": ")
		sb.WriteString(f.Type.String())
	}
	if len(f.Constraints.Items) > 0 {
		sb.WriteString(" ")
		sb.WriteString(f.Constraints.String())
	}
	sb.WriteString(functionBodyString(f.Body))
	return sb.String()
}

// functionBodyString renders a function body with its leading space, "="
// included for expression bodies.
func functionBodyString(body Node) string {
	switch b := body.(type) {
	case nil:
		return ""
	case Expression:
		return " = " + b.String()
	default:
		return " " + b.String()
	}
}

type VariableDeclaration struct {
	node
	Annotations []Annotation
	Name        string
	Type        *Type
}

func (v *VariableDeclaration) String() string {
	s := prefixJoin(v.Annotations) + v.Name
	if v.Type != nil {
		s += ": " + v.Type.String()
	}
	return s
}

type MultiVariableDeclaration struct {
	node
	Items []*VariableDeclaration
}

func (m *MultiVariableDeclaration) String() string { return "(" + join(m.Items, ", ") + ")" }

// PropertyDeclaration is a val or var declaration, top-level or member.
// Declaration is a *VariableDeclaration or a *MultiVariableDeclaration.
type PropertyDeclaration struct {
	node
	Modifiers   []Modifier
	Mutability  string // "val" or "var"
	Generics    TypeParameters
	Receiver    *ReceiverType
	Declaration Node
	Constraints TypeConstraints
	Value       Expression
	Delegate    *PropertyDelegate
	Getter      *Getter
	Setter      *Setter
}

func (p *PropertyDeclaration) String() string {
	var sb strings.Builder
	sb.WriteString(prefixJoin(p.Modifiers))
	sb.WriteString(p.Mutability)
	sb.WriteString(" ")
	if len(p.Generics.Items) > 0 {
		sb.WriteString(p.Generics.String())
		sb.WriteString(" ")
	}
	if p.Receiver != nil {
		sb.WriteString(p.Receiver.String())
		sb.WriteString(".")
	}
	sb.WriteString(p.Declaration.String())
	if len(p.Constraints.Items) > 0 {
		sb.WriteString(" ")
		sb.WriteString(p.Constraints.String())
	}
	if p.Value != nil {
		sb.WriteString(" = ")
		sb.WriteString(p.Value.String())
	} else if p.Delegate != nil {
		sb.WriteString(" ")
		sb.WriteString(p.Delegate.String())
	}
	if p.Getter != nil {
		if p.Setter != nil || len(p.Constraints.Items) > 0 {
			sb.WriteString("\n")
			sb.WriteString(indent(p.Getter.String()))
		} else {
			sb.WriteString(" ")
			sb.WriteString(p.Getter.String())
		}
	}
	if p.Setter != nil {
		sb.WriteString("\n")
		sb.WriteString(indent(p.Setter.String()))
	}
	return sb.String()
}

type PropertyDelegate struct {
	node
	Value Expression
}

func (p *PropertyDelegate) String() string { return "by " + p.Value.String() }

// Getter is a property getter. Body nil means the bare "get" form.
type Getter struct {
	node
	Modifiers []Modifier
	Type      *Type
	Body      Node // nil, *Block, or Expression
}

func (g *Getter) String() string {
	s := prefixJoin(g.Modifiers) + "get"
	if g.Body == nil {
		return s
	}
	s += "()"
	if g.Type != nil {
		s += ": " + g.Type.String()
	}
	return s + functionBodyString(g.Body)
}

// Setter is a property setter. Body nil means the bare "set" form.
type Setter struct {
	node
	Modifiers []Modifier
	Parameter *FunctionValueParameterWithOptionalType
	Type      *Type
	Body      Node // nil, *Block, or Expression
}

func (s *Setter) String() string {
	out := prefixJoin(s.Modifiers) + "set"
	if s.Body == nil {
		return out
	}
	if s.Parameter != nil {
		out += "(" + s.Parameter.String() + ")"
	} else {
		out += "()"
	}
	if s.Type != nil {
		out += ": " + s.Type.String()
	}
	return out + functionBodyString(s.Body)
}

type ParameterWithOptionalType struct {
	node
	Name string
	Type *Type
}

func (p *ParameterWithOptionalType) String() string {
	if p.Type != nil {
		return p.Name + ": " + p.Type.String()
	}
	return p.Name
}

type FunctionValueParameterWithOptionalType struct {
	node
	Modifiers []Modifier
	Parameter *ParameterWithOptionalType
	Default   Expression
}

func (f *FunctionValueParameterWithOptionalType) String() string {
	s := prefixJoin(f.Modifiers) + f.Parameter.String()
	if f.Default != nil {
		s += " = " + f.Default.String()
	}
	return s
}

type ParametersWithOptionalType struct {
	node
	Items []*FunctionValueParameterWithOptionalType
}

func (p *ParametersWithOptionalType) String() string { return "(" + join(p.Items, ", ") + ")" }

type ObjectDeclaration struct {
	node
	Modifiers  []Modifier
	Name       string
	Supertypes []*AnnotatedDelegationSpecifier
	Body       *ClassBody
}

func (o *ObjectDeclaration) String() string {
	var sb strings.Builder
	sb.WriteString(prefixJoin(o.Modifiers))
	sb.WriteString("object ")
	sb.WriteString(o.Name)
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

type SecondaryConstructor struct {
	node
	Modifiers  []Modifier
	Parameters FunctionValueParameters
	Delegation *ConstructorDelegationCall
	Body       *Block
}

func (s *SecondaryConstructor) String() string {
	var sb strings.Builder
	sb.WriteString(prefixJoin(s.Modifiers))
	sb.WriteString("constructor")
	sb.WriteString(s.Parameters.String())
	if s.Delegation != nil {
		sb.WriteString(" : ")
		sb.WriteString(s.Delegation.String())
	}
	if s.Body != nil {
		sb.WriteString(" ")
		sb.WriteString(s.Body.String())
	}
	return sb.String()
}

// ConstructorDelegationCall is the ": this(...)" or ": super(...)" part of
// a secondary constructor.
type ConstructorDelegationCall struct {
	node
	Delegate  string // "this" or "super"
	Arguments ValueArguments
}

func (c *ConstructorDelegationCall) String() string {
	return c.Delegate + c.Arguments.String()
}

type EnumClassBody struct {
	node
	Entries []*EnumEntry
	Members []ClassMember
}

func (e *EnumClassBody) String() string {
	if len(e.Entries) == 0 && len(e.Members) == 0 {
		return "{ }"
	}
	entries := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		entries[i] = indent(entry.String())
	}
	if len(e.Members) == 0 {
		return "{\n" + strings.Join(entries, ",\n") + "\n}"
	}
	members := make([]string, len(e.Members))
	for i, member := range e.Members {
		members[i] = indent(member.String())
	}
	return "{\n" + strings.Join(entries, ",\n") + ";\n\n" + strings.Join(members, "\n\n") + "\n}"
}

type EnumEntry struct {
	node
	Modifiers []Modifier
	Name      string
	Arguments ValueArguments
	Body      *ClassBody
}

func (e *EnumEntry) String() string {
	var sb strings.Builder
	sb.WriteString(prefixJoin(e.Modifiers))
	sb.WriteString(e.Name)
	if len(e.Arguments.Items) > 0 {
		sb.WriteString(e.Arguments.String())
	}
	if e.Body != nil {
		sb.WriteString(" ")
		sb.WriteString(e.Body.String())
	}
	return sb.String()
}

// KeywordModifier is a keyword used as a modifier, e.g. public, suspend,
// data, vararg, out.
type KeywordModifier struct {
	node
	Name string
}

func (k *KeywordModifier) String() string { return k.Name }

// Label names a loop, lambda, or jump target. It renders with its trailing
// "@".
type Label struct {
	node
	Name string
}

func (l *Label) String() string { return l.Name + "@" }

type UnescapedAnnotation struct {
	node
	Name      string
	Arguments ValueArguments
}

func (u *UnescapedAnnotation) String() string {
	if len(u.Arguments.Items) > 0 {
		return u.Name + u.Arguments.String()
	}
	return u.Name
}

// SingleAnnotation is "@Name(...)" with an optional use-site target, e.g.
// "@field:Name".
type SingleAnnotation struct {
	node
	Target     string
	Annotation *UnescapedAnnotation
}

func (s *SingleAnnotation) String() string {
	return annotationPrefix(s.Target) + s.Annotation.String()
}

// MultiAnnotation is "@[a b c]" with an optional use-site target.
type MultiAnnotation struct {
	node
	Target      string
	Annotations []*UnescapedAnnotation
}

func (m *MultiAnnotation) String() string {
	return annotationPrefix(m.Target) + "[" + join(m.Annotations, " ") + "]"
}

func annotationPrefix(target string) string {
	if target != "" {
		return "@" + target + ":"
	}
	return "@"
}

func (*TypeAlias) declaration()           {}
func (*ClassDeclaration) declaration()    {}
func (*FunctionDeclaration) declaration() {}
func (*PropertyDeclaration) declaration() {}
func (*ObjectDeclaration) declaration()   {}

func (*TypeAlias) classMember()            {}
func (*ClassDeclaration) classMember()     {}
func (*FunctionDeclaration) classMember()  {}
func (*PropertyDeclaration) classMember()  {}
func (*ObjectDeclaration) classMember()    {}
func (*CompanionObject) classMember()      {}
func (*AnonymousInitializer) classMember() {}
func (*SecondaryConstructor) classMember() {}

func (*KeywordModifier) modifier()  {}
func (*SingleAnnotation) modifier() {}
func (*MultiAnnotation) modifier()  {}

func (*SingleAnnotation) annotation() {}
func (*MultiAnnotation) annotation()  {}

func (*ConstructorInvocation) delegationSpecifier() {}
func (*ExplicitDelegation) delegationSpecifier()    {}
func (*UserType) delegationSpecifier()              {}
func (*FunctionType) delegationSpecifier()          {}
