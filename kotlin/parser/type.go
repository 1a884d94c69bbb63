package parser

// Type is any type reference with optional modifiers, e.g.
// "suspend () -> Unit". Subtype is a *ParenthesizedType, *NullableType,
// *TypeReference, or *FunctionType.
type Type struct {
	node
	Modifiers []Modifier
	Subtype   Node
}

func (t *Type) String() string {
	if len(t.Modifiers) > 0 {
		return join(t.Modifiers, " ") + " " + t.Subtype.String()
	}
	return t.Subtype.String()
}

// TypeReference is a user type or the "dynamic" type.
type TypeReference struct {
	node
	UserType *UserType // nil when Dynamic
	Dynamic  bool
}

func (t *TypeReference) String() string {
	if t.Dynamic {
		return "dynamic"
	}
	return t.UserType.String()
}

// NullableType is a type followed by one or more "?" marks. Subtype is a
// *TypeReference or *ParenthesizedType; Quest holds the exact question
// marks.
type NullableType struct {
	node
	Subtype Node
	Quest   string
}

func (t *NullableType) String() string { return t.Subtype.String() + t.Quest }

type SimpleUserType struct {
	node
	Name     string
	Generics TypeArguments
}

func (t *SimpleUserType) String() string {
	if len(t.Generics.Items) > 0 {
		return t.Name + t.Generics.String()
	}
	return t.Name
}

// UserType is a dot-separated chain of simple user types, e.g.
// "Map.Entry<K, V>".
type UserType struct {
	node
	Items []*SimpleUserType
}

func (t *UserType) String() string { return join(t.Items, ".") }

// TypeProjection is a type argument: "*" or a type with optional variance
// modifiers.
type TypeProjection interface {
	Node
	typeProjection()
}

type TypeProjectionStar struct {
	node
}

func (t *TypeProjectionStar) String() string { return "*" }

type TypeProjectionWithType struct {
	node
	Modifiers []Modifier
	Type      *Type
}

func (t *TypeProjectionWithType) String() string {
	if len(t.Modifiers) > 0 {
		return join(t.Modifiers, " ") + " " + t.Type.String()
	}
	return t.Type.String()
}

func (*TypeProjectionStar) typeProjection()     {}
func (*TypeProjectionWithType) typeProjection() {}

type TypeArguments struct {
	node
	Items []TypeProjection
}

func (t *TypeArguments) String() string { return "<" + join(t.Items, ", ") + ">" }

// FunctionType is "(P1, P2) -> R" with an optional receiver.
type FunctionType struct {
	node
	Receiver   *ReceiverType
	Parameters FunctionTypeParameters
	Return     *Type
}

func (t *FunctionType) String() string {
	if t.Receiver != nil {
		return t.Receiver.String() + "." + t.Parameters.String() + " -> " + t.Return.String()
	}
	return t.Parameters.String() + " -> " + t.Return.String()
}

// FunctionTypeParameters holds *Parameter or *Type items.
type FunctionTypeParameters struct {
	node
	Items []Node
}

func (t *FunctionTypeParameters) String() string { return "(" + join(t.Items, ", ") + ")" }

type ParenthesizedType struct {
	node
	Type *Type
}

func (t *ParenthesizedType) String() string { return "(" + t.Type.String() + ")" }

// ReceiverType is the receiver of an extension declaration or callable
// reference. Subtype is a *ParenthesizedType, *NullableType, or
// *TypeReference.
type ReceiverType struct {
	node
	Modifiers []Modifier
	Subtype   Node
}

func (t *ReceiverType) String() string {
	if len(t.Modifiers) > 0 {
		return join(t.Modifiers, " ") + " " + t.Subtype.String()
	}
	return t.Subtype.String()
}
