package format

import (
	"encoding"

	"github.com/dhamidi/kotlyzer/kotlin/parser"
)

// Encoder renders a parsed Kotlin file to an output format.
type Encoder interface {
	encoding.TextMarshaler
	Encode(file *parser.KotlinFile) error
}

func classKindLabel(decl *parser.ClassDeclaration) string {
	switch decl.Kind {
	case parser.KindInterface:
		return "interface"
	case parser.KindFunInterface:
		return "fun interface"
	case parser.KindEnum:
		return "enum class"
	default:
		return "class"
	}
}

// propertyName returns the declared name, or the full "(a, b)" form for a
// destructuring declaration.
func propertyName(decl *parser.PropertyDeclaration) string {
	if variable, ok := decl.Declaration.(*parser.VariableDeclaration); ok {
		return variable.Name
	}
	return decl.Declaration.String()
}

func classMembers(decl *parser.ClassDeclaration) []parser.ClassMember {
	if decl.Body != nil {
		return decl.Body.Members
	}
	if decl.EnumBody != nil {
		return decl.EnumBody.Members
	}
	return nil
}

func modifierNames(modifiers []parser.Modifier) []string {
	names := make([]string, len(modifiers))
	for i, modifier := range modifiers {
		names[i] = modifier.String()
	}
	return names
}
