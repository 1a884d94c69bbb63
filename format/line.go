package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/kotlyzer/kotlin/parser"
)

// LineEncoder writes one tab-separated line per declaration: kind, dotted
// name, and source line. The output is meant for grep and cut.
type LineEncoder struct {
	w    io.Writer
	file *parser.KotlinFile
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(file *parser.KotlinFile) error {
	e.file = file
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, decl := range e.file.Declarations {
		writeMemberLine(&sb, decl, "")
	}
	return []byte(sb.String()), nil
}

func writeMemberLine(sb *strings.Builder, member parser.ClassMember, prefix string) {
	line := func(kind, name string) {
		fmt.Fprintf(sb, "%s\t%s\t%d\n", kind, name, member.Pos().Line)
	}

	switch d := member.(type) {
	case *parser.ClassDeclaration:
		line(classKindLabel(d), prefix+d.Name)
		for _, inner := range classMembers(d) {
			writeMemberLine(sb, inner, prefix+d.Name+".")
		}
	case *parser.ObjectDeclaration:
		line("object", prefix+d.Name)
		if d.Body != nil {
			for _, inner := range d.Body.Members {
				writeMemberLine(sb, inner, prefix+d.Name+".")
			}
		}
	case *parser.CompanionObject:
		name := d.Name
		if name == "" {
			name = "Companion"
		}
		line("companion", prefix+name)
		if d.Body != nil {
			for _, inner := range d.Body.Members {
				writeMemberLine(sb, inner, prefix+name+".")
			}
		}
	case *parser.FunctionDeclaration:
		line("fun", prefix+d.Name)
	case *parser.PropertyDeclaration:
		line(d.Mutability, prefix+propertyName(d))
	case *parser.TypeAlias:
		line("typealias", prefix+d.Name)
	case *parser.SecondaryConstructor:
		line("constructor", strings.TrimSuffix(prefix, "."))
	case *parser.AnonymousInitializer:
		line("init", strings.TrimSuffix(prefix, "."))
	}
}
