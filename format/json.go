package format

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/dhamidi/kotlyzer/kotlin/parser"
)

// JSONEncoder writes a structural summary of the file: package, imports, and
// the declaration outline with names, kinds, and modifiers.
type JSONEncoder struct {
	w    io.Writer
	file *parser.KotlinFile
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(file *parser.KotlinFile) error {
	e.file = file
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return marshalIndentNoEscape(e.buildFileData())
}

// marshalIndentNoEscape is MarshalIndent without HTML escaping, so type
// names like List<String> stay readable in the output.
func marshalIndentNoEscape(data any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

type jsonFile struct {
	Package      string            `json:"package,omitempty"`
	Imports      []jsonImport      `json:"imports,omitempty"`
	Declarations []jsonDeclaration `json:"declarations,omitempty"`
}

type jsonImport struct {
	Name     string `json:"name"`
	Wildcard bool   `json:"wildcard,omitempty"`
	Alias    string `json:"alias,omitempty"`
}

type jsonDeclaration struct {
	Kind       string            `json:"kind"`
	Name       string            `json:"name,omitempty"`
	Modifiers  []string          `json:"modifiers,omitempty"`
	Parameters []string          `json:"parameters,omitempty"`
	Type       string            `json:"type,omitempty"`
	Line       int               `json:"line"`
	Members    []jsonDeclaration `json:"members,omitempty"`
}

func (e *JSONEncoder) buildFileData() jsonFile {
	data := jsonFile{}
	if e.file.Package != nil {
		data.Package = e.file.Package.Name
	}
	for _, imp := range e.file.Imports {
		data.Imports = append(data.Imports, jsonImport{
			Name:     imp.Name,
			Wildcard: imp.Wildcard,
			Alias:    imp.Alias,
		})
	}
	for _, decl := range e.file.Declarations {
		data.Declarations = append(data.Declarations, buildMemberData(decl))
	}
	return data
}

func buildMemberData(member parser.ClassMember) jsonDeclaration {
	switch d := member.(type) {
	case *parser.ClassDeclaration:
		data := jsonDeclaration{
			Kind:      classKindLabel(d),
			Name:      d.Name,
			Modifiers: modifierNames(d.Modifiers),
			Line:      d.Pos().Line,
		}
		for _, inner := range classMembers(d) {
			data.Members = append(data.Members, buildMemberData(inner))
		}
		return data

	case *parser.ObjectDeclaration:
		data := jsonDeclaration{
			Kind:      "object",
			Name:      d.Name,
			Modifiers: modifierNames(d.Modifiers),
			Line:      d.Pos().Line,
		}
		if d.Body != nil {
			for _, inner := range d.Body.Members {
				data.Members = append(data.Members, buildMemberData(inner))
			}
		}
		return data

	case *parser.FunctionDeclaration:
		data := jsonDeclaration{
			Kind:      "fun",
			Name:      d.Name,
			Modifiers: modifierNames(d.Modifiers),
			Line:      d.Pos().Line,
		}
		for _, param := range d.Parameters.Items {
			data.Parameters = append(data.Parameters, param.Name())
		}
		if d.Type != nil {
			data.Type = d.Type.String()
		}
		return data

	case *parser.PropertyDeclaration:
		data := jsonDeclaration{
			Kind:      d.Mutability,
			Name:      propertyName(d),
			Modifiers: modifierNames(d.Modifiers),
			Line:      d.Pos().Line,
		}
		if variable, ok := d.Declaration.(*parser.VariableDeclaration); ok && variable.Type != nil {
			data.Type = variable.Type.String()
		}
		return data

	case *parser.TypeAlias:
		return jsonDeclaration{
			Kind:      "typealias",
			Name:      d.Name,
			Modifiers: modifierNames(d.Modifiers),
			Type:      d.Type.String(),
			Line:      d.Pos().Line,
		}

	case *parser.CompanionObject:
		data := jsonDeclaration{
			Kind:      "companion object",
			Name:      d.Name,
			Modifiers: modifierNames(d.Modifiers),
			Line:      d.Pos().Line,
		}
		if d.Body != nil {
			for _, inner := range d.Body.Members {
				data.Members = append(data.Members, buildMemberData(inner))
			}
		}
		return data

	case *parser.SecondaryConstructor:
		data := jsonDeclaration{
			Kind:      "constructor",
			Modifiers: modifierNames(d.Modifiers),
			Line:      d.Pos().Line,
		}
		for _, param := range d.Parameters.Items {
			data.Parameters = append(data.Parameters, param.Name())
		}
		return data

	case *parser.AnonymousInitializer:
		return jsonDeclaration{Kind: "init", Line: d.Pos().Line}

	default:
		return jsonDeclaration{Kind: "declaration", Line: member.Pos().Line}
	}
}
