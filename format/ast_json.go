package format

import (
	"fmt"
	"io"
	"reflect"

	"github.com/dhamidi/kotlyzer/kotlin/parser"
)

// ASTJSONEncoder writes the complete syntax tree as nested JSON objects, one
// object per node with its kind, source position, and non-empty fields.
type ASTJSONEncoder struct {
	w    io.Writer
	file *parser.KotlinFile
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(file *parser.KotlinFile) error {
	e.file = file
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	return marshalIndentNoEscape(nodeToJSON(e.file))
}

type astJSONNode struct {
	Kind     string          `json:"kind"`
	Position astJSONPosition `json:"position"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// nodeToJSON flattens a node through reflection: node kinds form a closed set
// of structs whose exported fields are other nodes, node slices, or plain
// strings and flags.
func nodeToJSON(n parser.Node) *astJSONNode {
	v := reflect.ValueOf(n)
	jn := &astJSONNode{
		Kind: v.Type().Elem().Name(),
		Position: astJSONPosition{
			Line:   n.Pos().Line,
			Column: n.Pos().Column,
		},
	}

	elem := v.Elem()
	t := elem.Type()
	fields := make(map[string]any)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		if value := fieldToJSON(elem.Field(i)); value != nil {
			fields[field.Name] = value
		}
	}
	if len(fields) > 0 {
		jn.Fields = fields
	}
	return jn
}

func fieldToJSON(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		if node, ok := v.Interface().(parser.Node); ok {
			return nodeToJSON(node)
		}
		return v.Interface()

	case reflect.Slice:
		if v.Len() == 0 {
			return nil
		}
		items := make([]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if value := fieldToJSON(v.Index(i)); value != nil {
				items = append(items, value)
			}
		}
		return items

	case reflect.Struct:
		// container fields held by value, e.g. type parameter lists
		if node, ok := v.Addr().Interface().(parser.Node); ok {
			return nodeToJSON(node)
		}
		return v.Interface()

	case reflect.String:
		if v.String() == "" {
			return nil
		}
		return v.String()

	case reflect.Bool:
		if !v.Bool() {
			return nil
		}
		return true

	default:
		if stringer, ok := v.Interface().(fmt.Stringer); ok {
			return stringer.String()
		}
		return v.Interface()
	}
}
