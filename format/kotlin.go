package format

import (
	"io"

	"github.com/dhamidi/kotlyzer/kotlin/parser"
)

// KotlinEncoder renders the file back to canonical Kotlin source: the
// unparse of the tree with normalized whitespace and a trailing newline.
type KotlinEncoder struct {
	w    io.Writer
	file *parser.KotlinFile
}

func NewKotlinEncoder(w io.Writer) *KotlinEncoder {
	return &KotlinEncoder{w: w}
}

func (e *KotlinEncoder) Encode(file *parser.KotlinFile) error {
	e.file = file
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *KotlinEncoder) MarshalText() ([]byte, error) {
	return []byte(e.file.String() + "\n"), nil
}
