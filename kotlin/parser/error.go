package parser

import "fmt"

// SyntaxError is the parse failure reported by every entry point. Parsing is
// fail-fast: the first error aborts with no recovery and no partial tree.
type SyntaxError struct {
	Position Position
	Expected string
	Found    string // token text; empty at end of input
	Message  string // set for failures that are not "expecting" mismatches
}

func (e *SyntaxError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Found == "" {
		return fmt.Sprintf("expecting %s, but reached end of file", e.Expected)
	}
	return fmt.Sprintf("expecting %s, but found '%s' at %s", e.Expected, e.Found, e.Position)
}
