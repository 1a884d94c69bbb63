// Package parser parses Kotlin source code into a typed syntax tree.
//
// # Overview
//
// The input is tokenized up front by a total lexer: malformed regions become
// Invalid tokens instead of errors, so tokenization always succeeds on any
// string. The parser is a recursive-descent parser over the token slice with
// bounded lookahead and local backtracking. It is fail-fast: a parse either
// yields a complete tree or the first *SyntaxError, never a partial result.
//
// # Entry Points
//
// NewParser builds a parser over a source string. Parse and ParseScript
// consume the whole input as a file or script; the fragment entry points
// (ParseDeclaration, ParseExpression, ParseStatement, ParseType, and
// friends) parse a prefix and ignore trailing input.
//
//	file, err := parser.NewParser(code).Parse()
//	if err != nil {
//	    var syntaxErr *parser.SyntaxError
//	    errors.As(err, &syntaxErr) // position, expected, found
//	}
//
// # Syntax Tree
//
// Each node kind is its own struct carrying the Position of its first token.
// Groups of kinds are closed sums expressed as marker interfaces
// (Declaration, Expression, ClassMember, Modifier, and so on); switching
// over a sum covers every variant.
//
// Every node renders itself back to source through String(). The rendering
// is canonical: 4-space indent, normalized spacing, one blank line between
// declarations. Parsing canonical source and rendering the tree reproduces
// the input exactly, which is what the round-trip tests assert.
//
// # Thread Safety
//
// A Parser instance is not safe for concurrent use. Create separate
// instances for concurrent parsing of different files.
package parser
