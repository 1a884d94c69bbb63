package parser

import (
	"fmt"
	"strings"
	"testing"
)

func parseExpr(t *testing.T, input string) Expression {
	t.Helper()
	expr, err := NewParser(input).ParseExpression()
	if err != nil {
		t.Fatalf("ParseExpression(%q): %v", input, err)
	}
	return expr
}

func TestParseExpressionShapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "*parser.LiteralConstant"},
		{"x", "*parser.Identifier"},
		{`"text"`, "*parser.StringLiteral"},
		{"x + y", "*parser.BinaryExpression"},
		{"a || b", "*parser.BinaryExpression"},
		{"x ?: y", "*parser.BinaryExpression"},
		{"a..b", "*parser.BinaryExpression"},
		{"a to b", "*parser.BinaryExpression"},
		{"x is String", "*parser.TypeOperation"},
		{"x as? Int", "*parser.TypeOperation"},
		{"-x", "*parser.PrefixUnaryExpression"},
		{"!done", "*parser.PrefixUnaryExpression"},
		{"i++", "*parser.PostfixUnaryExpression"},
		{"x!!", "*parser.PostfixUnaryExpression"},
		{"user?.name", "*parser.PostfixUnaryExpression"},
		{"f(1)", "*parser.PostfixUnaryExpression"},
		{"arr[0]", "*parser.PostfixUnaryExpression"},
		{"(x)", "*parser.ParenthesizedExpression"},
		{"[1, 2]", "*parser.CollectionLiteral"},
		{"{ it * 2 }", "*parser.LambdaLiteral"},
		{"fun(x: Int) = x", "*parser.AnonymousFunction"},
		{"object : Runnable { }", "*parser.ObjectLiteral"},
		{"this", "*parser.ThisExpression"},
		{"super", "*parser.SuperExpression"},
		{"if (a) b else c", "*parser.IfExpression"},
		{"when (x) { else -> 0 }", "*parser.WhenExpression"},
		{"try { } finally { }", "*parser.TryExpression"},
		{"throw error", "*parser.ThrowExpression"},
		{"return result", "*parser.ReturnExpression"},
		{"break", "*parser.BreakExpression"},
		{"continue", "*parser.ContinueExpression"},
		{"::println", "*parser.CallableReference"},
		{"Foo::class", "*parser.CallableReference"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr := parseExpr(t, tt.input)
			if got := fmt.Sprintf("%T", expr); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	t.Run("multiplication binds tighter", func(t *testing.T) {
		sum, ok := parseExpr(t, "1 + 2 * 3").(*BinaryExpression)
		if !ok || sum.Operator != "+" {
			t.Fatalf("top = %v", sum)
		}
		product, ok := sum.Right.(*BinaryExpression)
		if !ok || product.Operator != "*" {
			t.Errorf("right = %v, want a * node", sum.Right)
		}
	})

	t.Run("conjunction binds tighter than disjunction", func(t *testing.T) {
		or, ok := parseExpr(t, "a || b && c").(*BinaryExpression)
		if !ok || or.Operator != "||" {
			t.Fatalf("top = %v", or)
		}
		and, ok := or.Right.(*BinaryExpression)
		if !ok || and.Operator != "&&" {
			t.Errorf("right = %v, want a && node", or.Right)
		}
	})

	t.Run("comparison binds tighter than equality", func(t *testing.T) {
		eq, ok := parseExpr(t, "a < b == c < d").(*BinaryExpression)
		if !ok || eq.Operator != "==" {
			t.Fatalf("top = %v", eq)
		}
	})

	t.Run("binary operators associate left", func(t *testing.T) {
		diff, ok := parseExpr(t, "a - b - c").(*BinaryExpression)
		if !ok {
			t.Fatal("not a binary expression")
		}
		left, ok := diff.Left.(*BinaryExpression)
		if !ok || left.String() != "a - b" {
			t.Errorf("left = %v, want a - b", diff.Left)
		}
	})

	t.Run("parentheses override", func(t *testing.T) {
		product, ok := parseExpr(t, "(1 + 2) * 3").(*BinaryExpression)
		if !ok || product.Operator != "*" {
			t.Fatalf("top = %v", product)
		}
		if _, ok := product.Left.(*ParenthesizedExpression); !ok {
			t.Errorf("left = %T, want *ParenthesizedExpression", product.Left)
		}
	})

	t.Run("infix call binds tighter than elvis", func(t *testing.T) {
		elvis, ok := parseExpr(t, "a to b ?: c").(*BinaryExpression)
		if !ok || elvis.Operator != "?:" {
			t.Fatalf("top = %v", elvis)
		}
		pair, ok := elvis.Left.(*BinaryExpression)
		if !ok || pair.Operator != "to" {
			t.Errorf("left = %v, want a to node", elvis.Left)
		}
	})
}

func TestParsePostfixSuffixes(t *testing.T) {
	postfix, ok := parseExpr(t, "repo.users[0].name?.length").(*PostfixUnaryExpression)
	if !ok {
		t.Fatal("not a postfix expression")
	}

	wants := []string{
		"*parser.NavigationSuffix",
		"*parser.IndexingSuffix",
		"*parser.NavigationSuffix",
		"*parser.NavigationSuffix",
	}
	if len(postfix.Suffixes) != len(wants) {
		t.Fatalf("got %d suffixes, want %d", len(postfix.Suffixes), len(wants))
	}
	for i, want := range wants {
		if got := fmt.Sprintf("%T", postfix.Suffixes[i]); got != want {
			t.Errorf("suffix %d: got %s, want %s", i, got, want)
		}
	}

	last := postfix.Suffixes[3].(*NavigationSuffix)
	if last.Operator != "?." {
		t.Errorf("Operator = %q, want %q", last.Operator, "?.")
	}
}

func TestParseCallSuffixForms(t *testing.T) {
	tests := []struct {
		input        string
		hasArguments bool
		hasLambda    bool
	}{
		{"f()", true, false},
		{"f(1, 2)", true, false},
		{"f { }", false, true},
		{"f() { }", true, true},
		{"f<Int>(1)", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			postfix, ok := parseExpr(t, tt.input).(*PostfixUnaryExpression)
			if !ok {
				t.Fatal("not a postfix expression")
			}
			call, ok := postfix.Suffixes[len(postfix.Suffixes)-1].(*CallSuffix)
			if !ok {
				t.Fatalf("last suffix = %T, want *CallSuffix", postfix.Suffixes[len(postfix.Suffixes)-1])
			}
			if (call.Arguments != nil) != tt.hasArguments {
				t.Errorf("Arguments = %v, want present=%v", call.Arguments, tt.hasArguments)
			}
			if (call.Lambda != nil) != tt.hasLambda {
				t.Errorf("Lambda = %v, want present=%v", call.Lambda, tt.hasLambda)
			}
		})
	}
}

func TestParseValueArgumentForms(t *testing.T) {
	postfix := parseExpr(t, "f(named = 1, *spread, plain)").(*PostfixUnaryExpression)
	call := postfix.Suffixes[0].(*CallSuffix)
	args := call.Arguments.Items

	if len(args) != 3 {
		t.Fatalf("got %d arguments, want 3", len(args))
	}
	if args[0].Name != "named" {
		t.Errorf("argument 0 Name = %q, want %q", args[0].Name, "named")
	}
	if !args[1].Spread {
		t.Error("argument 1 Spread = false, want true")
	}
	if args[2].Name != "" || args[2].Spread {
		t.Errorf("argument 2 = %v, want plain", args[2])
	}
}

func TestParseLiteralKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  LiteralKind
	}{
		{"42", LiteralInteger},
		{"0xFF", LiteralHex},
		{"0b101", LiteralBin},
		{"42u", LiteralUnsigned},
		{"42L", LiteralLong},
		{"1.5f", LiteralFloat},
		{"1.5", LiteralDouble},
		{"true", LiteralBoolean},
		{"null", LiteralNull},
		{"'c'", LiteralCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			literal, ok := parseExpr(t, tt.input).(*LiteralConstant)
			if !ok {
				t.Fatal("not a literal constant")
			}
			if literal.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", literal.Kind, tt.kind)
			}
			if literal.Value != tt.input {
				t.Errorf("Value = %q, want %q", literal.Value, tt.input)
			}
		})
	}
}

func TestExpressionRoundTrip(t *testing.T) {
	tests := []string{
		"1 + 2 * 3",
		"(1 + 2) * 3",
		"a && b || c",
		"x ?: fallback",
		"a .. b",
		"a to b",
		"x as? Int",
		"x is String",
		"x !is String",
		"list[0]",
		"f(1, 2)",
		"f(named = 1)",
		"f(*values)",
		"user?.name",
		"x!!",
		"-x",
		"!done",
		"i++",
		"Foo::class",
		"::println",
		"items.map { it * 2 }",
		"items.fold(0) { acc, n -> acc + n }",
		"{ x: Int, y: Int -> x + y }",
		"if (a > b) a else b",
		"try { } catch (e: Exception) { }",
		"object : Runnable { }",
		"fun(x: Int): Int = x",
		"this@Outer",
		"super.toString()",
		"throw IllegalStateException(\"bad\")",
		"return@map value",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expr := parseExpr(t, input)
			if got := expr.String(); got != input {
				t.Errorf("String() = %q, want %q", got, input)
			}
		})
	}
}

// Deep paren nesting must stay cheap: every '('-led alternative (function
// type, nullable type, parenthesized type, callable-reference receiver)
// retries the same interior, and without caching the retries multiply per
// level. At this depth an exponential parser never finishes.
func TestParseDeeplyNestedParens(t *testing.T) {
	const depth = 50

	expr := strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth)
	if got := parseExpr(t, expr).String(); got != expr {
		t.Errorf("String() = %q, want %q", got, expr)
	}

	typ := strings.Repeat("(", depth) + "Int" + strings.Repeat(")", depth)
	parsed, err := NewParser(typ).ParseType()
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if got := parsed.String(); got != typ {
		t.Errorf("String() = %q, want %q", got, typ)
	}

	stmt := "val x = " + expr
	statement, err := NewParser(stmt).ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	if _, ok := statement.Statement.(*PropertyDeclaration); !ok {
		t.Errorf("Statement = %T, want *parser.PropertyDeclaration", statement.Statement)
	}
}

func TestParseStatementShapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"x = 1", "*parser.Assignment"},
		{"x += 1", "*parser.Assignment"},
		{"total -= n", "*parser.Assignment"},
		{"for (i in items) { }", "*parser.ForStatement"},
		{"while (running) { }", "*parser.WhileStatement"},
		{"do { } while (running)", "*parser.DoWhileStatement"},
		{"val x = 1", "*parser.PropertyDeclaration"},
		{"fun local() { }", "*parser.FunctionDeclaration"},
		{"println(x)", "*parser.PostfixUnaryExpression"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			statement, err := NewParser(tt.input).ParseStatement()
			if err != nil {
				t.Fatalf("ParseStatement: %v", err)
			}
			if got := fmt.Sprintf("%T", statement.Statement); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestStatementRoundTrip(t *testing.T) {
	tests := []string{
		"x = 1",
		"x += 1",
		"x.y = f()",
		"for (i in items) { }",
		"for ((k, v) in entries) { }",
		"while (running) { }",
		"do { } while (running)",
		"loop@ for (i in items) { }",
		"val (x, y) = point",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			statement, err := NewParser(input).ParseStatement()
			if err != nil {
				t.Fatalf("ParseStatement: %v", err)
			}
			if got := statement.String(); got != input {
				t.Errorf("String() = %q, want %q", got, input)
			}
		})
	}
}

func TestParseStatementLabels(t *testing.T) {
	statement, err := NewParser("outer@ while (true) { }").ParseStatement()
	if err != nil {
		t.Fatalf("ParseStatement: %v", err)
	}
	if len(statement.Labels) != 1 {
		t.Fatalf("got %d labels, want 1", len(statement.Labels))
	}
	if statement.Labels[0].Name != "outer" {
		t.Errorf("Name = %q, want %q", statement.Labels[0].Name, "outer")
	}
}

func TestParseAssignmentTargets(t *testing.T) {
	tests := []struct {
		input    string
		operator string
	}{
		{"x = 1", "="},
		{"x.y = 1", "="},
		{"arr[0] = 1", "="},
		{"x += 1", "+="},
		{"x %= 2", "%="},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assignment, err := NewParser(tt.input).ParseAssignment()
			if err != nil {
				t.Fatalf("ParseAssignment: %v", err)
			}
			if assignment.Operator != tt.operator {
				t.Errorf("Operator = %q, want %q", assignment.Operator, tt.operator)
			}
		})
	}
}

func TestParseBlock(t *testing.T) {
	input := "{\n    val x = 1\n    println(x)\n}"
	block, err := NewParser(input).ParseBlock()
	if err != nil {
		t.Fatalf("ParseBlock: %v", err)
	}
	if len(block.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(block.Statements))
	}
	if got := block.String(); got != input {
		t.Errorf("String() = %q, want %q", got, input)
	}
}

func TestParseWhenEntries(t *testing.T) {
	input := "when (x) {\n" +
		"    0, 1 -> \"low\"\n" +
		"    in 2 .. 9 -> \"mid\"\n" +
		"    is String -> \"text\"\n" +
		"    else -> \"other\"\n" +
		"}"

	when, ok := parseExpr(t, input).(*WhenExpression)
	if !ok {
		t.Fatal("not a when expression")
	}
	if when.Subject == nil {
		t.Error("Subject is nil")
	}
	if len(when.Entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(when.Entries))
	}

	multi := when.Entries[0].(*WhenConditionEntry)
	if len(multi.Conditions) != 2 {
		t.Errorf("got %d conditions, want 2", len(multi.Conditions))
	}
	if _, ok := when.Entries[1].(*WhenConditionEntry).Conditions[0].(*RangeTest); !ok {
		t.Error("entry 1 condition is not a range test")
	}
	if _, ok := when.Entries[2].(*WhenConditionEntry).Conditions[0].(*TypeTest); !ok {
		t.Error("entry 2 condition is not a type test")
	}
	if _, ok := when.Entries[3].(*WhenElseEntry); !ok {
		t.Error("entry 3 is not an else entry")
	}

	if got := when.String(); got != input {
		t.Errorf("String() = %q, want %q", got, input)
	}
}

func TestParseWhenSubjectDeclaration(t *testing.T) {
	when, ok := parseExpr(t, "when (val code = status()) { else -> code }").(*WhenExpression)
	if !ok {
		t.Fatal("not a when expression")
	}
	if when.Subject == nil || when.Subject.Declaration == nil {
		t.Fatal("subject declaration is nil")
	}
	if when.Subject.Declaration.Name != "code" {
		t.Errorf("Name = %q, want %q", when.Subject.Declaration.Name, "code")
	}
}
