package parser

import (
	"errors"
	"testing"
)

// Canonical sources: rendering the parse tree reproduces the input exactly.
func TestParseRoundTrip(t *testing.T) {
	tests := []string{
		"fun main() { }",
		"fun plusOne(x: Int) = x + 1",
		"fun <T> first(items: List<T>): T = items.first()",
		"fun String.shout(): String = this + \"!\"",
		"val answer = 42",
		"var counter: Int = 0",
		"val greeting = \"Hello, ${user.name}!\"",
		"val doubled = items.map { it * 2 }.filter { it > 0 }",
		"val settings by lazy { loadSettings() }",
		"val config: Map<String, Int> get() = loadConfig()",
		"class Point(val x: Int, val y: Int)",
		"data class User(val name: String, val age: Int = 0)",
		"interface Shape { }",
		"object Registry { }",
		"typealias Callback = (Int) -> Unit",
		"@Deprecated(\"use other\")\n\nfun old() { }",

		"package com.example\n\n" +
			"import java.util.List\n" +
			"import kotlin.collections.*\n" +
			"import java.util.Set as JSet\n\n" +
			"fun main() { }",

		"enum class Color {\n" +
			"    RED,\n" +
			"    GREEN,\n" +
			"    BLUE\n" +
			"}",

		"class Stack<T> {\n" +
			"    private val items = mutableListOf<T>()\n\n" +
			"    fun push(item: T) {\n" +
			"        items.add(item)\n" +
			"    }\n\n" +
			"    fun pop(): T = items.removeAt(items.size - 1)\n" +
			"}",

		"class Counter {\n" +
			"    var count = 0\n" +
			"        private set\n" +
			"}",

		"class Factory {\n" +
			"    companion object {\n" +
			"        fun create(): Factory = Factory()\n" +
			"    }\n" +
			"}",

		"class Line {\n" +
			"    constructor(length: Int) { }\n" +
			"}",

		"class Base {\n" +
			"    open fun greet() { }\n" +
			"}\n\n" +
			"class Derived : Base() {\n" +
			"    override fun greet() {\n" +
			"        super.greet()\n" +
			"    }\n" +
			"}",

		"fun describe(x: Int): String = when (x) {\n" +
			"    0 -> \"zero\"\n" +
			"    in 1 .. 9 -> \"small\"\n" +
			"    else -> \"big\"\n" +
			"}",

		"fun max(a: Int, b: Int): Int = if (a > b) a else b",

		"fun risky() {\n" +
			"    try {\n" +
			"        work()\n" +
			"    } catch (e: Exception) {\n" +
			"        log(e)\n" +
			"    } finally {\n" +
			"        cleanup()\n" +
			"    }\n" +
			"}",

		"fun count() {\n" +
			"    for (i in 1 .. 10) {\n" +
			"        println(i)\n" +
			"    }\n" +
			"}",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			file, err := NewParser(input).Parse()
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := file.String(); got != input {
				t.Errorf("String() = %q, want %q", got, input)
			}
		})
	}
}

func TestParseFileStructure(t *testing.T) {
	input := "#!/usr/bin/env kotlin\n\n" +
		"package com.example.app\n\n" +
		"import java.util.List\n" +
		"import kotlin.collections.*\n\n" +
		"fun main() { }\n\n" +
		"val version = 1\n"

	file, err := NewParser(input).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if file.Shebang == nil || file.Shebang.Value != "#!/usr/bin/env kotlin" {
		t.Errorf("Shebang = %v", file.Shebang)
	}
	if file.Package == nil || file.Package.Name != "com.example.app" {
		t.Errorf("Package = %v", file.Package)
	}
	if len(file.Imports) != 2 {
		t.Fatalf("got %d imports, want 2", len(file.Imports))
	}
	if file.Imports[0].Name != "java.util.List" || file.Imports[0].Wildcard {
		t.Errorf("import 0 = %v", file.Imports[0])
	}
	if file.Imports[1].Name != "kotlin.collections" || !file.Imports[1].Wildcard {
		t.Errorf("import 1 = %v", file.Imports[1])
	}
	if len(file.Declarations) != 2 {
		t.Fatalf("got %d declarations, want 2", len(file.Declarations))
	}
	if _, ok := file.Declarations[0].(*FunctionDeclaration); !ok {
		t.Errorf("declaration 0 = %T, want *FunctionDeclaration", file.Declarations[0])
	}
	if _, ok := file.Declarations[1].(*PropertyDeclaration); !ok {
		t.Errorf("declaration 1 = %T, want *PropertyDeclaration", file.Declarations[1])
	}
}

func TestParseImportAlias(t *testing.T) {
	file, err := NewParser("import java.util.Set as JSet\n\nfun main() { }").Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	imp := file.Imports[0]
	if imp.Name != "java.util.Set" {
		t.Errorf("Name = %q", imp.Name)
	}
	if imp.Alias != "JSet" {
		t.Errorf("Alias = %q", imp.Alias)
	}
}

func TestParseScript(t *testing.T) {
	input := "val x = 1\nprintln(x)"
	script, err := NewParser(input).ParseScript()
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if len(script.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(script.Statements))
	}
	if got := script.String(); got != input {
		t.Errorf("String() = %q, want %q", got, input)
	}
}

func TestParseClassDeclaration(t *testing.T) {
	tests := []struct {
		input string
		kind  ClassKind
	}{
		{"class Foo", KindClass},
		{"interface Foo", KindInterface},
		{"fun interface Transformer { }", KindFunInterface},
		{"enum class Color { }", KindEnum},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			decl, err := NewParser(tt.input).ParseClassDeclaration()
			if err != nil {
				t.Fatalf("ParseClassDeclaration: %v", err)
			}
			if decl.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", decl.Kind, tt.kind)
			}
		})
	}
}

func TestParseEnumWithMembers(t *testing.T) {
	input := "enum class Planet {\n" +
		"    EARTH(1.0),\n" +
		"    MARS(0.38);\n\n" +
		"    fun weight(mass: Double): Double = mass * gravity\n" +
		"}"

	decl, err := NewParser(input).ParseClassDeclaration()
	if err != nil {
		t.Fatalf("ParseClassDeclaration: %v", err)
	}
	if decl.EnumBody == nil {
		t.Fatal("EnumBody is nil")
	}
	if len(decl.EnumBody.Entries) != 2 {
		t.Errorf("got %d entries, want 2", len(decl.EnumBody.Entries))
	}
	if len(decl.EnumBody.Members) != 1 {
		t.Errorf("got %d members, want 1", len(decl.EnumBody.Members))
	}
	if got := decl.String(); got != input {
		t.Errorf("String() = %q, want %q", got, input)
	}
}

func TestParsePropertyAccessors(t *testing.T) {
	input := "var observed: Int = 0\n" +
		"    get() = field\n" +
		"    set(value) {\n" +
		"        field = value\n" +
		"    }"

	decl, err := NewParser(input).ParsePropertyDeclaration()
	if err != nil {
		t.Fatalf("ParsePropertyDeclaration: %v", err)
	}
	if decl.Getter == nil {
		t.Error("Getter is nil")
	}
	if decl.Setter == nil {
		t.Error("Setter is nil")
	}
	if decl.Mutability != "var" {
		t.Errorf("Mutability = %q, want %q", decl.Mutability, "var")
	}
}

func TestParseFunctionDeclarationShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, fn *FunctionDeclaration)
	}{
		{
			"abstract body",
			"fun compute(): Int",
			func(t *testing.T, fn *FunctionDeclaration) {
				if fn.Body != nil {
					t.Errorf("Body = %v, want nil", fn.Body)
				}
			},
		},
		{
			"block body",
			"fun run() { work() }",
			func(t *testing.T, fn *FunctionDeclaration) {
				if _, ok := fn.Body.(*Block); !ok {
					t.Errorf("Body = %T, want *Block", fn.Body)
				}
			},
		},
		{
			"expression body",
			"fun run() = work()",
			func(t *testing.T, fn *FunctionDeclaration) {
				if _, ok := fn.Body.(Expression); !ok {
					t.Errorf("Body = %T, want Expression", fn.Body)
				}
			},
		},
		{
			"receiver",
			"fun Int.double() = this * 2",
			func(t *testing.T, fn *FunctionDeclaration) {
				if fn.Receiver == nil {
					t.Fatal("Receiver is nil")
				}
				if fn.Name != "double" {
					t.Errorf("Name = %q, want %q", fn.Name, "double")
				}
			},
		},
		{
			"generics and constraints",
			"fun <T> sort(items: List<T>) where T : Comparable { }",
			func(t *testing.T, fn *FunctionDeclaration) {
				if len(fn.Generics.Items) != 1 {
					t.Errorf("got %d type parameters, want 1", len(fn.Generics.Items))
				}
				if len(fn.Constraints.Items) != 1 {
					t.Errorf("got %d constraints, want 1", len(fn.Constraints.Items))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := NewParser(tt.input).ParseFunctionDeclaration()
			if err != nil {
				t.Fatalf("ParseFunctionDeclaration: %v", err)
			}
			tt.check(t, fn)
		})
	}
}

func TestParseTypes(t *testing.T) {
	tests := []string{
		"Int",
		"List<String>",
		"Map<String, List<Int>>",
		"String?",
		"Map<String, Int>?",
		"(Int) -> Unit",
		"(Int, String) -> Boolean",
		"String.(Int) -> Unit",
		"suspend () -> Unit",
		"List<*>",
		"List<out Number>",
		"dynamic",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			parsed, err := NewParser(input).ParseType()
			if err != nil {
				t.Fatalf("ParseType: %v", err)
			}
			if got := parsed.String(); got != input {
				t.Errorf("String() = %q, want %q", got, input)
			}
		})
	}
}

func TestParseAnnotations(t *testing.T) {
	tests := []struct {
		input  string
		target string
	}{
		{"@Test", ""},
		{"@Deprecated(\"gone\")", ""},
		{"@field:Inject", "field"},
		{"@get:JvmName(\"width\")", "get"},
		{"@[Fast Slow]", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			annotation, err := NewParser(tt.input).ParseAnnotation()
			if err != nil {
				t.Fatalf("ParseAnnotation: %v", err)
			}
			var target string
			switch a := annotation.(type) {
			case *SingleAnnotation:
				target = a.Target
			case *MultiAnnotation:
				target = a.Target
			}
			if target != tt.target {
				t.Errorf("Target = %q, want %q", target, tt.target)
			}
			if got := annotation.String(); got != tt.input {
				t.Errorf("String() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"missing class name",
			"class {",
			"expecting Identifier token, but found '{' at line 1 column 7",
		},
		{
			"missing closing paren",
			"fun f(x: Int { }",
			"expecting ')', but found '{' at line 1 column 14",
		},
		{
			"unterminated string",
			`val s = "abc`,
			`expecting a primary expression, but found '"abc' at line 1 column 9`,
		},
		{
			"missing value",
			"val x =",
			"expecting a primary expression, but reached end of file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(tt.input).Parse()
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			if got := err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := NewParser("fun f() {\n    val = 1\n}").Parse()
	if err == nil {
		t.Fatal("Parse succeeded, want error")
	}

	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("error is %T, want *SyntaxError", err)
	}
	if serr.Position.Line != 2 {
		t.Errorf("Line = %d, want 2", serr.Position.Line)
	}
}

func TestParseDestructuringRestrictions(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"type annotation", "val (x, y): Pair = point"},
		{"receiver", "val Pair.(x, y) = point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewParser(tt.input).ParsePropertyDeclaration(); err == nil {
				t.Error("ParsePropertyDeclaration succeeded, want error")
			}
		})
	}
}
