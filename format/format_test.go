package format

import (
	"strings"
	"testing"

	"github.com/dhamidi/kotlyzer/kotlin/parser"
)

const sampleSource = `package com.example

import kotlin.collections.List

class Repository {
    val items: List<String> = load()

    fun add(item: String) {
        save(item)
    }
}

fun main() {
    println("ok")
}`

func parseSample(t *testing.T) *parser.KotlinFile {
	t.Helper()
	file, err := parser.NewParser(sampleSource).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return file
}

func TestKotlinEncoderRoundTrip(t *testing.T) {
	file := parseSample(t)

	var sb strings.Builder
	if err := NewKotlinEncoder(&sb).Encode(file); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := sampleSource + "\n"
	if sb.String() != want {
		t.Errorf("Encode =\n%s\nwant\n%s", sb.String(), want)
	}
}

func TestLineEncoder(t *testing.T) {
	file := parseSample(t)

	var sb strings.Builder
	if err := NewLineEncoder(&sb).Encode(file); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	want := strings.Join([]string{
		"class\tRepository\t5",
		"val\tRepository.items\t6",
		"fun\tRepository.add\t8",
		"fun\tmain\t13",
	}, "\n") + "\n"
	if sb.String() != want {
		t.Errorf("Encode =\n%s\nwant\n%s", sb.String(), want)
	}
}

func TestJSONEncoder(t *testing.T) {
	file := parseSample(t)

	var sb strings.Builder
	if err := NewJSONEncoder(&sb).Encode(file); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := sb.String()
	for _, want := range []string{
		`"package": "com.example"`,
		`"name": "kotlin.collections.List"`,
		`"kind": "class"`,
		`"name": "Repository"`,
		`"kind": "val"`,
		`"name": "items"`,
		`"type": "List<String>"`,
		`"kind": "fun"`,
		`"name": "add"`,
		`"parameters"`,
		`"item"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s:\n%s", want, got)
		}
	}
	if strings.Contains(got, `\u003c`) {
		t.Errorf("output HTML-escapes angle brackets:\n%s", got)
	}
}

func TestJSONEncoderNestedMembers(t *testing.T) {
	file, err := parser.NewParser(`class Outer {
    companion object {
        fun create(): Outer = Outer()
    }

    object Inner {
        val id = 1
    }
}`).Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var sb strings.Builder
	if err := NewJSONEncoder(&sb).Encode(file); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := sb.String()
	for _, want := range []string{
		`"kind": "companion object"`,
		`"name": "create"`,
		`"kind": "object"`,
		`"name": "Inner"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s:\n%s", want, got)
		}
	}
}

func TestASTJSONEncoder(t *testing.T) {
	file := parseSample(t)

	var sb strings.Builder
	if err := NewASTJSONEncoder(&sb).Encode(file); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := sb.String()
	for _, want := range []string{
		`"kind": "KotlinFile"`,
		`"kind": "PackageHeader"`,
		`"kind": "ImportHeader"`,
		`"kind": "ClassDeclaration"`,
		`"kind": "PropertyDeclaration"`,
		`"kind": "FunctionDeclaration"`,
		`"line": 5`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %s:\n%s", want, got)
		}
	}
}
