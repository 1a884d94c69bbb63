package parser

import "testing"

func TestCursorWalk(t *testing.T) {
	cur := newCursor(Tokenize("a b c"))

	if got := cur.current().Text; got != "a" {
		t.Errorf("current = %q, want %q", got, "a")
	}
	if got := cur.peek(1).Text; got != "b" {
		t.Errorf("peek(1) = %q, want %q", got, "b")
	}

	cur.next()
	if got := cur.current().Text; got != "b" {
		t.Errorf("current = %q, want %q", got, "b")
	}
}

func TestCursorPeekPastEnd(t *testing.T) {
	cur := newCursor(Tokenize("a"))
	if got := cur.peek(10).Kind; got != TokenEOF {
		t.Errorf("peek(10) = %v, want EOF", got)
	}
}

func TestCursorEOFIsSticky(t *testing.T) {
	cur := newCursor(Tokenize(""))
	for i := 0; i < 3; i++ {
		if got := cur.next().Kind; got != TokenEOF {
			t.Errorf("next() = %v, want EOF", got)
		}
	}
}

func TestCursorSaveRestore(t *testing.T) {
	cur := newCursor(Tokenize("a b c"))

	checkpoint := cur.save()
	cur.next()
	cur.next()
	if got := cur.current().Text; got != "c" {
		t.Fatalf("current = %q, want %q", got, "c")
	}

	cur.restore(checkpoint)
	if got := cur.current().Text; got != "a" {
		t.Errorf("after restore current = %q, want %q", got, "a")
	}
}
