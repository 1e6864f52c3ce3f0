package session

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestUTF8AssemblerSplitRune(t *testing.T) {
	a := newUTF8Assembler()
	if got := a.Write([]byte{0xe2, 0x82}); got != "" {
		t.Fatalf("incomplete rune should wait, got %q", got)
	}
	if got := a.Write([]byte{0xac, 'x'}); got != "€x" {
		t.Fatalf("expected €x, got %q", got)
	}
	if got := a.Flush(); got != "" {
		t.Fatalf("nothing should remain, got %q", got)
	}
}

func TestUTF8AssemblerInvalidBytes(t *testing.T) {
	a := newUTF8Assembler()
	got := a.Write([]byte{'a', 0xff, 'b'})
	if got != "a�b" {
		t.Fatalf("expected replacement, got %q", got)
	}
}

func TestUTF8AssemblerTruncatedTail(t *testing.T) {
	a := newUTF8Assembler()
	_ = a.Write([]byte("ok"))
	if got := a.Write([]byte{0xf0, 0x9f}); got != "" {
		t.Fatalf("partial rune should wait, got %q", got)
	}
	tail := a.Flush()
	if !utf8.ValidString(tail) || !strings.Contains(tail, "�") {
		t.Fatalf("expected replacement tail, got %q", tail)
	}
	// The assembler is reusable after Flush.
	if got := a.Write([]byte("é")); got != "é" {
		t.Fatalf("expected é after reset, got %q", got)
	}
}

func TestUTF8AssemblerLargeInput(t *testing.T) {
	a := newUTF8Assembler()
	in := strings.Repeat("ü", utf8BufferBytes)
	if got := a.Write([]byte(in)); got != in {
		t.Fatalf("large input mangled: got %d bytes want %d", len(got), len(in))
	}
}
