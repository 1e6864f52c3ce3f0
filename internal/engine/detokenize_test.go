package engine

import (
	"bytes"
	"testing"
)

func TestTokenToPieceTable(t *testing.T) {
	e := New()
	m, _ := e.LoadModel("m", 0)
	cases := []struct {
		token int32
		want  string
	}{
		{0, ""}, {1, "Hello"}, {2, " world"}, {3, "<BOS>"}, {4, " token"}, {5, "!"},
		{6, "?"}, {-1, "?"}, {1 << 20, "?"},
	}
	for _, tc := range cases {
		buf := make([]byte, 16)
		n, err := e.TokenToPiece(m, tc.token, buf)
		if err != nil {
			t.Fatalf("token %d: %v", tc.token, err)
		}
		if got := string(buf[:n]); got != tc.want {
			t.Fatalf("token %d: expected %q got %q", tc.token, tc.want, got)
		}
		if buf[n] != 0 {
			t.Fatalf("token %d: missing terminator", tc.token)
		}
	}
}

func TestTokenToPieceBufferTooSmall(t *testing.T) {
	e := New()
	// "Hello" needs 6 bytes with its terminator.
	buf := bytes.Repeat([]byte{0xAA}, 5)
	_, err := e.TokenToPiece(0, 1, buf)
	wantKind(t, err, KindBufferTooSmall)
	if !IsBufferTooSmall(err) {
		t.Fatalf("IsBufferTooSmall should be true")
	}
	if !bytes.Equal(buf, bytes.Repeat([]byte{0xAA}, 5)) {
		t.Fatalf("buffer modified on failure: %v", buf)
	}

	exact := make([]byte, 6)
	if n, err := e.TokenToPiece(0, 1, exact); err != nil || n != 5 {
		t.Fatalf("exact fit: n=%d err=%v", n, err)
	}

	// The empty piece still needs room for the terminator.
	one := []byte{0xFF}
	if n, err := e.TokenToPiece(0, 0, one); err != nil || n != 0 || one[0] != 0 {
		t.Fatalf("empty piece: n=%d err=%v buf=%v", n, err, one)
	}
}

func TestTokenToPieceInvalidBuffer(t *testing.T) {
	e := New()
	_, err := e.TokenToPiece(0, 1, nil)
	wantKind(t, err, KindInvalidArgument)
	if err.Error() != "invalid buffer" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestPiece(t *testing.T) {
	e := New()
	if p, err := e.Piece(0, 2); err != nil || p != " world" {
		t.Fatalf("expected \" world\", got %q err=%v", p, err)
	}
	m, _ := e.LoadModel("m", 0)
	_ = e.ReleaseModel(m)
	_, err := e.Piece(m, 2)
	wantKind(t, err, KindInvalidArgument)
}
