package engine

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	cases := []struct {
		err  error
		code int32
	}{
		{nil, 0},
		{invalidArgument("op", "bad"), 1},
		{outOfMemory("op"), 2},
		{bufferTooSmall("op", "small"), 3},
		{fmt.Errorf("wrapped: %w", bufferTooSmall("op", "small")), 3},
		{errors.New("plain"), 1},
	}
	for i, tc := range cases {
		if got := CodeOf(tc.err); got != tc.code {
			t.Fatalf("case %d: expected %d got %d", i, tc.code, got)
		}
	}
}

func TestErrorHelpers(t *testing.T) {
	if !IsInvalidArgument(invalidArgument("x", "y")) || IsInvalidArgument(outOfMemory("x")) {
		t.Fatalf("IsInvalidArgument mismatch")
	}
	if !IsOutOfMemory(outOfMemory("x")) || IsOutOfMemory(errors.New("x")) {
		t.Fatalf("IsOutOfMemory mismatch")
	}
	if outOfMemory("x").Error() != "out of memory" {
		t.Fatalf("unexpected OOM message")
	}
	if KindBufferTooSmall.String() != "buffer_too_small" || Kind(9).String() != "kind(9)" {
		t.Fatalf("unexpected Kind strings")
	}
}
