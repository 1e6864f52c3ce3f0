package engine

import "testing"

func TestPackUnpackHandle(t *testing.T) {
	cases := []struct {
		idx, gen uint32
	}{
		{0, 1}, {1, 1}, {41, 7}, {1<<32 - 2, 1<<32 - 1},
	}
	for _, tc := range cases {
		h := packHandle(tc.idx, tc.gen)
		if h == 0 {
			t.Fatalf("packed handle must not be null")
		}
		idx, gen, ok := unpackHandle(h)
		if !ok || idx != tc.idx || gen != tc.gen {
			t.Fatalf("round trip (%d,%d) -> (%d,%d,%v)", tc.idx, tc.gen, idx, gen, ok)
		}
	}
	if _, _, ok := unpackHandle(0); ok {
		t.Fatalf("null handle should not unpack")
	}
}

func TestHandleTableLifecycle(t *testing.T) {
	tbl := newHandleTable[string](0)
	a, _ := tbl.insert("a")
	b, _ := tbl.insert("b")
	if v, ok := tbl.get(a); !ok || v != "a" {
		t.Fatalf("get a: %q %v", v, ok)
	}
	if v, ok := tbl.remove(a); !ok || v != "a" {
		t.Fatalf("remove a: %q %v", v, ok)
	}
	if _, ok := tbl.get(a); ok {
		t.Fatalf("removed handle still resolves")
	}
	if _, ok := tbl.remove(a); ok {
		t.Fatalf("double remove should fail")
	}
	c, _ := tbl.insert("c")
	if c == a {
		t.Fatalf("reused slot must carry a new generation")
	}
	if tbl.len() != 2 {
		t.Fatalf("expected 2 live, got %d", tbl.len())
	}
	out := tbl.drain()
	if len(out) != 2 || out[0] != "c" || out[1] != "b" {
		t.Fatalf("unexpected drain %v", out)
	}
	if _, ok := tbl.get(b); ok {
		t.Fatalf("drained handle still resolves")
	}
}

func TestHandleTableForgedHandles(t *testing.T) {
	tbl := newHandleTable[int](0)
	h, _ := tbl.insert(1)
	for _, bad := range []uint64{h + 1, h + 1<<32, 1<<32 | 99} {
		if _, ok := tbl.get(bad); ok {
			t.Fatalf("forged handle %#x resolved", bad)
		}
	}
}

func TestHandleTableLimit(t *testing.T) {
	tbl := newHandleTable[int](1)
	h, ok := tbl.insert(1)
	if !ok {
		t.Fatalf("first insert failed")
	}
	if _, ok := tbl.insert(2); ok {
		t.Fatalf("insert past limit should fail")
	}
	tbl.remove(h)
	if _, ok := tbl.insert(3); !ok {
		t.Fatalf("insert after remove should succeed")
	}
}
