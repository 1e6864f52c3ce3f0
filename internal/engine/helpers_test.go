package engine

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for latency assertions.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// newTestEngine returns an engine on a fake clock plus one loaded model and
// one context bound to it.
func newTestEngine(t *testing.T) (*Engine, *fakeClock, ModelHandle, ContextHandle) {
	t.Helper()
	clk := newFakeClock()
	e := NewWithConfig(Config{Clock: clk.Now})
	m, err := e.LoadModel("models/test.gguf", 0)
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	c, err := e.NewContext(m, 512, 4)
	if err != nil {
		t.Fatalf("new context: %v", err)
	}
	return e, clk, m, c
}

func wantKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	k, ok := KindOf(err)
	if !ok || k != want {
		t.Fatalf("expected kind %s, got %v (%v)", want, k, err)
	}
}

// recordingPublisher keeps events in publish order.
type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(ev Event) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Name)
	}
	return out
}
