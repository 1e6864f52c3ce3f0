package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.Disabled,
		"off":     zerolog.Disabled,
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"INFO":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"weird":   zerolog.InfoLevel, // default
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(&buf, "info", false), "engine")
	l.Debug().Msg("hidden")
	l.Info().Str("op", "load").Msg("visible")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %s", out)
	}
	if !strings.Contains(out, `"component":"engine"`) || !strings.Contains(out, `"op":"load"`) {
		t.Fatalf("missing fields: %s", out)
	}
}

func TestNewConsoleOff(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "off", true)
	l.Error().Msg("nothing")
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", true)
	l.Debug().Msg("hello console")
	if !strings.Contains(buf.String(), "hello console") {
		t.Fatalf("expected console output, got %q", buf.String())
	}
}
