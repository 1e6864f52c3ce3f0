package httpapi

import (
	"testing"
	"time"
)

func TestSetMaxBodyBytes_DefaultWhenNonPositive(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(123)
	SetMaxBodyBytes(-1)
	if maxBodyBytes != defaultMaxBodyBytes {
		t.Fatalf("expected default %d, got %d", defaultMaxBodyBytes, maxBodyBytes)
	}
}

func TestSetMaxBodyBytes_PositiveSetsValue(t *testing.T) {
	defer SetMaxBodyBytes(0)
	SetMaxBodyBytes(2048)
	if maxBodyBytes != 2048 {
		t.Fatalf("expected 2048, got %d", maxBodyBytes)
	}
}

func TestSetGenerateTimeoutSeconds_NormalizesNegativeToZero(t *testing.T) {
	defer SetGenerateTimeoutSeconds(0)
	SetGenerateTimeoutSeconds(-5)
	if generateTimeout != 0 {
		t.Fatalf("expected 0, got %v", generateTimeout)
	}
	SetGenerateTimeoutSeconds(3)
	if generateTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %v", generateTimeout)
	}
}

func TestCORSDefaults(t *testing.T) {
	if got := corsDefaults(nil, []string{"*"}); len(got) != 1 || got[0] != "*" {
		t.Fatalf("got %v", got)
	}
	if got := corsDefaults([]string{"a"}, []string{"*"}); got[0] != "a" {
		t.Fatalf("got %v", got)
	}
}
