package utils

import (
	"strings"
	"testing"
)

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := GenerateSecureToken(9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatalf("tokens should differ: %s", a)
	}
	if strings.ContainsAny(a, "/+=") {
		t.Fatalf("token is not URL-safe: %s", a)
	}
}
