package storage

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestStoredFileNamePreservesExtension(t *testing.T) {
	tokens := 0
	b := NewKeyBuilderWithSources(fixedClock, func(n int) (string, error) {
		tokens++
		return fmt.Sprintf("tok%d", tokens), nil
	})

	name, err := b.StoredFileName("invoice.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "invoice-20250314092653tok1.pdf" {
		t.Fatalf("unexpected stored name: %s", name)
	}
	if !strings.HasPrefix(name, "invoice-") || !strings.HasSuffix(name, ".pdf") {
		t.Fatalf("stored name lost base or extension: %s", name)
	}
}

func TestBuildKeyZonePrefixes(t *testing.T) {
	b := NewKeyBuilderWithSources(fixedClock, func(n int) (string, error) {
		return "abc", nil
	})

	key, storedName, err := b.BuildKey(ZoneTemp, "public", "generic", "invoice.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "temps/public/generic/"+storedName {
		t.Fatalf("unexpected temp key: %s", key)
	}

	key, storedName, err = b.BuildKey(ZonePermanent, "public", "hr", "photo.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "uploaded/public/hr/"+storedName {
		t.Fatalf("unexpected permanent key: %s", key)
	}
}

func TestJoinPathSingleSeparators(t *testing.T) {
	cases := []struct {
		segments []string
		want     string
	}{
		{[]string{"temps", "public", "generic", "a.pdf"}, "temps/public/generic/a.pdf"},
		{[]string{"temps/", "/public/", "generic/", "a.pdf"}, "temps/public/generic/a.pdf"},
		{[]string{"temps//", "public"}, "temps/public"},
		{[]string{"", "public", ""}, "public"},
	}
	for _, c := range cases {
		if got := JoinPath(c.segments...); got != c.want {
			t.Fatalf("JoinPath(%v) = %q, want %q", c.segments, got, c.want)
		}
	}
}

func TestPermanentKeyFor(t *testing.T) {
	got, err := PermanentKeyFor("temps/public/generic/invoice-abc.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "uploaded/public/generic/invoice-abc.pdf" {
		t.Fatalf("unexpected permanent key: %s", got)
	}

	if _, err := PermanentKeyFor("uploaded/public/generic/invoice-abc.pdf"); err == nil {
		t.Fatalf("expected error for key outside the staging zone")
	}
}

func TestKeyUniqueness(t *testing.T) {
	b := NewKeyBuilder()
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		key, _, err := b.BuildKey(ZoneTemp, "public", "generic", "invoice.pdf")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[key] {
			t.Fatalf("duplicate key generated: %s", key)
		}
		seen[key] = true
	}
}

func TestLastSegment(t *testing.T) {
	if got := LastSegment("temps/public/generic/a.pdf"); got != "a.pdf" {
		t.Fatalf("unexpected last segment: %s", got)
	}
	if got := LastSegment("a.pdf"); got != "a.pdf" {
		t.Fatalf("unexpected last segment: %s", got)
	}
}
