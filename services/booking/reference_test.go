package booking

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

var referencePattern = regexp.MustCompile(`^HTL-[0-9A-Z]+-[0-9A-Z]{4}$`)

func TestGenerateFormat(t *testing.T) {
	at := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g := NewReferenceGeneratorWith(func() time.Time { return at }, rand.New(rand.NewSource(1)))

	ref := g.Generate()
	if !referencePattern.MatchString(ref) {
		t.Fatalf("reference %q does not match %s", ref, referencePattern)
	}
	stamp := strings.Split(ref, "-")[1]
	ms, err := strconv.ParseInt(strings.ToLower(stamp), 36, 64)
	if err != nil {
		t.Fatal(err)
	}
	if ms != at.UnixMilli() {
		t.Fatalf("timestamp segment decodes to %d, want %d", ms, at.UnixMilli())
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	at := func() time.Time { return time.UnixMilli(1767225600000) }
	a := NewReferenceGeneratorWith(at, rand.New(rand.NewSource(42)))
	b := NewReferenceGeneratorWith(at, rand.New(rand.NewSource(42)))
	for i := 0; i < 5; i++ {
		if x, y := a.Generate(), b.Generate(); x != y {
			t.Fatalf("same clock and seed diverged: %s vs %s", x, y)
		}
	}
}

func TestGenerateMostlyUnique(t *testing.T) {
	g := NewReferenceGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		ref := g.Generate()
		if !referencePattern.MatchString(ref) {
			t.Fatalf("bad reference %q", ref)
		}
		seen[ref] = struct{}{}
	}
	if len(seen) < 195 {
		t.Fatalf("too many collisions: %d unique of 200", len(seen))
	}
}
