package booking

import (
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	referencePrefix    = "HTL"
	referenceSuffixLen = 4
	base36Digits       = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// ReferenceGenerator produces human-readable booking references of the form HTL-<time>-<rand>.
type ReferenceGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	rand *rand.Rand
}

// NewReferenceGenerator seeds a generator from the wall clock.
func NewReferenceGenerator() *ReferenceGenerator {
	return NewReferenceGeneratorWith(time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewReferenceGeneratorWith uses the given clock and random source.
func NewReferenceGeneratorWith(now func() time.Time, src *rand.Rand) *ReferenceGenerator {
	return &ReferenceGenerator{now: now, rand: src}
}

// Generate returns a new uppercase reference.
func (g *ReferenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	stamp := strconv.FormatInt(g.now().UnixMilli(), 36)
	suffix := make([]byte, referenceSuffixLen)
	for i := range suffix {
		suffix[i] = base36Digits[g.rand.Intn(len(base36Digits))]
	}
	return strings.ToUpper(referencePrefix + "-" + stamp + "-" + string(suffix))
}
