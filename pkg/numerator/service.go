// Package numerator provides the label serial generator.
package numerator

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	core "labelkit/internal/core/numerator"
)

// Compile-time check that Service implements the domain contract.
var _ core.Generator = (*Service)(nil)

// Service generates serials of the form header + prefix + random digits.
//
// The filler comes from a non-cryptographic PRNG: serials only disambiguate
// devices that share a prefix on a printed sheet, and collisions are accepted.
type Service struct {
	cfg core.Config

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a serial generator. A nil src seeds a PCG source from the
// runtime's global generator.
func New(cfg core.Config, src rand.Source) (*Service, error) {
	if cfg.Header == "" && cfg.Length == 0 {
		cfg = core.DefaultConfig()
	}
	if cfg.FillerLength(3) < 0 {
		return nil, fmt.Errorf("serial length %d too short for header %q and a 3-digit prefix", cfg.Length, cfg.Header)
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Service{
		cfg: cfg,
		rng: rand.New(src),
	}, nil
}

// Generate returns a serial for the prefix or an INVALID_PREFIX error.
func (s *Service) Generate(prefixCode string) (string, error) {
	if err := core.ValidatePrefix(prefixCode); err != nil {
		return "", err
	}

	filler := s.cfg.FillerLength(len(prefixCode))

	var b strings.Builder
	b.Grow(s.cfg.Length)
	b.WriteString(s.cfg.Header)
	b.WriteString(prefixCode)

	s.mu.Lock()
	for i := 0; i < filler; i++ {
		b.WriteByte(byte('0' + s.rng.IntN(10)))
	}
	s.mu.Unlock()

	return b.String(), nil
}

// Config returns the serial layout in use.
func (s *Service) Config() core.Config {
	return s.cfg
}
