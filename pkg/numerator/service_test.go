package numerator

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"labelkit/internal/core/apperror"
	core "labelkit/internal/core/numerator"
)

func newSeeded(t *testing.T, seed uint64) *Service {
	t.Helper()
	svc, err := New(core.DefaultConfig(), rand.NewPCG(seed, seed+1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func TestGenerate_Shape(t *testing.T) {
	svc := newSeeded(t, 42)

	prefixes := []string{"00", "12", "99", "000", "123", "999"}
	for _, p := range prefixes {
		for i := 0; i < 200; i++ {
			serial, err := svc.Generate(p)
			if err != nil {
				t.Fatalf("Generate(%q): %v", p, err)
			}
			if len(serial) != 7 {
				t.Fatalf("Generate(%q) = %q, want length 7", p, serial)
			}
			if !strings.HasPrefix(serial, "13"+p) {
				t.Fatalf("Generate(%q) = %q, want prefix %q", p, serial, "13"+p)
			}
			for _, r := range serial {
				if r < '0' || r > '9' {
					t.Fatalf("Generate(%q) = %q contains non-digit", p, serial)
				}
			}
		}
	}
}

func TestGenerate_Scenarios(t *testing.T) {
	svc := newSeeded(t, 7)

	s2, err := svc.Generate("12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s2) != 7 || !strings.HasPrefix(s2, "1312") {
		t.Errorf("expected 7 chars starting 1312, got %s", s2)
	}

	s3, err := svc.Generate("123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s3) != 7 || !strings.HasPrefix(s3, "13123") {
		t.Errorf("expected 7 chars starting 13123, got %s", s3)
	}
}

func TestGenerate_InvalidPrefix(t *testing.T) {
	svc := newSeeded(t, 1)

	for _, p := range []string{"", "1", "1234", "ab", "1a", " 12", "١٢"} {
		serial, err := svc.Generate(p)
		if err == nil {
			t.Fatalf("Generate(%q) = %q, want error", p, serial)
		}
		if !apperror.Is(err, apperror.CodeInvalidPrefix) {
			t.Errorf("Generate(%q) error = %v, want INVALID_PREFIX", p, err)
		}
		if serial != "" {
			t.Errorf("Generate(%q) produced serial %q alongside error", p, serial)
		}
	}
}

func TestGenerate_DeterministicWithSameSeed(t *testing.T) {
	a := newSeeded(t, 99)
	b := newSeeded(t, 99)

	for i := 0; i < 50; i++ {
		sa, _ := a.Generate("45")
		sb, _ := b.Generate("45")
		if sa != sb {
			t.Fatalf("iteration %d: %s != %s", i, sa, sb)
		}
	}
}

func TestGenerate_NotIdempotent(t *testing.T) {
	svc := newSeeded(t, 3)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		s, _ := svc.Generate("12")
		seen[s] = struct{}{}
	}
	// 1000 possible fillers; 100 draws landing on a single value is practically impossible.
	if len(seen) < 2 {
		t.Errorf("expected varied serials, got %d distinct", len(seen))
	}
}

func TestGenerate_FillerCoversAllDigits(t *testing.T) {
	svc := newSeeded(t, 11)

	counts := make(map[byte]int)
	for i := 0; i < 2000; i++ {
		s, _ := svc.Generate("123")
		counts[s[5]]++
		counts[s[6]]++
	}
	for d := byte('0'); d <= '9'; d++ {
		if counts[d] == 0 {
			t.Errorf("digit %c never drawn", d)
		}
	}
}

func TestGenerate_Concurrent(t *testing.T) {
	svc, err := New(core.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if s, err := svc.Generate("77"); err != nil || len(s) != 7 {
					t.Errorf("bad serial %q: %v", s, err)
				}
			}
		}()
	}
	wg.Wait()
}

func TestNew_RejectsShortLayout(t *testing.T) {
	_, err := New(core.Config{Header: "13", Length: 4}, nil)
	if err == nil {
		t.Fatal("expected error for layout without room for a 3-digit prefix")
	}
}

func TestNew_CustomHeader(t *testing.T) {
	svc, err := New(core.Config{Header: "9", Length: 8}, rand.NewPCG(1, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, err := svc.Generate("12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 8 || !strings.HasPrefix(s, "912") {
		t.Errorf("got %s", s)
	}
}
