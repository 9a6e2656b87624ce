package random

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"
)

// Source is the randomness used by shuffling and outcome draws.
type Source interface {
	// Intn returns a uniform value in [0, n). n must be > 0.
	Intn(n int) int
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
}

type lockedSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// New returns a goroutine-safe source seeded from crypto/rand.
func New() Source {
	return Seeded(cryptoSeed())
}

// Seeded returns a deterministic source, mostly for tests.
func Seeded(seed int64) Source {
	return &lockedSource{rng: mrand.New(mrand.NewSource(seed))}
}

func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}

// Fixed replays a scripted sequence of draws. Intn values are reduced modulo n.
// Once exhausted it keeps returning zero.
type Fixed struct {
	Ints   []int
	Floats []float64
}

func (f *Fixed) Intn(n int) int {
	if len(f.Ints) == 0 {
		return 0
	}
	v := f.Ints[0]
	f.Ints = f.Ints[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}

func (f *Fixed) Float64() float64 {
	if len(f.Floats) == 0 {
		return 0
	}
	v := f.Floats[0]
	f.Floats = f.Floats[1:]
	return v
}
