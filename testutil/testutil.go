package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
	cdf  map[zipfKey][]float64
}

type zipfKey struct {
	n int
	s float64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
		cdf:  make(map[zipfKey][]float64),
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Zipf returns a Zipfian-distributed value in [0, n).
// P(k) ∝ 1/k^s; s=1.0 gives standard Zipf. Word frequencies in natural
// language follow this law closely.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

// zipfLocked samples by inverse transform over a cached CDF (caller must hold lock).
func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}

	key := zipfKey{n: n, s: s}
	cdf, ok := r.cdf[key]
	if !ok {
		cdf = make([]float64, n)
		var cumulative float64
		for k := 1; k <= n; k++ {
			cumulative += 1.0 / math.Pow(float64(k), s)
			cdf[k-1] = cumulative
		}
		r.cdf[key] = cdf
	}

	u := r.rand.Float64() * cdf[n-1]
	for k, c := range cdf {
		if u <= c {
			return k
		}
	}
	return n - 1
}
