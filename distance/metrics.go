package distance

import (
	"cmp"
	"math"
	"slices"
)

// Span measures how far apart the shared features lie: max - min + 1 over
// the first position of each shared feature. The score is the mean
// information content (-ln f) of the shared features, capped-weight, over
// the summed distances.
type Span struct{}

// Name implements Metric.
func (Span) Name() string { return "span" }

// Distance implements Metric.
func (Span) Distance(s Side) (int, bool) {
	if len(s) == 0 || s.SinglePosition() {
		return 0, false
	}
	lo, hi := s[0].First(), s[0].First()
	for i := 1; i < len(s); i++ {
		p := s[i].First()
		lo = min(lo, p)
		hi = max(hi, p)
	}
	return hi - lo + 1, true
}

// Score implements Metric.
func (Span) Score(a, b Side, da, db int) float64 {
	return informationScore(a, b, da, db)
}

// Frequency measures the distance between the two lowest-frequency shared
// tokens at distinct positions: |p1 - p2| + 1. Frequency ties are broken
// by position. The score is the same as Span.
type Frequency struct{}

// Name implements Metric.
func (Frequency) Name() string { return "frequency" }

// Distance implements Metric.
func (Frequency) Distance(s Side) (int, bool) {
	return rarestDistance(s)
}

// Score implements Metric.
func (Frequency) Score(a, b Side, da, db int) float64 {
	return informationScore(a, b, da, db)
}

// Tesserae reproduces the legacy v3 scoring: frequency distance and
// ln(Σ (w/fa + w/fb) / (da + db)), clamped at zero.
type Tesserae struct{}

// Name implements Metric.
func (Tesserae) Name() string { return "tesserae" }

// Distance implements Metric.
func (Tesserae) Distance(s Side) (int, bool) {
	return rarestDistance(s)
}

// Score implements Metric.
func (Tesserae) Score(a, b Side, da, db int) float64 {
	d := float64(da + db)
	if d <= 0 {
		return 0
	}
	var sum float64
	for i := range min(len(a), len(b)) {
		sum += capWeight(a[i].Weight)/clampFrequency(a[i].Frequency) +
			capWeight(b[i].Weight)/clampFrequency(b[i].Frequency)
	}
	if sum <= 0 {
		return 0
	}
	return max(0, math.Log(sum/d))
}

type token struct {
	freq float64
	pos  int
}

func rarestDistance(s Side) (int, bool) {
	var toks []token
	for i := range s {
		for _, p := range s[i].Positions {
			toks = append(toks, token{freq: s[i].Frequency, pos: p})
		}
	}
	if len(toks) < 2 {
		return 0, false
	}
	slices.SortFunc(toks, func(x, y token) int {
		if c := cmp.Compare(x.freq, y.freq); c != 0 {
			return c
		}
		return cmp.Compare(x.pos, y.pos)
	})

	first := toks[0].pos
	for _, t := range toks[1:] {
		if t.pos != first {
			d := t.pos - first
			if d < 0 {
				d = -d
			}
			return d + 1, true
		}
	}
	return 0, false
}

// informationScore sums per shared feature the mean of both sides'
// -ln(frequency), each scaled by its capped weight, and divides by da + db.
// Terms are combined per feature so the result is bit-identical when the
// sides are swapped.
func informationScore(a, b Side, da, db int) float64 {
	d := float64(da + db)
	if d <= 0 {
		return 0
	}
	var sum float64
	for i := range min(len(a), len(b)) {
		ia := capWeight(a[i].Weight) * -math.Log(clampFrequency(a[i].Frequency))
		ib := capWeight(b[i].Weight) * -math.Log(clampFrequency(b[i].Frequency))
		sum += 0.5 * (ia + ib)
	}
	return sum / d
}

// capWeight limits a repeated feature to the weight of one occurrence.
func capWeight(w float64) float64 {
	return min(1, w)
}

func clampFrequency(f float64) float64 {
	if f <= 0 || math.IsNaN(f) {
		return math.SmallestNonzeroFloat64
	}
	return min(f, 1)
}
