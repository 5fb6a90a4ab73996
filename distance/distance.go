package distance

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/hupe1980/intertext/model"
)

var (
	// ErrUnknownMetric is returned by Lookup for an unregistered name.
	ErrUnknownMetric = errors.New("unknown distance metric")
	// ErrDuplicateMetric is returned by Register when the name is taken.
	ErrDuplicateMetric = errors.New("distance metric already registered")
)

// Occurrence is one shared feature as it occurs inside one unit.
type Occurrence struct {
	Feature model.FeatureID
	// Weight is the sparse-matrix weight of the feature in the unit.
	Weight float64
	// Positions are the token positions, ascending and distinct.
	Positions []int
	// Frequency is the feature frequency for this side's basis, in (0,1].
	Frequency float64
}

// First returns the first position of the occurrence.
func (o *Occurrence) First() int {
	return o.Positions[0]
}

// Side is one unit's view of a candidate pair: one Occurrence per shared
// feature, sorted by feature.
type Side []Occurrence

// SinglePosition reports whether every shared token sits at one position.
func (s Side) SinglePosition() bool {
	pos := -1
	for i := range s {
		for _, p := range s[i].Positions {
			if pos == -1 {
				pos = p
			} else if p != pos {
				return false
			}
		}
	}
	return true
}

// Metric computes within-unit distances and the pair score.
type Metric interface {
	// Name returns the identifier used in params and stored matches.
	Name() string
	// Distance returns the distance of the shared features inside one unit.
	// ok is false when no distance is defined and the pair must be rejected.
	Distance(s Side) (d int, ok bool)
	// Score combines both sides. Implementations must be symmetric in
	// (a, da) and (b, db) and return a value >= 0.
	Score(a, b Side, da, db int) float64
}

var registry = struct {
	mu      sync.RWMutex
	metrics map[string]Metric
}{metrics: make(map[string]Metric)}

func init() {
	for _, m := range []Metric{Span{}, Frequency{}, Tesserae{}} {
		if err := Register(m); err != nil {
			panic(err)
		}
	}
}

// Register adds m to the metric registry.
func Register(m Metric) error {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, ok := registry.metrics[m.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateMetric, m.Name())
	}
	registry.metrics[m.Name()] = m
	return nil
}

// Lookup returns the metric registered under name.
func Lookup(name string) (Metric, error) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	m, ok := registry.metrics[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return m, nil
}

// Names returns the registered metric names, sorted.
func Names() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.metrics))
	for name := range registry.metrics {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
