// Package distance scores candidate unit pairs.
//
// A candidate pair is presented as two Sides: the shared features as they
// occur in each unit, with their positions, matrix weights and
// basis-dependent frequencies. A Metric turns each side into a distance and
// both sides into a score. The Scorer applies the max_distance and
// min_score filters around a Metric.
//
// # Built-in Metrics
//
//   - span: spread of the first occurrences of the shared features
//   - frequency: distance between the two rarest shared tokens
//   - tesserae: frequency distance with the legacy inverse-frequency score
//
// Additional metrics are added with Register and resolved with Lookup.
//
// # Usage
//
//	m, err := distance.Lookup("span")
//	sc := distance.Scorer{Metric: m, MaxDistance: 10}
//	res, ok := sc.Evaluate(a, b)
package distance
