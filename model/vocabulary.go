package model

import (
	"fmt"
	"sync"

	"github.com/hupe1980/intertext/internal/conv"
)

type vocabKey struct {
	ft    FeatureType
	value string
}

// Vocabulary assigns stable FeatureIDs to (type, value) pairs.
// It is safe for concurrent use.
type Vocabulary struct {
	mu       sync.RWMutex
	ids      map[vocabKey]FeatureID
	features []Feature
}

// NewVocabulary creates an empty Vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		ids: make(map[vocabKey]FeatureID),
	}
}

// Intern returns the id of the feature, assigning a new one if needed.
func (v *Vocabulary) Intern(ft FeatureType, value string) FeatureID {
	key := vocabKey{ft: ft, value: value}

	v.mu.RLock()
	id, ok := v.ids[key]
	v.mu.RUnlock()
	if ok {
		return id
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if id, ok := v.ids[key]; ok {
		return id
	}
	next, err := conv.IntToUint32(len(v.features))
	if err != nil {
		panic(fmt.Sprintf("model: vocabulary full: %v", err))
	}
	id = FeatureID(next)
	v.ids[key] = id
	v.features = append(v.features, Feature{ID: id, Type: ft, Value: value})
	return id
}

// ID looks up the id of a feature without assigning one.
func (v *Vocabulary) ID(ft FeatureType, value string) (FeatureID, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	id, ok := v.ids[vocabKey{ft: ft, value: value}]
	return id, ok
}

// Feature returns the feature with the given id.
func (v *Vocabulary) Feature(id FeatureID) (Feature, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if int(id) >= len(v.features) {
		return Feature{}, fmt.Errorf("feature %d not in vocabulary", id)
	}
	return v.features[id], nil
}

// Value returns the string value of a feature, or "" if unknown.
func (v *Vocabulary) Value(id FeatureID) string {
	f, err := v.Feature(id)
	if err != nil {
		return ""
	}
	return f.Value
}

// Len returns the number of interned features.
func (v *Vocabulary) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.features)
}
