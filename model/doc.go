// Package model defines the core types used throughout intertext.
//
// # Identity Types
//
//   - FeatureID: dense identifier of a feature, assigned by a Vocabulary (uint32)
//   - UnitRef: address of a unit (TextID, Index, Locus)
//
// # Input Types
//
//   - Feature: a normalized form or lemma string of a given FeatureType
//   - Token: one occurrence inside a Unit, carrying its form and lemma candidates
//   - Unit: a line or phrase of a Text
//   - Text: a work split into lines and phrases
//
// # Result Types
//
//   - Match: a scored pair of units from two different texts
//   - MatchSet: the parameters and matches of one search invocation
//
// Feature ids are only comparable when both texts were featurized against
// the same Vocabulary:
//
//	vocab := model.NewVocabulary()
//	cano := vocab.Intern(model.FeatureForm, "cano")
package model
