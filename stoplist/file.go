package stoplist

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk representation of a stopword list.
//
//	language: latin
//	terms:
//	  - et
//	  - que
type File struct {
	Language string   `yaml:"language,omitempty"`
	Terms    []string `yaml:"terms"`
}

// LoadFile reads a YAML stopword list. Terms are trimmed; empty terms are dropped.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stoplist: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML stopword list.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse stoplist: %w", err)
	}
	terms := f.Terms[:0]
	for _, t := range f.Terms {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	f.Terms = terms
	return &f, nil
}

// WriteFile writes a stopword list as YAML.
func WriteFile(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal stoplist: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
