// Package helper provides terminal I/O helpers for the nasdr commands.
package helper

import (
	"strings"
)

// Indentation is the example indent used by command help texts.
const Indentation = `  `

// Normalizer wraps a help text being normalized.
type Normalizer struct {
	string
}

// NewNormalizer initialize an instance of Normalizer
func NewNormalizer(s string) Normalizer {
	return Normalizer{s}
}

// Examples normalizes a command's examples to follow the conventions.
func Examples(s string) string {
	if len(s) == 0 {
		return s
	}
	return NewNormalizer(s).trim().indent().string
}

func (s Normalizer) trim() Normalizer {
	s.string = strings.TrimSpace(s.string)
	return s
}

func (s Normalizer) indent() Normalizer {
	var indentedLines []string
	for _, line := range strings.Split(s.string, "\n") {
		trimmed := strings.TrimSpace(line)
		indented := Indentation + trimmed
		indentedLines = append(indentedLines, indented)
	}
	s.string = strings.Join(indentedLines, "\n")
	return s
}
