package version

import "fmt"

// Normalize parses a version string and returns its canonical form.
//
// Normalization lower-cases qualifiers, resolves aliases and drops trailing
// zero and release segments.
//
// Examples:
//   - "1.0.0" → "1"
//   - "1.2.0-GA" → "1.2"
//   - "1.0-CR2" → "1-rc-2"
//   - "2.0-SNAPSHOT" → "2-snapshot"
func Normalize(s string) (string, error) {
	v, err := Parse(s)
	if err != nil {
		return "", fmt.Errorf("cannot normalize invalid version: %w", err)
	}
	return v.Canonical(), nil
}

// MustNormalize normalizes a version string, panicking on error.
func MustNormalize(s string) string {
	normalized, err := Normalize(s)
	if err != nil {
		panic(err)
	}
	return normalized
}

// NormalizeOrOriginal attempts to normalize a version string.
// If normalization fails, returns the original string.
func NormalizeOrOriginal(s string) string {
	normalized, err := Normalize(s)
	if err != nil {
		return s
	}
	return normalized
}
