// Package version provides Maven-style version parsing and comparison.
//
// Versions are split into numeric and qualifier segments on '.', '-' and on
// every transition between digits and letters. Numeric segments compare
// numerically, qualifiers compare through a QualifierTable, and trailing
// zero/release segments are ignored, so "1", "1.0" and "1.0.0-ga" are equal.
//
// Example:
//
//	v, err := version.Parse("5.3.21")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(v.Compare(version.MustParse("5.3.20"))) // 1
package version

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrEmptyVersion is returned when parsing an empty version string.
var ErrEmptyVersion = errors.New("version string cannot be empty")

// MavenVersion is an immutable, totally ordered version value.
type MavenVersion struct {
	// original preserves the text the version was parsed from
	original string

	// canonical is the normalized form; equal versions share it
	canonical string

	items listItem
}

// String returns the original version text.
func (v *MavenVersion) String() string {
	if v == nil {
		return ""
	}
	return v.original
}

// Canonical returns the normalized representation used for identity.
//
// Examples:
//   - "1.0.0" → "1"
//   - "1.0-RC1" → "1-rc-1"
//   - "2.0.Final" → "2"
func (v *MavenVersion) Canonical() string {
	if v == nil {
		return ""
	}
	return v.canonical
}

// Compare returns -1, 0 or 1 when v orders below, equal to or above other.
// A nil version orders below any non-nil version.
func (v *MavenVersion) Compare(other *MavenVersion) int {
	switch {
	case v == nil && other == nil:
		return 0
	case v == nil:
		return -1
	case other == nil:
		return 1
	}
	return v.items.compare(other.items)
}

// Equals reports whether both versions are equal under Maven ordering.
func (v *MavenVersion) Equals(other *MavenVersion) bool {
	return v.Compare(other) == 0
}

// Parse parses a version string with the default qualifier table.
func Parse(s string) (*MavenVersion, error) {
	return ParseWith(s, DefaultQualifiers())
}

// MustParse parses a version string and panics on error.
// Use this only when you know the version string is valid.
func MustParse(s string) *MavenVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseWith parses a version string using the given qualifier table.
func ParseWith(s string, table *QualifierTable) (*MavenVersion, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil, ErrEmptyVersion
	}
	if strings.ContainsFunc(trimmed, unicode.IsSpace) {
		return nil, fmt.Errorf("invalid version %q: contains whitespace", s)
	}
	if table == nil {
		table = DefaultQualifiers()
	}

	items := parseItems(strings.ToLower(trimmed), table)
	return &MavenVersion{
		original:  trimmed,
		canonical: items.String(),
		items:     items,
	}, nil
}

// builder is the mutable list used while scanning; sub-lists are appended
// as the last entry of their parent.
type builder struct {
	entries []entry
}

type entry struct {
	scalar item
	sub    *builder
}

func (b *builder) add(it item) {
	b.entries = append(b.entries, entry{scalar: it})
}

func (b *builder) open() *builder {
	sub := &builder{}
	b.entries = append(b.entries, entry{sub: sub})
	return sub
}

// freeze converts the builder into a normalized listItem, deepest lists first.
func (b *builder) freeze() listItem {
	out := make(listItem, 0, len(b.entries))
	for _, e := range b.entries {
		if e.sub != nil {
			out = append(out, e.sub.freeze())
		} else {
			out = append(out, e.scalar)
		}
	}
	return out.normalize()
}

func parseItems(s string, table *QualifierTable) listItem {
	root := &builder{}
	list := root

	isDigit := false
	start := 0

	segment := func(end int) item {
		if isDigit {
			return newIntItem(s[start:end])
		}
		return newStringItem(s[start:end], false, table)
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '.':
			if i == start {
				list.add(newIntItem("0"))
			} else {
				list.add(segment(i))
			}
			start = i + 1

		case c == '-':
			if i == start {
				list.add(newIntItem("0"))
			} else {
				list.add(segment(i))
			}
			start = i + 1
			list = list.open()

		case c >= '0' && c <= '9':
			if !isDigit && i > start {
				// qualifier directly followed by a number: "rc1", "b2"
				list.add(newStringItem(s[start:i], true, table))
				start = i
				list = list.open()
			}
			isDigit = true

		default:
			if isDigit && i > start {
				list.add(newIntItem(s[start:i]))
				start = i
				list = list.open()
			}
			isDigit = false
		}
	}

	if len(s) > start {
		list.add(segment(len(s)))
	}

	return root.freeze()
}
