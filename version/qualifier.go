package version

import (
	"strconv"
	"strings"
)

// QualifierTable holds the precedence rules for non-numeric version segments.
//
// Order lists known qualifiers from lowest to highest precedence. The empty
// string marks the position of an unqualified release. Aliases map alternate
// spellings onto entries of Order, and Shorthands expand single-letter
// qualifiers that are directly followed by a digit (e.g. "1.0-b2").
type QualifierTable struct {
	Order      []string
	Aliases    map[string]string
	Shorthands map[string]string

	index map[string]int
}

// DefaultQualifiers returns the Maven qualifier table:
// alpha < beta < milestone < rc < snapshot < "" (release) < sp.
func DefaultQualifiers() *QualifierTable {
	return NewQualifierTable(
		[]string{"alpha", "beta", "milestone", "rc", "snapshot", "", "sp"},
		map[string]string{
			"ga":      "",
			"final":   "",
			"release": "",
			"cr":      "rc",
		},
		map[string]string{
			"a": "alpha",
			"b": "beta",
			"m": "milestone",
		},
	)
}

// NewQualifierTable builds a table from an explicit order, alias map and
// shorthand map. Order must contain the empty string (release position).
func NewQualifierTable(order []string, aliases, shorthands map[string]string) *QualifierTable {
	t := &QualifierTable{
		Order:      order,
		Aliases:    aliases,
		Shorthands: shorthands,
		index:      make(map[string]int, len(order)),
	}
	for i, q := range order {
		t.index[q] = i
	}
	if _, ok := t.index[""]; !ok {
		t.index[""] = len(order)
		t.Order = append(append([]string(nil), order...), "")
	}
	return t
}

// canonical applies shorthand expansion and alias mapping to a lower-cased
// qualifier.
func (t *QualifierTable) canonical(q string, followedByDigit bool) string {
	if followedByDigit && len(q) == 1 {
		if full, ok := t.Shorthands[q]; ok {
			q = full
		}
	}
	if alias, ok := t.Aliases[q]; ok {
		return alias
	}
	return q
}

// rank returns a sortable key for the qualifier. Known qualifiers sort by
// their position in Order, unknown qualifiers sort after all known ones and
// lexically among themselves.
func (t *QualifierTable) rank(q string) string {
	if i, ok := t.index[q]; ok {
		return pad(i)
	}
	return pad(len(t.Order)) + "-" + q
}

// releaseRank is the rank of an unqualified release.
func (t *QualifierTable) releaseRank() string {
	return pad(t.index[""])
}

// pad left-pads rank positions so lexical comparison matches numeric order
// for tables with more than ten entries.
func pad(i int) string {
	s := strconv.Itoa(i)
	if len(s) < 4 {
		s = strings.Repeat("0", 4-len(s)) + s
	}
	return s
}
