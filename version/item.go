package version

import (
	"strings"
)

// item is one segment of a parsed version. Comparisons against a nil item
// treat the nil as padding (the "null" segment of a shorter version).
type item interface {
	compare(other item) int
	isNull() bool
	String() string
}

// intItem is a numeric segment of arbitrary length stored as decimal digits
// without leading zeros.
type intItem struct {
	digits string
}

func newIntItem(s string) intItem {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		s = "0"
	}
	return intItem{digits: s}
}

func (i intItem) isNull() bool {
	return i.digits == "0"
}

func (i intItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		if i.isNull() {
			return 0
		}
		return 1
	case intItem:
		if len(i.digits) != len(o.digits) {
			if len(i.digits) < len(o.digits) {
				return -1
			}
			return 1
		}
		return strings.Compare(i.digits, o.digits)
	case stringItem:
		// 1.1 > 1-sp
		return 1
	case listItem:
		// 1.1 > 1-1
		return 1
	}
	return 0
}

func (i intItem) String() string {
	return i.digits
}

// stringItem is a qualifier segment ranked through a QualifierTable.
type stringItem struct {
	value string
	table *QualifierTable
}

func newStringItem(s string, followedByDigit bool, table *QualifierTable) stringItem {
	return stringItem{value: table.canonical(s, followedByDigit), table: table}
}

func (s stringItem) isNull() bool {
	return s.compare(nil) == 0
}

func (s stringItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		// 1-rc < 1, 1-ga == 1, 1-sp > 1
		return strings.Compare(s.table.rank(s.value), s.table.releaseRank())
	case intItem:
		return -1
	case stringItem:
		return strings.Compare(s.table.rank(s.value), s.table.rank(o.value))
	case listItem:
		return -1
	}
	return 0
}

func (s stringItem) String() string {
	return s.value
}

// listItem is a nested sub-version opened by '-' or by a digit/letter
// transition.
type listItem []item

func (l listItem) isNull() bool {
	return len(l) == 0
}

func (l listItem) compare(other item) int {
	switch o := other.(type) {
	case nil:
		if len(l) == 0 {
			return 0
		}
		return l[0].compare(nil)
	case intItem:
		return -1
	case stringItem:
		return 1
	case listItem:
		n := max(len(l), len(o))
		for i := 0; i < n; i++ {
			var left, right item
			if i < len(l) {
				left = l[i]
			}
			if i < len(o) {
				right = o[i]
			}

			var result int
			switch {
			case left == nil && right == nil:
				result = 0
			case left == nil:
				result = -right.compare(nil)
			default:
				result = left.compare(right)
			}
			if result != 0 {
				return result
			}
		}
		return 0
	}
	return 0
}

// normalize drops trailing null segments, stopping at the first non-null
// scalar segment.
func (l listItem) normalize() listItem {
	for i := len(l) - 1; i >= 0; i-- {
		if l[i].isNull() {
			l = append(l[:i], l[i+1:]...)
			continue
		}
		if _, isList := l[i].(listItem); !isList {
			break
		}
	}
	return l
}

// String renders the list so that distinct lists render differently: every
// sub-list is introduced by '-', including one in first position, so "0-1"
// ([[1]]) renders as "-1" and stays apart from "1".
func (l listItem) String() string {
	var sb strings.Builder
	for i, it := range l {
		if _, isList := it.(listItem); isList {
			sb.WriteByte('-')
		} else if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(it.String())
	}
	return sb.String()
}
