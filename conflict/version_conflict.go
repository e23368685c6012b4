package conflict

import (
	"fmt"

	"github.com/willibrandon/conflictdiff/version"
)

// VersionConflict is one conflict instance of an artifact: the losing
// (omitted) version, the winning (resolved) version and how many times the
// pair occurred. Count is signed; negative counts come out of diffs.
//
// Identity ignores Count: two records are the same iff both versions are
// equal under Maven ordering.
type VersionConflict struct {
	losing  *version.MavenVersion
	winning *version.MavenVersion
	count   int
}

// NewVersionConflict creates a version pair. Both versions are required.
func NewVersionConflict(losing, winning *version.MavenVersion, count int) (VersionConflict, error) {
	if losing == nil {
		return VersionConflict{}, invariantf("losing version cannot be nil")
	}
	if winning == nil {
		return VersionConflict{}, invariantf("winning version cannot be nil")
	}
	return VersionConflict{losing: losing, winning: winning, count: count}, nil
}

// ParseVersionConflict parses both version strings and creates a pair.
func ParseVersionConflict(losing, winning string, count int) (VersionConflict, error) {
	l, err := version.Parse(losing)
	if err != nil {
		return VersionConflict{}, fmt.Errorf("parse losing version %q: %w", losing, err)
	}
	w, err := version.Parse(winning)
	if err != nil {
		return VersionConflict{}, fmt.Errorf("parse winning version %q: %w", winning, err)
	}
	return NewVersionConflict(l, w, count)
}

// MustVersionConflict is ParseVersionConflict that panics on error.
// Intended for tests and static tables.
func MustVersionConflict(losing, winning string, count int) VersionConflict {
	vc, err := ParseVersionConflict(losing, winning, count)
	if err != nil {
		panic(err)
	}
	return vc
}

// LosingVersion returns the omitted version.
func (vc VersionConflict) LosingVersion() *version.MavenVersion {
	return vc.losing
}

// WinningVersion returns the resolved version.
func (vc VersionConflict) WinningVersion() *version.MavenVersion {
	return vc.winning
}

// Count returns the signed occurrence count.
func (vc VersionConflict) Count() int {
	return vc.count
}

// Key returns the identity key derived from the canonical forms of both
// versions. It is stable across runs and ignores Count.
func (vc VersionConflict) Key() string {
	return vc.losing.Canonical() + "->" + vc.winning.Canonical()
}

// Equals reports whether both records describe the same version pair.
func (vc VersionConflict) Equals(other VersionConflict) bool {
	return vc.losing.Equals(other.losing) && vc.winning.Equals(other.winning)
}

// Add returns a new pair whose count is the sum of both counts.
func (vc VersionConflict) Add(other VersionConflict) (VersionConflict, error) {
	if err := vc.checkSamePair(other); err != nil {
		return VersionConflict{}, err
	}
	return VersionConflict{losing: vc.losing, winning: vc.winning, count: vc.count + other.count}, nil
}

// Subtract returns a new pair whose count is vc.Count() - other.Count().
func (vc VersionConflict) Subtract(other VersionConflict) (VersionConflict, error) {
	if err := vc.checkSamePair(other); err != nil {
		return VersionConflict{}, err
	}
	return VersionConflict{losing: vc.losing, winning: vc.winning, count: vc.count - other.count}, nil
}

// Negate returns the pair with its count sign flipped.
func (vc VersionConflict) Negate() VersionConflict {
	return VersionConflict{losing: vc.losing, winning: vc.winning, count: -vc.count}
}

// WithCount returns a copy of the pair carrying a different count.
func (vc VersionConflict) WithCount(count int) VersionConflict {
	return VersionConflict{losing: vc.losing, winning: vc.winning, count: count}
}

// Direction classifies the pair as an upgrade, downgrade or equal.
func (vc VersionConflict) Direction() Direction {
	return DirectionOf(vc.losing, vc.winning)
}

// String returns a readable form, e.g. "5.3.21 -> 5.3.20 (x2)".
func (vc VersionConflict) String() string {
	return fmt.Sprintf("%s -> %s (x%d)", vc.losing, vc.winning, vc.count)
}

func (vc VersionConflict) checkSamePair(other VersionConflict) error {
	if vc.losing == nil || vc.winning == nil || other.losing == nil || other.winning == nil {
		return invariantf("version pair is missing a version")
	}
	if !vc.losing.Equals(other.losing) {
		return invariantf("losing versions must be the same: %s vs %s", vc.losing, other.losing)
	}
	if !vc.winning.Equals(other.winning) {
		return invariantf("winning versions must be the same: %s vs %s", vc.winning, other.winning)
	}
	return nil
}
