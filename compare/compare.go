// Package compare classifies how the dependency conflicts of a current
// snapshot differ from those of a base snapshot.
//
// An artifact conflicting only in base is Resolved, one conflicting only in
// current is New, and one conflicting in both is Changed when the per-pair
// counts differ. Changed entries hold current minus base, so counts are
// signed.
package compare

import (
	"sort"

	"github.com/willibrandon/conflictdiff/conflict"
)

// Category is the classification of an artifact across the two snapshots.
type Category int

const (
	// Resolved conflicts exist in base but not in current
	Resolved Category = iota
	// New conflicts exist in current but not in base
	New
	// Changed conflicts exist in both with different counts
	Changed
)

// Categories lists every category in report order.
var Categories = []Category{Resolved, New, Changed}

// String returns the upper-case category name used in reports.
func (c Category) String() string {
	switch c {
	case Resolved:
		return "RESOLVED"
	case New:
		return "NEW"
	case Changed:
		return "CHANGED"
	}
	return "UNKNOWN"
}

// Result is the outcome of Compare. Each list is sorted by artifact key.
type Result struct {
	Resolved []*conflict.DependencyConflict
	New      []*conflict.DependencyConflict
	Changed  []*conflict.DependencyConflict
}

// Summary holds the number of artifacts per category.
type Summary struct {
	Resolved int `json:"resolved"`
	New      int `json:"new"`
	Changed  int `json:"changed"`
}

// Compare classifies current against base. An artifact key appearing twice in
// one input is a caller error and yields conflict.ErrInvariantViolation.
func Compare(base, current []*conflict.DependencyConflict) (*Result, error) {
	baseByKey, err := index(base, "base")
	if err != nil {
		return nil, err
	}
	currentByKey, err := index(current, "current")
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for key, b := range baseByKey {
		c, ok := currentByKey[key]
		if !ok {
			result.Resolved = append(result.Resolved, b)
			continue
		}

		diff, err := c.Diff(b)
		if err != nil {
			return nil, err
		}
		if !diff.IsEmpty() {
			result.Changed = append(result.Changed, diff)
		}
	}
	for key, c := range currentByKey {
		if _, ok := baseByKey[key]; !ok {
			result.New = append(result.New, c)
		}
	}

	sortByKey(result.Resolved)
	sortByKey(result.New)
	sortByKey(result.Changed)
	return result, nil
}

func index(conflicts []*conflict.DependencyConflict, side string) (map[string]*conflict.DependencyConflict, error) {
	byKey := make(map[string]*conflict.DependencyConflict, len(conflicts))
	for _, dc := range conflicts {
		if dc == nil {
			return nil, invariantf("nil conflict in %s list", side)
		}
		key := dc.ArtifactKey()
		if _, dup := byKey[key]; dup {
			return nil, invariantf("duplicate artifact key %s in %s list", key, side)
		}
		byKey[key] = dc
	}
	return byKey, nil
}

func sortByKey(conflicts []*conflict.DependencyConflict) {
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].ArtifactKey() < conflicts[j].ArtifactKey()
	})
}

// HasChanges reports whether any category is non-empty.
func (r *Result) HasChanges() bool {
	return len(r.Resolved) > 0 || len(r.New) > 0 || len(r.Changed) > 0
}

// Summary returns the artifact count of each category.
func (r *Result) Summary() Summary {
	return Summary{
		Resolved: len(r.Resolved),
		New:      len(r.New),
		Changed:  len(r.Changed),
	}
}

// List returns the artifacts of one category.
func (r *Result) List(c Category) []*conflict.DependencyConflict {
	switch c {
	case Resolved:
		return r.Resolved
	case New:
		return r.New
	case Changed:
		return r.Changed
	}
	return nil
}

// Directions tallies upgrades, downgrades and equal pairs in one category.
func (r *Result) Directions(c Category) conflict.DirectionCounts {
	return conflict.Tally(r.List(c))
}
