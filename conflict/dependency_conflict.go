package conflict

import (
	"maps"
	"slices"
	"strings"
)

// DependencyConflict aggregates the version conflicts of one artifact,
// identified by its "groupId:artifactId" key.
//
// Records are keyed by VersionConflict.Key. A stored record never has a zero
// count: any merge that cancels a record to zero removes it.
type DependencyConflict struct {
	artifactKey string
	conflicts   map[string]VersionConflict
}

// NewDependencyConflict creates an aggregate for artifactKey seeded with the
// given pairs (merged with AddConflict).
func NewDependencyConflict(artifactKey string, pairs ...VersionConflict) (*DependencyConflict, error) {
	if artifactKey == "" {
		return nil, invariantf("artifact key cannot be empty")
	}

	dc := &DependencyConflict{
		artifactKey: artifactKey,
		conflicts:   make(map[string]VersionConflict, len(pairs)),
	}
	for _, p := range pairs {
		if err := dc.AddConflict(p); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

// ArtifactKey returns the artifact identity.
func (dc *DependencyConflict) ArtifactKey() string {
	return dc.artifactKey
}

// Len returns the number of stored version pairs.
func (dc *DependencyConflict) Len() int {
	return len(dc.conflicts)
}

// IsEmpty reports whether no version pair is stored.
func (dc *DependencyConflict) IsEmpty() bool {
	return len(dc.conflicts) == 0
}

// Get returns the stored record for an identity key.
func (dc *DependencyConflict) Get(key string) (VersionConflict, bool) {
	vc, ok := dc.conflicts[key]
	return vc, ok
}

// Total returns the sum of all stored counts.
func (dc *DependencyConflict) Total() int {
	total := 0
	for _, vc := range dc.conflicts {
		total += vc.count
	}
	return total
}

// Conflicts returns the stored pairs ordered by losing version, then winning
// version (Maven ordering), then identity key.
func (dc *DependencyConflict) Conflicts() []VersionConflict {
	out := slices.Collect(maps.Values(dc.conflicts))
	slices.SortFunc(out, func(a, b VersionConflict) int {
		if c := a.losing.Compare(b.losing); c != 0 {
			return c
		}
		if c := a.winning.Compare(b.winning); c != 0 {
			return c
		}
		return strings.Compare(a.Key(), b.Key())
	})
	return out
}

// Clone returns an independent copy of the aggregate.
func (dc *DependencyConflict) Clone() *DependencyConflict {
	return &DependencyConflict{
		artifactKey: dc.artifactKey,
		conflicts:   maps.Clone(dc.conflicts),
	}
}

// AddConflict merges pair into the aggregate. A zero-count pair is a no-op.
// A pair without an existing record is inserted as-is, even if negative.
func (dc *DependencyConflict) AddConflict(pair VersionConflict) error {
	return dc.combine(pair, 1)
}

// SubtractConflict removes pair's count from the aggregate. A pair without
// an existing record is inserted with its count negated.
func (dc *DependencyConflict) SubtractConflict(pair VersionConflict) error {
	return dc.combine(pair, -1)
}

// combine is the single merge primitive behind AddConflict and
// SubtractConflict. sign is +1 or -1.
func (dc *DependencyConflict) combine(pair VersionConflict, sign int) error {
	if pair.losing == nil || pair.winning == nil {
		return invariantf("version pair is missing a version")
	}
	if pair.count == 0 {
		return nil
	}

	key := pair.Key()
	existing, ok := dc.conflicts[key]
	if !ok {
		dc.conflicts[key] = pair.WithCount(sign * pair.count)
		return nil
	}

	var merged VersionConflict
	var err error
	if sign > 0 {
		merged, err = existing.Add(pair)
	} else {
		merged, err = existing.Subtract(pair)
	}
	if err != nil {
		return err
	}

	if merged.count == 0 {
		delete(dc.conflicts, key)
		return nil
	}
	dc.conflicts[key] = merged
	return nil
}

// Add merges every record of other into dc in place. The artifact keys must
// match. On error dc is left unchanged.
func (dc *DependencyConflict) Add(other *DependencyConflict) error {
	if err := dc.checkSameArtifact(other); err != nil {
		return err
	}

	staged := dc.Clone()
	for _, vc := range other.conflicts {
		if err := staged.AddConflict(vc); err != nil {
			return err
		}
	}
	dc.conflicts = staged.conflicts
	return nil
}

// Union is the same as Add.
func (dc *DependencyConflict) Union(other *DependencyConflict) error {
	return dc.Add(other)
}

// Diff returns a new aggregate holding dc minus base: pairs present in both
// carry the count difference, pairs only in dc keep their count, pairs only
// in base carry their negated count, and pairs that cancel are absent.
// x.Diff(x) is always empty.
func (dc *DependencyConflict) Diff(base *DependencyConflict) (*DependencyConflict, error) {
	if err := dc.checkSameArtifact(base); err != nil {
		return nil, err
	}

	result := &DependencyConflict{
		artifactKey: dc.artifactKey,
		conflicts:   make(map[string]VersionConflict, len(dc.conflicts)+len(base.conflicts)),
	}
	for _, vc := range dc.conflicts {
		if err := result.AddConflict(vc); err != nil {
			return nil, err
		}
	}
	for _, vc := range base.conflicts {
		if err := result.SubtractConflict(vc); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Negate returns a new aggregate with every count sign flipped.
func (dc *DependencyConflict) Negate() *DependencyConflict {
	out := &DependencyConflict{
		artifactKey: dc.artifactKey,
		conflicts:   make(map[string]VersionConflict, len(dc.conflicts)),
	}
	for k, vc := range dc.conflicts {
		out.conflicts[k] = vc.Negate()
	}
	return out
}

// Equals reports whether both aggregates hold the same artifact key and the
// same pairs with the same counts.
func (dc *DependencyConflict) Equals(other *DependencyConflict) bool {
	if other == nil || dc.artifactKey != other.artifactKey || len(dc.conflicts) != len(other.conflicts) {
		return false
	}
	for k, vc := range dc.conflicts {
		o, ok := other.conflicts[k]
		if !ok || o.count != vc.count {
			return false
		}
	}
	return true
}

func (dc *DependencyConflict) checkSameArtifact(other *DependencyConflict) error {
	if other == nil {
		return invariantf("dependency conflict cannot be nil")
	}
	if dc.artifactKey != other.artifactKey {
		return invariantf("artifact keys must be the same: %s vs %s", dc.artifactKey, other.artifactKey)
	}
	return nil
}
