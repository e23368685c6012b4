package conflict

import "github.com/willibrandon/conflictdiff/version"

// Direction is the presentation classification of a version pair.
type Direction int

const (
	// DirectionEqual means both versions order the same; a data-quality
	// signal rather than an error
	DirectionEqual Direction = iota
	// DirectionUpgrade means the losing version orders below the winner
	DirectionUpgrade
	// DirectionDowngrade means the losing version orders above the winner
	DirectionDowngrade
)

// String returns the report label of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionUpgrade:
		return "UPGRADE"
	case DirectionDowngrade:
		return "DOWNGRADE"
	default:
		return "EQUAL"
	}
}

// DirectionOf classifies a losing/winning version pair.
func DirectionOf(losing, winning *version.MavenVersion) Direction {
	switch c := losing.Compare(winning); {
	case c < 0:
		return DirectionUpgrade
	case c > 0:
		return DirectionDowngrade
	default:
		return DirectionEqual
	}
}

// DirectionCounts tallies version pairs per direction. Each pair counts once,
// regardless of its occurrence count.
type DirectionCounts struct {
	Upgrades   int
	Downgrades int
	Equal      int
}

// Tally classifies every pair of every conflict.
func Tally(conflicts []*DependencyConflict) DirectionCounts {
	var dc DirectionCounts
	for _, c := range conflicts {
		for _, vc := range c.Conflicts() {
			switch vc.Direction() {
			case DirectionUpgrade:
				dc.Upgrades++
			case DirectionDowngrade:
				dc.Downgrades++
			default:
				dc.Equal++
			}
		}
	}
	return dc
}

// Total returns the number of classified pairs.
func (dc DirectionCounts) Total() int {
	return dc.Upgrades + dc.Downgrades + dc.Equal
}
