package version

import (
	mm "github.com/Masterminds/semver/v3"
)

// JumpKind describes the largest semantic-versioning component that differs
// between two versions.
type JumpKind int

const (
	// JumpNone means both versions have identical semver components
	JumpNone JumpKind = iota
	// JumpPatch means only the patch component differs
	JumpPatch
	// JumpMinor means the minor component differs
	JumpMinor
	// JumpMajor means the major component differs
	JumpMajor
	// JumpPrerelease means only the prerelease label differs
	JumpPrerelease
	// JumpOther means at least one version is not semver-shaped
	JumpOther
)

// String returns the string representation of JumpKind.
func (j JumpKind) String() string {
	switch j {
	case JumpNone:
		return "none"
	case JumpPatch:
		return "patch"
	case JumpMinor:
		return "minor"
	case JumpMajor:
		return "major"
	case JumpPrerelease:
		return "prerelease"
	default:
		return "other"
	}
}

// Jump classifies the distance between two version strings using
// semantic-versioning coercion ("1.2" is read as "1.2.0").
//
// This is report decoration only; Maven ordering (Compare) stays
// authoritative for upgrade/downgrade decisions.
func Jump(from, to string) JumpKind {
	a, err := mm.NewVersion(from)
	if err != nil {
		return JumpOther
	}
	b, err := mm.NewVersion(to)
	if err != nil {
		return JumpOther
	}

	switch {
	case a.Major() != b.Major():
		return JumpMajor
	case a.Minor() != b.Minor():
		return JumpMinor
	case a.Patch() != b.Patch():
		return JumpPatch
	case a.Prerelease() != b.Prerelease():
		return JumpPrerelease
	default:
		return JumpNone
	}
}
