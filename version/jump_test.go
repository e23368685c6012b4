package version

import "testing"

func TestJump(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		expected JumpKind
	}{
		{"major", "1.2.3", "2.0.0", JumpMajor},
		{"minor", "1.2.3", "1.3.0", JumpMinor},
		{"patch", "5.3.20", "5.3.21", JumpPatch},
		{"coerced short form", "1.2", "1.2.1", JumpPatch},
		{"prerelease only", "2.0.0-RC1", "2.0.0", JumpPrerelease},
		{"same", "1.0", "1.0.0", JumpNone},
		{"not semver", "5.3.21.RELEASE", "5.3.20.RELEASE", JumpOther},
		{"garbage", "abc", "1.0.0", JumpOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jump(tt.from, tt.to); got != tt.expected {
				t.Errorf("Jump(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestJumpKind_String(t *testing.T) {
	tests := []struct {
		kind     JumpKind
		expected string
	}{
		{JumpNone, "none"},
		{JumpPatch, "patch"},
		{JumpMinor, "minor"},
		{JumpMajor, "major"},
		{JumpPrerelease, "prerelease"},
		{JumpOther, "other"},
		{JumpKind(99), "other"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.expected {
			t.Errorf("JumpKind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
		}
	}
}
