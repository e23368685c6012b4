package version

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		original  string
		canonical string
	}{
		{"release", "5.3.21", "5.3.21", "5.3.21"},
		{"surrounding space", " 2.0.0 ", "2.0.0", "2"},
		{"uppercase qualifier", "2.0.0-RC1", "2.0.0-RC1", "2-rc-1"},
		{"sub list", "1-1", "1-1", "1-1"},
		{"leading dot", ".1", ".1", "0.1"},
		{"leading null before sub list", "0-1", "0-1", "-1"},
		{"leading release qualifier", "ga.1", "ga.1", ".1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got := v.String(); got != tt.original {
				t.Errorf("String() = %q, want %q", got, tt.original)
			}
			if got := v.Canonical(); got != tt.canonical {
				t.Errorf("Canonical() = %q, want %q", got, tt.canonical)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse("")
	if !errors.Is(err, ErrEmptyVersion) {
		t.Errorf("Parse(\"\") error = %v, want ErrEmptyVersion", err)
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParse should panic on invalid input")
		}
	}()
	MustParse("")
}

func TestMavenVersion_NilReceiver(t *testing.T) {
	var v *MavenVersion
	if v.String() != "" {
		t.Errorf("nil String() = %q, want empty", v.String())
	}
	if v.Canonical() != "" {
		t.Errorf("nil Canonical() = %q, want empty", v.Canonical())
	}
}

func TestCanonical_DistinctForUnequalVersions(t *testing.T) {
	inputs := []string{
		"1", "0-1", "1-1", "1.1", "0.1", "-1", "1--1", "1-0-1", "0-0-1",
		"ga.1", "1.ga.1", "1-ga-1", "1.0.1", "rc", "0-rc", "1-rc", "1rc",
		"1-sp", "1.sp", "1-alpha-1", "1a1", "1.0-SNAPSHOT", "1-snapshot",
		"2.0.Final", "2", "1.2.3", "1.2-3", "1-2.3", "1-2-3",
	}

	for _, a := range inputs {
		for _, b := range inputs {
			va, vb := MustParse(a), MustParse(b)
			sameCanonical := va.Canonical() == vb.Canonical()
			if sameCanonical != va.Equals(vb) {
				t.Errorf("%q (%q) vs %q (%q): same canonical = %v, Equals = %v",
					a, va.Canonical(), b, vb.Canonical(), sameCanonical, va.Equals(vb))
			}
		}
	}
}
