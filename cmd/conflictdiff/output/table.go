package output

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/willibrandon/conflictdiff/conflict"
)

// TableOptions controls WriteConflictTable.
type TableOptions struct {
	// SignedCounts prints positive counts with a leading "+"
	SignedCounts bool

	// Colors highlights the TYPE column
	Colors bool
}

// WriteConflictTable writes one row per version pair with the columns
// ARTIFACT, VERSION CONFLICT, TYPE and COUNT. The artifact key is printed on
// the first row of its pairs only.
func WriteConflictTable(w io.Writer, conflicts []*conflict.DependencyConflict, opts TableOptions) error {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(tw, "ARTIFACT\tVERSION CONFLICT\tTYPE\tCOUNT")
	for _, dc := range conflicts {
		artifact := dc.ArtifactKey()
		for _, vc := range dc.Conflicts() {
			_, _ = fmt.Fprintf(tw, "%s\t%s -> %s\t%s\t%s\n",
				artifact,
				vc.LosingVersion(), vc.WinningVersion(),
				vc.Direction(),
				formatCount(vc.Count(), opts.SignedCounts))
			artifact = ""
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	width := 0
	for _, line := range lines {
		width = max(width, len(strings.TrimRight(line, " ")))
	}
	rule := strings.Repeat("-", width)

	var out strings.Builder
	out.WriteString(rule + "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " ")
		if i > 0 && opts.Colors {
			line = colorizeDirection(line)
		}
		out.WriteString(line + "\n")
		if i == 0 {
			out.WriteString(rule + "\n")
		}
	}
	out.WriteString(rule + "\n")

	_, err := io.WriteString(w, out.String())
	return err
}

func formatCount(count int, signed bool) string {
	if signed && count > 0 {
		return "+" + strconv.Itoa(count)
	}
	return strconv.Itoa(count)
}

// colorizeDirection colors the direction label of a rendered row. Padding is
// already applied, so the escape codes do not disturb alignment.
func colorizeDirection(line string) string {
	for _, d := range []struct {
		label string
		color *color.Color
	}{
		{conflict.DirectionDowngrade.String(), ColorDowngrade},
		{conflict.DirectionUpgrade.String(), ColorUpgrade},
		{conflict.DirectionEqual.String(), ColorEqual},
	} {
		token := "  " + d.label + "  "
		if i := strings.Index(line, token); i >= 0 {
			return line[:i+2] + d.color.Sprint(d.label) + line[i+2+len(d.label):]
		}
	}
	return line
}

// FormatDirections renders a direction tally, e.g. "2 upgrades, 1 downgrades".
// It returns "" when the tally is empty.
func FormatDirections(dc conflict.DirectionCounts) string {
	var parts []string
	if dc.Upgrades > 0 {
		parts = append(parts, fmt.Sprintf("%d upgrades", dc.Upgrades))
	}
	if dc.Downgrades > 0 {
		parts = append(parts, fmt.Sprintf("%d downgrades", dc.Downgrades))
	}
	if dc.Equal > 0 {
		parts = append(parts, fmt.Sprintf("%d equal", dc.Equal))
	}
	return strings.Join(parts, ", ")
}
