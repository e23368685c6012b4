package output

import (
	"fmt"

	"github.com/willibrandon/conflictdiff/compare"
	"github.com/willibrandon/conflictdiff/conflict"
)

var sectionTitles = map[compare.Category]string{
	compare.Resolved: "RESOLVED CONFLICTS (present in %s but not in %s):",
	compare.New:      "NEW CONFLICTS (present in %s but not in %s):",
	compare.Changed:  "CHANGED CONFLICTS (difference between %s and %s):",
}

// RenderDiff writes the console report of a comparison: one table per
// non-empty category, each followed by its direction summary, then a
// SUMMARY line.
func RenderDiff(c *Console, result *compare.Result, base, current string) error {
	if !result.HasChanges() {
		c.Success("No new conflicts found in %s!", current)
		return nil
	}

	c.Printf("Transitive dependency conflict differences found between %s and %s:\n\n", base, current)

	for _, category := range compare.Categories {
		list := result.List(category)
		if len(list) == 0 {
			continue
		}

		title := sectionTitles[category]
		if category == compare.New {
			title = fmt.Sprintf(title, current, base)
		} else {
			title = fmt.Sprintf(title, base, current)
		}
		c.heading(category, title)

		err := WriteConflictTable(c.Out(), list, TableOptions{
			SignedCounts: category == compare.Changed,
			Colors:       c.ColorsEnabled(),
		})
		if err != nil {
			return err
		}
		c.directions(result.Directions(category))
		c.Println()
	}

	s := result.Summary()
	c.Printf("SUMMARY: %d resolved, %d new, %d changed\n", s.Resolved, s.New, s.Changed)
	return nil
}

// RenderSnapshot writes the conflicts of one snapshot.
func RenderSnapshot(c *Console, conflicts []*conflict.DependencyConflict, snapshot string) error {
	if len(conflicts) == 0 {
		c.Success("No dependency conflicts found in %s", snapshot)
		return nil
	}

	c.Printf("%d conflicting artifacts in %s:\n", len(conflicts), snapshot)
	if err := WriteConflictTable(c.Out(), conflicts, TableOptions{Colors: c.ColorsEnabled()}); err != nil {
		return err
	}
	c.directions(conflict.Tally(conflicts))
	return nil
}

func (c *Console) heading(category compare.Category, title string) {
	col := ColorInfo
	switch category {
	case compare.Resolved:
		col = ColorSuccess
	case compare.New:
		col = ColorError
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.colors {
		_, _ = col.Fprintln(c.out, title)
		return
	}
	_, _ = fmt.Fprintln(c.out, title)
}

func (c *Console) directions(dc conflict.DirectionCounts) {
	summary := FormatDirections(dc)
	if summary == "" {
		return
	}
	c.Printf("   %s\n", summary)
	if dc.Downgrades > 0 {
		c.Detail("   Downgrades may indicate missing features or compatibility issues")
	}
}
