package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/willibrandon/conflictdiff/compare"
	"github.com/willibrandon/conflictdiff/conflict"
	"github.com/willibrandon/conflictdiff/version"
)

// CurrentSchemaVersion is the schema version for all JSON outputs
const CurrentSchemaVersion = "1.0.0"

// DiffReport is the JSON form of a base/current comparison.
type DiffReport struct {
	SchemaVersion string             `json:"schemaVersion"`
	RunID         string             `json:"runId"`
	Base          string             `json:"base"`
	Current       string             `json:"current"`
	Strategy      string             `json:"strategy"`
	Resolved      []ArtifactConflict `json:"resolved"`
	New           []ArtifactConflict `json:"new"`
	Changed       []ArtifactConflict `json:"changed"`
	Summary       compare.Summary    `json:"summary"`
	ElapsedMs     int64              `json:"elapsedMs"`
}

// SnapshotReport is the JSON form of the conflicts of one snapshot.
type SnapshotReport struct {
	SchemaVersion string             `json:"schemaVersion"`
	RunID         string             `json:"runId"`
	Snapshot      string             `json:"snapshot"`
	Strategy      string             `json:"strategy"`
	Conflicts     []ArtifactConflict `json:"conflicts"`
	ElapsedMs     int64              `json:"elapsedMs"`
}

// ArtifactConflict lists the version pairs of one artifact.
type ArtifactConflict struct {
	Artifact  string        `json:"artifact"`
	Conflicts []VersionPair `json:"conflicts"`
}

// VersionPair is one losing/winning pair. Count is signed in the changed
// list of a DiffReport.
type VersionPair struct {
	Losing    string `json:"losing"`
	Winning   string `json:"winning"`
	Count     int    `json:"count"`
	Direction string `json:"direction"`
	Jump      string `json:"jump"`
}

// NewDiffReport converts a comparison result into its JSON report.
func NewDiffReport(result *compare.Result, base, current, strategy string, start time.Time) *DiffReport {
	return &DiffReport{
		SchemaVersion: CurrentSchemaVersion,
		RunID:         uuid.NewString(),
		Base:          base,
		Current:       current,
		Strategy:      strategy,
		Resolved:      ToArtifactConflicts(result.Resolved),
		New:           ToArtifactConflicts(result.New),
		Changed:       ToArtifactConflicts(result.Changed),
		Summary:       result.Summary(),
		ElapsedMs:     MeasureElapsed(start),
	}
}

// NewSnapshotReport converts the conflicts of one snapshot into its JSON report.
func NewSnapshotReport(conflicts []*conflict.DependencyConflict, snapshot, strategy string, start time.Time) *SnapshotReport {
	return &SnapshotReport{
		SchemaVersion: CurrentSchemaVersion,
		RunID:         uuid.NewString(),
		Snapshot:      snapshot,
		Strategy:      strategy,
		Conflicts:     ToArtifactConflicts(conflicts),
		ElapsedMs:     MeasureElapsed(start),
	}
}

// ToArtifactConflicts converts aggregates to report entries. The result is
// never nil so that empty lists encode as [].
func ToArtifactConflicts(conflicts []*conflict.DependencyConflict) []ArtifactConflict {
	out := make([]ArtifactConflict, 0, len(conflicts))
	for _, dc := range conflicts {
		entry := ArtifactConflict{Artifact: dc.ArtifactKey(), Conflicts: []VersionPair{}}
		for _, vc := range dc.Conflicts() {
			losing, winning := vc.LosingVersion().String(), vc.WinningVersion().String()
			entry.Conflicts = append(entry.Conflicts, VersionPair{
				Losing:    losing,
				Winning:   winning,
				Count:     vc.Count(),
				Direction: vc.Direction().String(),
				Jump:      version.Jump(losing, winning).String(),
			})
		}
		out = append(out, entry)
	}
	return out
}

// WriteJSON writes a JSON object to the specified writer (typically stdout)
// When --format json is used, ALL JSON goes to stdout and ALL messages go to stderr
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// MeasureElapsed returns elapsed time in milliseconds since start
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
