package testing

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// UpdateSnapshotsEnv names the environment variable that makes MatchesFile
// rewrite golden files instead of comparing against them.
const UpdateSnapshotsEnv = "LISTADAPTER_UPDATE_SNAPSHOTS"

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the rows of a list and the notifications that led to
// them.
type Snapshot struct {
	Rows     []SnapshotRow `yaml:"rows"`
	LoadMore string        `yaml:"loadMore,omitempty"`
	Selected int           `yaml:"selected"`
	Changes  []string      `yaml:"changes,omitempty"`
}

// SnapshotRow is one row of a snapshot.
type SnapshotRow struct {
	Type     string `yaml:"type"`
	Label    string `yaml:"label,omitempty"`
	Selected bool   `yaml:"selected,omitempty"`
}

// CaptureSnapshot captures the current rows and the notifications recorded
// since the last Take on the recorder. Notifications stay recorded.
func (lt *ListTester) CaptureSnapshot() *Snapshot {
	a := lt.adapter
	snap := &Snapshot{Selected: a.Selected()}
	for _, r := range lt.Rows() {
		row := SnapshotRow{Type: r.ViewType.String(), Selected: r.Selected}
		if !r.ViewType.IsDecorator() {
			row.Label = r.Label
		}
		snap.Rows = append(snap.Rows, row)
	}
	if a.LoadMoreEnabled() {
		snap.LoadMore = a.LoadMoreStatus().String()
	}
	for _, c := range lt.recorder.Changes() {
		snap.Changes = append(snap.Changes, c.String())
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// LISTADAPTER_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(UpdateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, UpdateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: %s=1 go test -run %s", path, diff, UpdateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot YAML: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	for i := range max(len(expectedLines), len(actualLines)) {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e == a {
			continue
		}
		if i < len(expectedLines) {
			fmt.Fprintf(&buf, "-%s\n", e)
		}
		if i < len(actualLines) {
			fmt.Fprintf(&buf, "+%s\n", a)
		}
	}

	return buf.String()
}
