package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	hookrpc "yogavrita/internal/modules/hook/adapter/out/rpc"
)

func request(id string, seconds int32) *hookrpc.CompletionRequest {
	return &hookrpc.CompletionRequest{
		RecordID:        id,
		Date:            "2026-03-09",
		Day:             "Monday",
		CompletedAt:     "2026-03-09T07:15:00Z",
		DurationSeconds: seconds,
		CurrentStreak:   4,
		LongestStreak:   9,
	}
}

func TestWriteEntryAppendsSessionsAndKeepsNotes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path, err := writeEntry(dir, request("r1", 480))
	if err != nil {
		t.Fatalf("first entry: %v", err)
	}
	if filepath.Base(path) != "2026-03-09-monday.md" {
		t.Fatalf("unexpected note name %s", path)
	}

	raw, _ := os.ReadFile(path)
	edited := strings.Replace(string(raw), "# Monday practice\n", "# Monday practice\nfelt strong\n", 1)
	if err := os.WriteFile(path, []byte(edited), 0o644); err != nil {
		t.Fatalf("edit note: %v", err)
	}

	if _, err := writeEntry(dir, request("r2", 60)); err != nil {
		t.Fatalf("second entry: %v", err)
	}
	if _, err := writeEntry(dir, request("r2", 60)); err != nil {
		t.Fatalf("replayed entry: %v", err)
	}

	raw, _ = os.ReadFile(path)
	n, err := parseNote(string(raw))
	if err != nil {
		t.Fatalf("parse note: %v", err)
	}
	if n.meta.TotalSeconds != 540 {
		t.Fatalf("expected 540 total seconds, got %d", n.meta.TotalSeconds)
	}
	if len(n.meta.Sessions) != 2 {
		t.Fatalf("expected two sessions, got %v", n.meta.Sessions)
	}
	if !strings.Contains(n.body, "felt strong") {
		t.Fatalf("user text lost:\n%s", n.body)
	}
	if strings.Count(n.body, "- 07:15 r") != 2 {
		t.Fatalf("expected two session lines:\n%s", n.body)
	}
}

func TestWriteEntryRequiresIdentity(t *testing.T) {
	t.Parallel()
	if _, err := writeEntry(t.TempDir(), &hookrpc.CompletionRequest{Day: "Monday"}); err == nil {
		t.Fatalf("expected missing date error")
	}
}

func TestSyncBlockRestoresRemovedBlock(t *testing.T) {
	t.Parallel()
	n := note{body: "# Monday practice\nno block here"}
	n.meta.Sessions = []string{"07:15 r1 (8m0s, streak 1)"}
	n.syncBlock()
	want := "# Monday practice\nno block here\n\n" + blockStart + "\n- 07:15 r1 (8m0s, streak 1)\n" + blockEnd + "\n"
	if n.body != want {
		t.Fatalf("unexpected body:\n%q", n.body)
	}
}

func TestParseNoteRejectsOpenFrontmatter(t *testing.T) {
	t.Parallel()
	if _, err := parseNote("---\ndate: 2026-03-09\n"); err == nil {
		t.Fatalf("expected unclosed frontmatter error")
	}
}

func TestFileName(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Monday":         "2026-03-09-monday.md",
		"  Rest & Flow ": "2026-03-09-rest-flow.md",
		"":               "2026-03-09-practice.md",
	}
	for day, want := range cases {
		if got := fileName("2026-03-09", day); got != want {
			t.Fatalf("fileName(%q) = %q, want %q", day, got, want)
		}
	}
}
