package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/models"
)

func sampleArtifacts() []models.Artifact {
	return []models.Artifact{
		{Path: "server.go", Content: "package main\n"},
		{Path: "verify/main.go", Content: "package main\n\nfunc main() {}\n"},
		{Path: ".env.example", Content: "API_BASE_URL=\n"},
	}
}

func TestFileStore_CommitCreatesParentAndFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	store := NewFileStore(common.NewSilentLogger(), dir)

	got, err := store.Commit(t.Context(), sampleArtifacts())
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if filepath.Base(got) != "out" {
		t.Errorf("expected target dir out, got %s", got)
	}

	for _, a := range sampleArtifacts() {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(a.Path)))
		if err != nil {
			t.Fatalf("missing %s: %v", a.Path, err)
		}
		if string(data) != a.Content {
			t.Errorf("%s: expected %q, got %q", a.Path, a.Content, string(data))
		}
	}
}

func TestFileStore_CommitReplacesPreviousArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	store := NewFileStore(common.NewSilentLogger(), dir)

	if _, err := store.Commit(t.Context(), []models.Artifact{{Path: "server.go", Content: "old"}}); err != nil {
		t.Fatalf("first Commit failed: %v", err)
	}
	if _, err := store.Commit(t.Context(), sampleArtifacts()); err != nil {
		t.Fatalf("second Commit failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "server.go"))
	if err != nil || string(data) != "package main\n" {
		t.Errorf("server.go should hold the new content, got %q, %v", string(data), err)
	}
	assertNoStagingLeft(t, dir)
}

func TestFileStore_CommitPreservesForeignFiles(t *testing.T) {
	dir := t.TempDir()
	readme := filepath.Join(dir, "README.md")
	if err := os.WriteFile(readme, []byte("notes"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "verify"), 0755); err != nil {
		t.Fatal(err)
	}
	sibling := filepath.Join(dir, "verify", "extra_test.go")
	if err := os.WriteFile(sibling, []byte("package main\n"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(common.NewSilentLogger(), dir)
	if _, err := store.Commit(t.Context(), sampleArtifacts()); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	for _, path := range []string{readme, sibling} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("existing file should survive a commit: %v", err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "server.go")); err != nil {
		t.Errorf("server.go should be written: %v", err)
	}
	assertNoStagingLeft(t, dir)
}

func TestFileStore_FailedCommitRemovesCreatedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	store := NewFileStore(common.NewSilentLogger(), dir)

	bad := []models.Artifact{{Path: "/abs.txt", Content: "x"}}
	if _, err := store.Commit(t.Context(), bad); err == nil {
		t.Fatal("expected error for absolute path, got nil")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("output dir created by a failed commit should be removed, stat err = %v", err)
	}
}

func assertNoStagingLeft(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), stagingPrefix) {
			t.Errorf("staging entry %s left behind", e.Name())
		}
	}
}

func TestFileStore_FailedCommitLeavesTargetUntouched(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	store := NewFileStore(common.NewSilentLogger(), dir)

	if _, err := store.Commit(t.Context(), []models.Artifact{{Path: "keep.txt", Content: "keep"}}); err != nil {
		t.Fatalf("first Commit failed: %v", err)
	}

	bad := append(sampleArtifacts(), models.Artifact{Path: "../escape.txt", Content: "x"})
	if _, err := store.Commit(t.Context(), bad); err == nil {
		t.Fatal("expected error for escaping path, got nil")
	}

	data, err := os.ReadFile(filepath.Join(dir, "keep.txt"))
	if err != nil || string(data) != "keep" {
		t.Errorf("previous set should survive a failed commit, got %q, %v", string(data), err)
	}
	if _, err := os.Stat(filepath.Join(dir, "server.go")); !os.IsNotExist(err) {
		t.Error("partial artifacts must not appear in the target")
	}
}

func TestFileStore_TargetIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(common.NewSilentLogger(), path)
	if _, err := store.Commit(t.Context(), sampleArtifacts()); err == nil {
		t.Error("expected error when target is a file, got nil")
	}
}

func TestFileStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	store := NewFileStore(common.NewSilentLogger(), filepath.Join(t.TempDir(), "out"))
	if _, err := store.Commit(ctx, sampleArtifacts()); err == nil {
		t.Error("expected error for cancelled context, got nil")
	}
}

func TestMemoryStore_Commit(t *testing.T) {
	store := NewMemoryStore(common.NewSilentLogger())

	if _, err := store.Commit(t.Context(), sampleArtifacts()); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	paths := store.Paths()
	if len(paths) != 3 || paths[0] != ".env.example" || paths[2] != "verify/main.go" {
		t.Errorf("unexpected paths %v", paths)
	}
	if content, ok := store.Get("server.go"); !ok || content != "package main\n" {
		t.Errorf("unexpected server.go content %q", content)
	}
	if store.Commits() != 1 {
		t.Errorf("expected 1 commit, got %d", store.Commits())
	}
}

func TestMemoryStore_RejectsDuplicatePaths(t *testing.T) {
	store := NewMemoryStore(common.NewSilentLogger())
	_, err := store.Commit(t.Context(), []models.Artifact{{Path: "a"}, {Path: "a"}})
	if err == nil {
		t.Error("expected error for duplicate path, got nil")
	}
}

func TestNewArtifactStore(t *testing.T) {
	logger := common.NewSilentLogger()
	if _, ok := NewArtifactStore(logger, "out", true).(*MemoryStore); !ok {
		t.Error("dry run should use MemoryStore")
	}
	if fs, ok := NewArtifactStore(logger, "out", false).(*FileStore); !ok || fs.Dir() != "out" {
		t.Error("expected FileStore rooted at out")
	}
}
