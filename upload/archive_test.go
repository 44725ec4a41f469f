package upload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
)

func TestPrepareArchive_Selection(t *testing.T) {
	dir := t.TempDir()
	writeLogs(t, dir, "app.log", "net.log", "system.log", "app.log.1")
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	svc := NewService(Config{LogsDir: dir})

	arch, err := svc.PrepareArchive(ArchiveOptions{})
	if err != nil {
		t.Fatalf("PrepareArchive failed: %v", err)
	}
	defer arch.Cleanup()

	got := map[string]bool{}
	for _, name := range arch.Files {
		got[name] = true
	}
	if !got["app.log"] || !got["net.log"] {
		t.Errorf("Active log files missing from selection: %v", arch.Files)
	}
	if got["system.log"] {
		t.Error("System file must be excluded by default")
	}
	if got["app.log.1"] {
		t.Error("Backups must be excluded by default")
	}
	if got["readme.txt"] {
		t.Error("Non-log files must never be selected")
	}
}

func TestPrepareArchive_IncludePolicies(t *testing.T) {
	dir := t.TempDir()
	writeLogs(t, dir, "app.log", "system.log", "app.log.1")

	svc := NewService(Config{LogsDir: dir})
	arch, err := svc.PrepareArchive(ArchiveOptions{IncludeSystem: true, IncludeBackups: true})
	if err != nil {
		t.Fatalf("PrepareArchive failed: %v", err)
	}
	defer arch.Cleanup()

	if len(arch.Files) != 3 {
		t.Errorf("Expected all 3 files with opt-in policy, got %v", arch.Files)
	}
}

func TestPrepareArchive_AgeFilter(t *testing.T) {
	dir := t.TempDir()
	writeLogs(t, dir, "fresh.log", "stale.log")

	old := time.Now().Add(-72 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "stale.log"), old, old); err != nil {
		t.Fatalf("Chtimes failed: %v", err)
	}

	svc := NewService(Config{LogsDir: dir})
	arch, err := svc.PrepareArchive(ArchiveOptions{MaxAge: 24 * time.Hour})
	if err != nil {
		t.Fatalf("PrepareArchive failed: %v", err)
	}
	defer arch.Cleanup()

	if len(arch.Files) != 1 || arch.Files[0] != "fresh.log" {
		t.Errorf("Age filter selected %v, want only fresh.log", arch.Files)
	}
}

func TestPrepareArchive_NoLogs(t *testing.T) {
	svc := NewService(Config{LogsDir: t.TempDir()})
	if _, err := svc.PrepareArchive(ArchiveOptions{}); !errors.Is(err, ErrNoLogsFound) {
		t.Errorf("Expected ErrNoLogsFound, got %v", err)
	}
}

func TestPrepareArchive_ZipIsReadable(t *testing.T) {
	dir := t.TempDir()
	writeLogs(t, dir, "app.log")

	svc := NewService(Config{LogsDir: dir})
	arch, err := svc.PrepareArchive(ArchiveOptions{Name: "bundle.zip"})
	if err != nil {
		t.Fatalf("PrepareArchive failed: %v", err)
	}
	defer arch.Cleanup()

	if filepath.Base(arch.Path) != "bundle.zip" {
		t.Errorf("Archive name override ignored: %s", arch.Path)
	}

	zr, err := zip.OpenReader(arch.Path)
	if err != nil {
		t.Fatalf("Archive is not a readable zip: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 1 || zr.File[0].Name != "app.log" {
		t.Errorf("Unexpected zip contents: %v", zr.File)
	}
}

func TestArchiveCleanup_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeLogs(t, dir, "app.log")

	svc := NewService(Config{LogsDir: dir})
	arch, err := svc.PrepareArchive(ArchiveOptions{})
	if err != nil {
		t.Fatalf("PrepareArchive failed: %v", err)
	}

	arch.Cleanup()
	arch.Cleanup() // second run must not panic or error

	if left := stagedDirs(t, dir); len(left) != 0 {
		t.Errorf("Working directory survived cleanup: %v", left)
	}
	var nilArch *Archive
	nilArch.Cleanup() // nil-safe
}
