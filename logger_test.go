package loggerkit

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestLogger_FileOrdering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	reg := NewRegistry()
	lg := reg.NewLogger(Config{
		Category:     "order",
		Destinations: NewDestinations(ToFile),
		FilePath:     path,
		MaxFileSize:  1 << 20,
	})

	const n = 200
	for i := 0; i < n; i++ {
		lg.Info("line %04d", i)
	}
	lg.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != n {
		t.Fatalf("Expected %d lines, got %d", n, len(lines))
	}
	for i, line := range lines {
		want := fmt.Sprintf("line %04d", i)
		if !strings.Contains(line, want) {
			t.Fatalf("Line %d out of order: %q", i, line)
		}
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(WithConsole(&buf))
	lg := reg.NewLogger(Config{
		Category:     "filter",
		MinLevel:     LevelWarning,
		Destinations: NewDestinations(ToConsole),
	})

	lg.Debug("too low")
	lg.Info("too low")
	lg.Warning("passes")
	lg.Error("passes")
	lg.Critical("passes")
	lg.Close()

	out := buf.String()
	if strings.Contains(out, "too low") {
		t.Errorf("Records below MinLevel leaked: %q", out)
	}
	for _, lvl := range []string{"WARNING", "ERROR", "CRITICAL"} {
		if !strings.Contains(out, lvl) {
			t.Errorf("Missing %s record in console output", lvl)
		}
	}
}

func TestLogger_CallerLocation(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(WithConsole(&buf))
	lg := reg.NewLogger(Config{Destinations: NewDestinations(ToConsole)})

	lg.Info("where am I")
	lg.Close()

	if !strings.Contains(buf.String(), "(logger_test.go:") {
		t.Errorf("Caller location not captured: %q", buf.String())
	}
}

func TestLogger_FanOut(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	var buf bytes.Buffer
	reg := NewRegistry(WithConsole(&buf))
	a := &recordingAdapter{}
	reg.Register(a)

	lg := reg.NewLogger(Config{
		Category:     "fanout",
		Destinations: AllDestinations(),
		FilePath:     path,
	})
	lg.Info("everywhere")
	lg.Close()

	if !strings.Contains(buf.String(), "everywhere") {
		t.Error("Console sink missed the record")
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "everywhere") {
		t.Error("File sink missed the record")
	}
	if a.count() != 1 {
		t.Errorf("Adapter sink got %d records, want 1", a.count())
	}
}

func TestLogger_EmptyDestinations(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(WithConsole(&buf))
	lg := reg.NewLogger(Config{Destinations: NewDestinations()})

	lg.Error("nowhere")
	lg.Close()

	if buf.Len() != 0 {
		t.Errorf("Empty destination set must deliver nowhere, got %q", buf.String())
	}
}

func TestLogger_RotationScenario(t *testing.T) {
	// maxFileSize 1024, maxBackups 2, 20 lines of ~60 bytes each:
	// exactly one rotation, so the active file holds the tail, .1 the
	// head, and .2 never appears.
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	reg := NewRegistry()
	lg := reg.NewLogger(Config{
		Category:     "scenario",
		Destinations: NewDestinations(ToFile),
		FilePath:     path,
		MaxFileSize:  1024,
		MaxBackups:   2,
	})

	for i := 0; i < 20; i++ {
		lg.Info("payload %02d %s", i, strings.Repeat("x", 10))
	}
	lg.Close()

	active, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Active file missing: %v", err)
	}
	backup, err := os.ReadFile(path + ".1")
	if err != nil {
		t.Fatalf("Expected exactly one backup: %v", err)
	}
	if _, err := os.Stat(path + ".2"); !os.IsNotExist(err) {
		t.Error("A second backup must not exist after a single rotation")
	}

	if !strings.Contains(string(backup), "payload 00") {
		t.Error("Backup should contain the earliest lines")
	}
	if !strings.Contains(string(active), "payload 19") {
		t.Error("Active file should contain the last line")
	}

	total := strings.Count(string(active), "\n") + strings.Count(string(backup), "\n")
	if total != 20 {
		t.Errorf("Expected all 20 lines across active+backup, got %d", total)
	}
}

func TestLogger_SharedFileNoCorruption(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared.log")
	reg := NewRegistry()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		lg := reg.NewLogger(Config{
			Category:     fmt.Sprintf("worker-%d", w),
			Destinations: NewDestinations(ToFile),
			FilePath:     path,
			MaxFileSize:  2048,
			MaxBackups:   2,
		})
		wg.Add(1)
		go func(lg *Logger) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				lg.Info("msg %03d", i)
			}
			lg.Close()
		}(lg)
	}
	wg.Wait()

	for _, name := range []string{path, path + ".1", path + ".2"} {
		data, err := os.ReadFile(name)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			t.Fatalf("ReadFile %s: %v", name, err)
		}
		for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
			if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, ")") {
				t.Fatalf("Corrupted line in %s: %q", name, line)
			}
		}
	}
}

func TestLogger_FileDisabledWithoutPath(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(WithConsole(&buf))
	lg := reg.NewLogger(Config{
		Destinations: NewDestinations(ToConsole, ToFile),
	})

	// Must not crash or block; console keeps working.
	lg.Info("still alive")
	lg.Close()

	if !strings.Contains(buf.String(), "still alive") {
		t.Error("Console destination should survive a disabled file destination")
	}
}

func TestLogger_FlushDrainsQueue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	reg := NewRegistry()
	lg := reg.NewLogger(Config{
		Destinations: NewDestinations(ToFile),
		FilePath:     path,
	})
	defer lg.Close()

	lg.Info("flushed")
	lg.Flush()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "flushed") {
		t.Error("Flush returned before the record reached the file")
	}
}

func TestRegistry_CloseStopsLoggers(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(WithConsole(&buf))
	lg := reg.NewLogger(Config{Destinations: NewDestinations(ToConsole)})

	lg.Info("before close")
	reg.Close()

	if !strings.Contains(buf.String(), "before close") {
		t.Error("Registry Close should drain loggers before stopping them")
	}

	// Calling Close again is harmless.
	reg.Close()
	lg.Close()
}
