// Package engine implements the shared file writer and rotation engine.
// A single Tracker is shared by every logger in a registry, so loggers
// that target the same file observe one consistent size and never race
// on rotation.
package engine

import (
	"fmt"
	"log"
	"os"
	"sync"
)

// Tracker caches the current size of each target file so appends do not
// stat the file on every write. States are keyed by file identity (the
// cleaned path), created lazily on first write and kept for the process
// lifetime.
type Tracker struct {
	mu    sync.Mutex
	files map[string]*fileState
}

// fileState serializes all appends to one file across loggers.
// size is the cached byte count; it resets to 0 on rotation and starts
// at 0 for a path the tracker has not seen.
type fileState struct {
	mu   sync.Mutex
	size int64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{files: make(map[string]*fileState)}
}

func (t *Tracker) state(path string) *fileState {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.files[path]
	if !ok {
		st = &fileState{}
		t.files[path] = st
	}
	return st
}

// Size returns the cached size for path (0 if unseen).
func (t *Tracker) Size(path string) int64 {
	st := t.state(path)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.size
}

// Invalidate resets the cached size for path. Called when the file is
// cleared or deleted outside the write pipeline.
func (t *Tracker) Invalidate(path string) {
	st := t.state(path)
	st.mu.Lock()
	st.size = 0
	st.mu.Unlock()
}

// Append writes data to path, rotating first when the cached size has
// reached maxSize. The append is created-if-missing and strictly
// serialized per file identity.
//
// A rotation failure is logged and skipped; the append still proceeds,
// so the file may temporarily exceed maxSize. The next append retries
// the rotation.
func (t *Tracker) Append(path string, data []byte, maxSize int64, maxBackups int) error {
	st := t.state(path)
	st.mu.Lock()
	defer st.mu.Unlock()

	if maxSize > 0 && st.size >= maxSize {
		if err := rotate(path, maxBackups); err != nil {
			log.Printf("loggerkit: rotation of %s skipped: %v", path, err)
		} else {
			st.size = 0
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	n, err := f.Write(data)
	st.size += int64(n)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// BackupName returns the numbered backup path: file.log -> file.log.N.
func BackupName(path string, n int) string {
	return fmt.Sprintf("%s.%d", path, n)
}

// rotate retires the active file at path into the numbered backup
// chain, evicting the oldest backup when the chain is full:
//
//	drop path.N, shift path.i -> path.i+1 for i = N-1..1, path -> path.1
//
// With maxBackups < 1 the active file is simply removed. The active
// file is absent afterwards; the next append recreates it empty.
func rotate(path string, maxBackups int) error {
	if maxBackups < 1 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}

	oldest := BackupName(path, maxBackups)
	if _, err := os.Stat(oldest); err == nil {
		if err := os.Remove(oldest); err != nil {
			return err
		}
	}

	for i := maxBackups - 1; i >= 1; i-- {
		src := BackupName(path, i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, BackupName(path, i+1)); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil {
		return os.Rename(path, BackupName(path, 1))
	}
	return nil
}
