package loggerkit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Vlad-tdk/LoggerKit/internal/engine"
)

// LogExt is the extension of files managed by the pipeline.
const LogExt = ".log"

// FileInfo describes one file in the logs directory.
type FileInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
	Backup  bool // numbered backup, e.g. app.log.2
}

// LogDir is the read side of the pipeline: the flat query interface the
// viewing surface is built on. It lists, reads, clears and deletes the
// line-oriented files produced by the file writer.
type LogDir struct {
	path    string
	tracker *engine.Tracker
}

// LogDir returns a view over dir that keeps the registry's size cache
// consistent when files are cleared or deleted.
func (r *Registry) LogDir(dir string) *LogDir {
	return &LogDir{path: dir, tracker: r.tracker}
}

// NewLogDir returns a standalone view over dir, for consumers that only
// read (e.g. a viewer process without live writers).
func NewLogDir(dir string) *LogDir {
	return &LogDir{path: dir}
}

// Path returns the directory this view is bound to.
func (d *LogDir) Path() string {
	return d.path
}

// List enumerates the log files in the directory, active files and
// numbered backups alike, sorted by name.
func (d *LogDir) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		backup, ok := isLogName(name)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, FileInfo{
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Backup:  backup,
		})
	}
	return out, nil
}

// Read returns the full text of one file.
func (d *LogDir) Read(name string) (string, error) {
	path, err := d.resolve(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Delete removes one file and invalidates its cached size.
func (d *LogDir) Delete(name string) error {
	path, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	d.invalidate(path)
	return nil
}

// Clear truncates one file to zero length and invalidates its cached
// size. The file keeps existing, so live writers are unaffected.
func (d *LogDir) Clear(name string) error {
	path, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Truncate(path, 0); err != nil {
		return err
	}
	d.invalidate(path)
	return nil
}

// Match is one line matched by Search.
type Match struct {
	File string
	Line int
	Text string
}

// Search scans every log file for lines containing substr
// (case-insensitive) and returns the matches in file order.
func (d *LogDir) Search(substr string) ([]Match, error) {
	files, err := d.List()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(substr)
	var out []Match
	for _, fi := range files {
		f, err := os.Open(filepath.Join(d.path, fi.Name))
		if err != nil {
			continue
		}
		sc := bufio.NewScanner(f)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		n := 0
		for sc.Scan() {
			n++
			if strings.Contains(strings.ToLower(sc.Text()), needle) {
				out = append(out, Match{File: fi.Name, Line: n, Text: sc.Text()})
			}
		}
		f.Close()
	}
	return out, nil
}

// Purge deletes log files whose modification time is older than maxAge
// and returns the number removed. Removal failures are skipped; the
// remaining candidates are still attempted.
func (d *LogDir) Purge(maxAge time.Duration) (int, error) {
	files, err := d.List()
	if err != nil {
		return 0, err
	}

	threshold := time.Now().Add(-maxAge)
	removed := 0
	for _, fi := range files {
		if fi.ModTime.After(threshold) {
			continue
		}
		path := filepath.Join(d.path, fi.Name)
		if err := os.Remove(path); err != nil {
			continue
		}
		d.invalidate(path)
		removed++
	}
	return removed, nil
}

func (d *LogDir) invalidate(path string) {
	if d.tracker != nil {
		d.tracker.Invalidate(path)
	}
}

// resolve joins name onto the directory and rejects anything escaping it.
func (d *LogDir) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid log file name %q", name)
	}
	return filepath.Join(d.path, name), nil
}

// isLogName reports whether name is a managed log file, and whether it
// is a numbered backup (name.log.N).
func isLogName(name string) (backup, ok bool) {
	if strings.HasSuffix(name, LogExt) {
		return false, true
	}
	// Backup chain: strip the trailing .N and look for the extension.
	ext := filepath.Ext(name)
	if len(ext) < 2 {
		return false, false
	}
	for _, c := range ext[1:] {
		if c < '0' || c > '9' {
			return false, false
		}
	}
	return true, strings.HasSuffix(strings.TrimSuffix(name, ext), LogExt)
}
