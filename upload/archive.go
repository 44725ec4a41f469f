package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zip"

	loggerkit "github.com/Vlad-tdk/LoggerKit"
)

// ArchiveOptions is the selection policy for an archive. Pure value.
type ArchiveOptions struct {
	// IncludeSystem keeps the designated system category file.
	IncludeSystem bool
	// IncludeBackups keeps numbered backups (name.log.N).
	IncludeBackups bool
	// MaxAge drops files not modified within the window. Zero disables
	// the age filter.
	MaxAge time.Duration
	// Name overrides the archive file name (default logs-<unix>.zip).
	Name string
}

// Archive is a staged zip bundle of copied log files, isolated from
// live writers in its own working subdirectory.
type Archive struct {
	// Path is the zip file inside the working directory.
	Path string
	// Files are the names of the log files included.
	Files []string

	workDir string
}

// Cleanup removes the working directory and everything staged in it.
// Idempotent: already-gone files are not an error.
func (a *Archive) Cleanup() {
	if a == nil || a.workDir == "" {
		return
	}
	_ = os.RemoveAll(a.workDir)
}

// PrepareArchive selects log files per opts, copies them into an
// isolated working subdirectory so the archive is a consistent
// snapshot, and zips the copies. The caller owns the returned archive
// and must Cleanup it. Returns ErrNoLogsFound when nothing matches;
// nothing touches the network here.
func (s *Service) PrepareArchive(opts ArchiveOptions) (*Archive, error) {
	selected, err := s.selectFiles(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}
	if len(selected) == 0 {
		return nil, ErrNoLogsFound
	}

	workDir := filepath.Join(s.cfg.LogsDir, ".upload-"+uuid.New().String())
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}

	arch := &Archive{workDir: workDir}
	for _, name := range selected {
		src := filepath.Join(s.cfg.LogsDir, name)
		if err := copyFile(src, filepath.Join(workDir, name)); err != nil {
			arch.Cleanup()
			return nil, fmt.Errorf("%w: copy %s: %v", ErrArchiveFailed, name, err)
		}
		arch.Files = append(arch.Files, name)
	}

	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("logs-%d.zip", time.Now().Unix())
	}
	arch.Path = filepath.Join(workDir, name)
	if err := zipFiles(arch.Path, workDir, arch.Files); err != nil {
		arch.Cleanup()
		return nil, fmt.Errorf("%w: %v", ErrArchiveFailed, err)
	}
	return arch, nil
}

// selectFiles enumerates the logs directory and applies the policy:
// log extension only, backups and the system file by opt-in, stale
// files dropped when an age window is set.
func (s *Service) selectFiles(opts ArchiveOptions) ([]string, error) {
	files, err := loggerkit.NewLogDir(s.cfg.LogsDir).List()
	if err != nil {
		return nil, err
	}

	threshold := time.Time{}
	if opts.MaxAge > 0 {
		threshold = time.Now().Add(-opts.MaxAge)
	}

	var out []string
	for _, fi := range files {
		if fi.Backup && !opts.IncludeBackups {
			continue
		}
		if !opts.IncludeSystem && fi.Name == s.cfg.SystemFile {
			continue
		}
		if !threshold.IsZero() && fi.ModTime.Before(threshold) {
			continue
		}
		out = append(out, fi.Name)
	}
	return out, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// zipFiles bundles the named files from dir into one zip at dst.
func zipFiles(dst, dir string, names []string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}

	zw := zip.NewWriter(f)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			f.Close()
			return err
		}
		in, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			f.Close()
			return err
		}
		_, err = io.Copy(w, in)
		in.Close()
		if err != nil {
			f.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
