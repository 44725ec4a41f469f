// Package upload bundles accumulated log files into a zip archive and
// transfers it to a remote endpoint over multipart HTTP, with streamed
// progress and cooperative cancellation. Outcomes are typed Results;
// nothing here panics across the async boundary.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds one upload request when Config.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// Config is the programmatic setup of the service.
type Config struct {
	// Endpoint receives the multipart POST.
	Endpoint string
	// Headers are attached verbatim to every request (auth, tenant ids).
	Headers map[string]string
	// Timeout bounds one request (default DefaultTimeout). A timeout
	// surfaces as a failed Result, never a hang.
	Timeout time.Duration

	// LogsDir is the directory the file writer produces into.
	LogsDir string
	// SystemFile is the system category file excluded from archives
	// unless the policy opts in (default "system.log").
	SystemFile string

	// Device describes the installation for upload metadata.
	Device DeviceInfo
}

// Service archives and uploads log files. It reads the files produced
// by the write pipeline but is independent of live writers.
type Service struct {
	cfg    Config
	client *http.Client
}

// NewService creates a service with defaults applied.
func NewService(cfg Config) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.SystemFile == "" {
		cfg.SystemFile = "system.log"
	}
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Job is one in-flight transfer. The service does not retain it; the
// caller that started the job owns it.
type Job struct {
	// Progress streams the fraction of bytes sent.
	Progress *Progress

	cancel context.CancelFunc
	done   chan struct{}
	result Result
}

// Cancel aborts the transfer. The in-flight request is interrupted
// cooperatively and the job finishes with StatusCancelled.
func (j *Job) Cancel() {
	j.cancel()
}

// Done is closed when the job has finished and cleanup has run.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes and returns its result.
func (j *Job) Wait() Result {
	<-j.done
	return j.result
}

// Send archives per opts and uploads the bundle, returning immediately
// with a cancelable Job. fields are caller metadata included as plain
// multipart parts. The staged working directory is removed whatever the
// outcome.
func (s *Service) Send(ctx context.Context, opts ArchiveOptions, fields map[string]string) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{Progress: newProgress(), cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(j.done)
		defer cancel()
		defer j.Progress.finish()

		arch, err := s.PrepareArchive(opts)
		if err != nil {
			j.result = classifyPrepare(err)
			return
		}
		defer arch.Cleanup()

		j.result = s.upload(ctx, []string{arch.Path}, fields, j.Progress)
	}()

	return j
}

// StartUpload transfers already-staged archive files without running
// the selection policy. Used when the caller prepared the archive
// itself (e.g. for sharing) and decided to upload it after all.
func (s *Service) StartUpload(ctx context.Context, paths []string, fields map[string]string) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{Progress: newProgress(), cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(j.done)
		defer cancel()
		defer j.Progress.finish()
		j.result = s.upload(ctx, paths, fields, j.Progress)
	}()

	return j
}

func classifyPrepare(err error) Result {
	if errors.Is(err, ErrNoLogsFound) {
		return Result{Status: StatusNoLogs, Err: err}
	}
	return Result{Status: StatusFailed, Err: err}
}

// upload builds the multipart body, posts it with streamed progress and
// classifies the outcome.
func (s *Service) upload(ctx context.Context, paths []string, fields map[string]string, progress *Progress) Result {
	body, contentType, err := buildBody(paths, fields, s.cfg.Device)
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("%w: %v", ErrUploadFailed, err)}
	}

	total := int64(body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint,
		&progressReader{r: bytes.NewReader(body.Bytes()), total: total, progress: progress})
	if err != nil {
		return Result{Status: StatusFailed, Err: fmt.Errorf("%w: %v", ErrUploadFailed, err)}
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", contentType)
	for k, v := range s.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return Result{Status: StatusCancelled}
		}
		return Result{Status: StatusFailed, Err: fmt.Errorf("%w: %v", ErrUploadFailed, err)}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{Status: StatusFailed,
			Err: fmt.Errorf("%w: server returned %d", ErrUploadFailed, resp.StatusCode)}
	}

	location, err := parseLocation(respBody, s.cfg.Endpoint)
	if err != nil {
		return Result{Status: StatusFailed, Err: err}
	}
	return Result{Status: StatusSuccess, Location: location}
}

// buildBody assembles the multipart payload: caller fields, device[...]
// metadata fields, then one logs[] binary part per archive file.
func buildBody(paths []string, fields map[string]string, device DeviceInfo) (*bytes.Buffer, string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	if err := mw.SetBoundary(uuid.New().String()); err != nil {
		return nil, "", err
	}

	if err := writeFields(mw, fields, ""); err != nil {
		return nil, "", err
	}
	if err := writeFields(mw, deviceFields(device), "device"); err != nil {
		return nil, "", err
	}

	for _, path := range paths {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="logs[]"; filename="%s"`, filepath.Base(path)))
		hdr.Set("Content-Type", "application/zip")

		part, err := mw.CreatePart(hdr)
		if err != nil {
			return nil, "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", err
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

// writeFields emits plain form fields in sorted key order, optionally
// namespaced as prefix[key].
func writeFields(mw *multipart.Writer, fields map[string]string, prefix string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = fmt.Sprintf("%s[%s]", prefix, k)
		}
		if err := mw.WriteField(name, fields[k]); err != nil {
			return err
		}
	}
	return nil
}

// progressReader reports bytes-sent over bytes-expected while the HTTP
// client drains the request body.
type progressReader struct {
	r        io.Reader
	total    int64
	sent     int64
	progress *Progress
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.sent += int64(n)
		if pr.total > 0 {
			pr.progress.publish(float64(pr.sent) / float64(pr.total))
		}
	}
	return n, err
}
