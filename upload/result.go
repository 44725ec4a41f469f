package upload

import "errors"

// Upload error taxonomy. These are returned inside a Result, never
// thrown across the async boundary; retry policy is the caller's.
var (
	ErrNoLogsFound           = errors.New("no log files matched the archive policy")
	ErrArchiveFailed         = errors.New("failed to build log archive")
	ErrUploadFailed          = errors.New("upload failed")
	ErrInvalidServerResponse = errors.New("invalid server response")
)

// Status classifies the outcome of an upload job.
type Status uint8

const (
	// StatusSuccess: the server answered 2xx and a location was resolved.
	StatusSuccess Status = iota
	// StatusFailed: network error, non-2xx status, or unusable response.
	StatusFailed
	// StatusCancelled: the caller aborted the job before completion.
	StatusCancelled
	// StatusNoLogs: no files matched the policy; no network activity.
	StatusNoLogs
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	case StatusNoLogs:
		return "no_logs"
	}
	return "unknown"
}

// Result is the typed outcome of an upload job. Location is set on
// success; Err on failure.
type Result struct {
	Status   Status
	Location string
	Err      error
}
