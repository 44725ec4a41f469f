// Package loggerkit is a client-side diagnostic logging pipeline. It
// accepts structured records from many call sites, filters them by
// level, formats them into a fixed line format, and fans them out to a
// console writer, size-rotated files and registered external adapters.
// Logging calls never block or fail the caller: delivery runs on each
// logger's private ordered queue and internal errors are reported to
// stderr.
//
// The upload subpackage bundles accumulated log files into a zip
// archive and posts it to a remote endpoint with progress reporting and
// cooperative cancellation. The export subpackage re-parses formatted
// lines and serializes them to CSV or JSON.
package loggerkit
