package loggerkit

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// task is one unit of work on a logger's private queue: either a record
// to deliver or a flush barrier.
type task struct {
	rec   Record
	flush chan struct{}
}

// Logger delivers records to the sinks selected by its Config. Logging
// calls return immediately; formatting, file writes and adapter
// dispatch run on a private queue drained by one goroutine, so lines
// from one logger reach the file in submission order.
type Logger struct {
	cfg Config
	reg *Registry

	queue   chan task
	done    chan struct{}
	stopped chan struct{}
	closing sync.Once

	fileOK bool
}

// NewLogger creates a logger bound to this registry. When the file
// destination is selected and its directory cannot be created, the file
// destination is disabled (reported once) and the remaining
// destinations keep working.
func (r *Registry) NewLogger(cfg Config) *Logger {
	cfg = cfg.withDefaults()
	l := &Logger{
		cfg:     cfg,
		reg:     r,
		queue:   make(chan task, cfg.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	if cfg.Destinations.Contains(ToFile) {
		if cfg.FilePath == "" {
			fmt.Fprintf(os.Stderr, "loggerkit: file destination disabled: no file path configured\n")
		} else if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "loggerkit: file destination disabled for %s: %v\n", cfg.FilePath, err)
		} else {
			l.fileOK = true
		}
	}

	go l.run()

	r.mu.Lock()
	r.loggers = append(r.loggers, l)
	r.mu.Unlock()

	return l
}

func (l *Logger) Debug(format string, args ...any)    { l.emit(LevelDebug, format, args...) }
func (l *Logger) Info(format string, args ...any)     { l.emit(LevelInfo, format, args...) }
func (l *Logger) Warning(format string, args ...any)  { l.emit(LevelWarning, format, args...) }
func (l *Logger) Error(format string, args ...any)    { l.emit(LevelError, format, args...) }
func (l *Logger) Critical(format string, args ...any) { l.emit(LevelCritical, format, args...) }

// Log records a message at an arbitrary level.
func (l *Logger) Log(level Level, format string, args ...any) {
	l.emit(level, format, args...)
}

func (l *Logger) emit(level Level, format string, args ...any) {
	if level < l.cfg.MinLevel {
		return
	}

	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	// Caller frame of the logging call site. Two frames up: emit and
	// the exported level method.
	file := "???"
	line := 0
	if _, f, n, ok := runtime.Caller(2); ok {
		file = filepath.Base(f)
		line = n
	}

	rec := Record{
		Time:      time.Now(),
		Subsystem: l.cfg.Subsystem,
		Category:  l.cfg.Category,
		Level:     level,
		Message:   msg,
		File:      file,
		LineNo:    line,
	}

	select {
	case l.queue <- task{rec: rec}:
	default:
		// Never block the caller.
		fmt.Fprintf(os.Stderr, "loggerkit: queue full, dropping record for %s\n", l.cfg.Category)
	}
}

// Flush blocks until every record submitted before the call has been
// delivered. Returns immediately on a closed logger.
func (l *Logger) Flush() {
	ch := make(chan struct{})
	select {
	case l.queue <- task{flush: ch}:
	case <-l.stopped:
		return
	}
	select {
	case <-ch:
	case <-l.stopped:
	}
}

// Close drains the queue and stops the worker. Records submitted after
// Close are dropped.
func (l *Logger) Close() {
	l.closing.Do(func() { close(l.done) })
	<-l.stopped
}

func (l *Logger) run() {
	defer close(l.stopped)

	for {
		select {
		case t := <-l.queue:
			l.deliver(t)
		case <-l.done:
			// Flush remaining
			for {
				select {
				case t := <-l.queue:
					l.deliver(t)
				default:
					return
				}
			}
		}
	}
}

// deliver routes one record to the configured sinks. Sink failures are
// independent and must never reach the logging caller.
func (l *Logger) deliver(t task) {
	if t.flush != nil {
		close(t.flush)
		return
	}

	line := t.rec.Line(l.cfg.Style)

	if l.cfg.Destinations.Contains(ToConsole) {
		fmt.Fprintln(l.reg.console, line)
	}

	if l.cfg.Destinations.Contains(ToFile) && l.fileOK {
		err := l.reg.tracker.Append(l.cfg.FilePath, []byte(line+"\n"), l.cfg.MaxFileSize, l.cfg.MaxBackups)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loggerkit: write to %s failed: %v\n", l.cfg.FilePath, err)
		}
	}

	if l.cfg.Destinations.Contains(ToAdapters) {
		l.reg.dispatch(t.rec)
	}
}
