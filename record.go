package loggerkit

import (
	"fmt"
	"time"
)

// TimeLayout is the timestamp layout used in formatted log lines.
const TimeLayout = "2006-01-02 15:04:05.000"

// Record is one structured log event. Records are values and are never
// mutated after creation.
type Record struct {
	Time      time.Time
	Subsystem string
	Category  string
	Level     Level
	Message   string
	File      string
	LineNo    int
}

// Line renders the record in the fixed on-disk format:
//
//	[2006-01-02 15:04:05.000] [category] [LEVEL] message (file.go:42)
//
// The trailing newline is not included.
func (r Record) Line(style Style) string {
	return fmt.Sprintf("[%s] [%s] [%s] %s (%s:%d)",
		r.Time.Format(TimeLayout), r.Category, style.Label(r.Level), r.Message, r.File, r.LineNo)
}
