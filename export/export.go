// Package export re-parses formatted log lines into structured entries
// and serializes them to CSV or JSON. It is the derived, file-format
// output surface of the pipeline; it never touches live writers.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	loggerkit "github.com/Vlad-tdk/LoggerKit"
)

// Entry is one re-parsed log record.
type Entry struct {
	Timestamp string
	Category  string
	Level     string
	Message   string
	Source    string
	Line      int
}

// lineRe matches the fixed line format:
//
//	[timestamp] [category] [LEVEL] message (file.go:42)
//
// The message match is greedy so parentheses inside the message bind to
// the message, not to the trailing source location.
var lineRe = regexp.MustCompile(`^\[([^\]]+)\] \[([^\]]*)\] \[([^\]]*)\] (.*) \(([^():]*):(\d+)\)$`)

// ansiRe strips terminal color codes; files written with the ANSI style
// would otherwise never match the level names.
var ansiRe = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// ParseLine re-parses one formatted line. Lines that do not match the
// format (continuation output, corruption) report ok=false and are
// skipped by ParseFile.
func ParseLine(s string) (Entry, bool) {
	s = ansiRe.ReplaceAllString(s, "")
	m := lineRe.FindStringSubmatch(s)
	if m == nil {
		return Entry{}, false
	}

	line, err := strconv.Atoi(m[6])
	if err != nil {
		return Entry{}, false
	}

	return Entry{
		Timestamp: m[1],
		Category:  m[2],
		Level:     normalizeLevel(m[3]),
		Message:   m[4],
		Source:    m[5],
		Line:      line,
	}, true
}

// normalizeLevel reduces a styled label (emoji prefix, custom text) to
// the canonical level name where one can be recognized.
func normalizeLevel(label string) string {
	fields := strings.Fields(label)
	for i := len(fields) - 1; i >= 0; i-- {
		if lvl, ok := loggerkit.ParseLevel(fields[i]); ok {
			return lvl.String()
		}
	}
	return strings.TrimSpace(label)
}

// ParseFile re-parses every well-formed line of one log file.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if e, ok := ParseLine(sc.Text()); ok {
			out = append(out, e)
		}
	}
	return out, sc.Err()
}

// WriteCSV serializes entries with the fixed header. encoding/csv
// quotes fields as needed and doubles internal quotes.
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Timestamp", "Category", "Level", "Message", "Source", "Line"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{e.Timestamp, e.Category, e.Level, e.Message, e.Source, strconv.Itoa(e.Line)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Field order in these structs is alphabetical so the emitted JSON keys
// come out sorted.
type jsonEntry struct {
	Category  string `json:"category"`
	Level     string `json:"level"`
	Line      int    `json:"line"`
	Message   string `json:"message"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

type jsonExport struct {
	Entries    []jsonEntry `json:"entries"`
	EntryCount int         `json:"entryCount"`
	ExportDate string      `json:"exportDate"`
}

// WriteJSON serializes entries as a pretty-printed export document:
// {entries, entryCount, exportDate}.
func WriteJSON(w io.Writer, entries []Entry) error {
	doc := jsonExport{
		Entries:    make([]jsonEntry, 0, len(entries)),
		EntryCount: len(entries),
		ExportDate: time.Now().Format(loggerkit.TimeLayout),
	}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, jsonEntry{
			Category:  e.Category,
			Level:     e.Level,
			Line:      e.Line,
			Message:   e.Message,
			Source:    e.Source,
			Timestamp: e.Timestamp,
		})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
