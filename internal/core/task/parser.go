package task

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// lineRe is the checklist line grammar:
//
//	- [<status>] <YYYY-MM-DD>[ <HH:MM>] : <description>
//
// status is one of ' ', 'x' or 'X'.
var lineRe = regexp.MustCompile(`^- \[([ xX])\]\s*(\d{4}-\d{2}-\d{2})(?:\s+(\d{2}:\d{2}))?\s*:\s*(.+)$`)

// Parse converts checklist text into tasks in document order. Lines that do not
// match the grammar, or that carry an impossible date or time, are skipped.
func Parse(content string) []Task {
	// strings.Reader never fails, so neither does ParseSource here.
	tasks, _ := ParseSource(strings.NewReader(content), "")
	return tasks
}

// ParseSource reads checklist lines from r, tagging each task with source and
// its 1-based line number. The only error returned is a read error from r.
func ParseSource(r io.Reader, source string) ([]Task, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		tasks  []Task
		lineNo int
	)

	for scanner.Scan() {
		lineNo++

		t, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}

		t.Source = source
		t.Line = lineNo
		tasks = append(tasks, t)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// ParseLine parses a single checklist line. It returns false when the line is
// not a task.
func ParseLine(line string) (Task, bool) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Task{}, false
	}

	date, err := ParseDate(m[2])
	if err != nil {
		return Task{}, false
	}

	var clock *Clock
	if m[3] != "" {
		c, err := ParseClock(m[3])
		if err != nil {
			return Task{}, false
		}
		clock = &c
	}

	desc := strings.TrimSpace(m[4])
	if desc == "" {
		return Task{}, false
	}

	return Task{
		Completed:   strings.EqualFold(m[1], "x"),
		Date:        date,
		Time:        clock,
		Description: desc,
	}, true
}

// Summary counts tasks by kind.
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Timed     int `json:"timed"`
	AllDay    int `json:"all_day"`
}

// Summarize tallies tasks for reporting.
func Summarize(tasks []Task) Summary {
	s := Summary{Total: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
		if t.AllDay() {
			s.AllDay++
		} else {
			s.Timed++
		}
	}
	return s
}
