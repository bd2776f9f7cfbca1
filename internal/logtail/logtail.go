package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Entry is one porch log line split into its parts. Lines that do not
// follow the porch format keep only Raw and Message.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Raw     string
}

// Read returns at most maxLines from the end of the file at path. A
// missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	return tail(file, maxLines)
}

// tail keeps the last maxLines lines of r in a ring.
func tail(r io.Reader, maxLines int) ([]string, error) {
	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, next := 0, 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		count = min(count+1, maxLines)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	out := make([]string, count)
	start := 0
	if count == maxLines {
		start = next
	}
	for i := range out {
		out[i] = ring[(start+i)%maxLines]
	}
	return out, nil
}

// Parse splits a line written by the logs package:
//
//	2025-01-01T07:00:00Z [INFO] push channel open url=ws://...
func Parse(line string) Entry {
	e := Entry{Raw: line, Message: line}
	stamp, rest, ok := strings.Cut(line, " ")
	if !ok {
		return e
	}
	ts, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return e
	}
	if !strings.HasPrefix(rest, "[") {
		return e
	}
	level, msg, ok := strings.Cut(rest[1:], "] ")
	if !ok {
		return e
	}
	e.Time = ts
	e.Level = level
	e.Message = msg
	return e
}

var levelRank = map[string]int{"DEBUG": 0, "INFO": 1, "ERROR": 2}

// AtLeast reports whether e is at or above minLevel. Unparsed lines and
// unknown levels always pass.
func (e Entry) AtLeast(minLevel string) bool {
	want, ok := levelRank[strings.ToUpper(minLevel)]
	if !ok || e.Level == "" {
		return true
	}
	got, ok := levelRank[e.Level]
	return !ok || got >= want
}

var (
	timeColor  = color.New(color.FgHiBlack)
	debugColor = color.New(color.FgCyan)
	infoColor  = color.New(color.FgGreen, color.Bold)
	errorColor = color.New(color.FgRed, color.Bold)
)

// Colorize renders e for a terminal. Unparsed lines are returned as is.
func Colorize(e Entry) string {
	if e.Level == "" {
		return e.Raw
	}
	lvl := e.Level
	switch e.Level {
	case "DEBUG":
		lvl = debugColor.Sprint(e.Level)
	case "INFO":
		lvl = infoColor.Sprint(e.Level)
	case "ERROR":
		lvl = errorColor.Sprint(e.Level)
	}
	return timeColor.Sprint(e.Time.Local().Format("2006-01-02 15:04:05")) + " " + lvl + " " + e.Message
}

// Follow prints lines appended to path after offset until stop is closed,
// polling every interval. It returns the final offset.
func Follow(path string, offset int64, interval time.Duration, stop <-chan struct{}, emit func(string)) (int64, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return offset, nil
		case <-ticker.C:
		}
		next, err := readFrom(path, offset, emit)
		if err != nil {
			return offset, err
		}
		offset = next
	}
}

// Size returns the current size of path, zero when it does not exist.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	return info.Size(), nil
}

func readFrom(path string, offset int64, emit func(string)) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return offset, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return offset, fmt.Errorf("stat log: %w", err)
	}
	if info.Size() < offset {
		offset = 0 // truncated or rotated
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return offset, fmt.Errorf("seek log: %w", err)
	}
	reader := bufio.NewReader(file)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			// A partial last line is picked up on the next poll.
			return offset, nil
		}
		offset += int64(len(line))
		emit(strings.TrimRight(line, "\r\n"))
	}
}
