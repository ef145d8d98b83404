package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Attr is one key=value pair after the message.
type Attr struct {
	Key   string
	Value string
}

// Entry is a parsed slog text line.
type Entry struct {
	Raw   string
	Time  string
	Level string
	Msg   string
	Attrs []Attr
}

// Parsed reports whether the line looked like slog output.
func (e Entry) Parsed() bool {
	return e.Level != ""
}

// Component returns the "component: " prefix of the message, if any.
func (e Entry) Component() string {
	if i := strings.Index(e.Msg, ": "); i > 0 && !strings.ContainsAny(e.Msg[:i], " \t") {
		return e.Msg[:i]
	}
	return ""
}

// Parse splits a slog text handler line. Lines in any other format come
// back with only Raw set.
func Parse(line string) Entry {
	entry := Entry{Raw: line}
	pairs, ok := splitPairs(line)
	if !ok {
		return entry
	}
	for _, p := range pairs {
		switch p.Key {
		case slog.TimeKey:
			entry.Time = p.Value
		case slog.LevelKey:
			entry.Level = p.Value
		case slog.MessageKey:
			entry.Msg = p.Value
		default:
			entry.Attrs = append(entry.Attrs, p)
		}
	}
	if entry.Level == "" {
		return Entry{Raw: line}
	}
	return entry
}

func splitPairs(line string) ([]Attr, bool) {
	var pairs []Attr
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \t\"") {
			return nil, false
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, false
			}
			value, _ = strconv.Unquote(quoted)
			rest = rest[len(quoted):]
		} else if sp := strings.IndexByte(rest, ' '); sp >= 0 {
			value, rest = rest[:sp], rest[sp:]
		} else {
			value, rest = rest, ""
		}
		pairs = append(pairs, Attr{Key: key, Value: value})
		rest = strings.TrimLeft(rest, " ")
	}
	return pairs, len(pairs) > 0
}

// ParseLines parses every line.
func ParseLines(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, Parse(l))
	}
	return entries
}

// Filter keeps entries at or above min. Unparsed lines are kept.
func Filter(entries []Entry, min slog.Level) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.Parsed() {
			out = append(out, e)
			continue
		}
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(e.Level)); err != nil || lvl >= min {
			out = append(out, e)
		}
	}
	return out
}
