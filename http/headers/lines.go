package headers

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

// Lines is an ordered storage of request header lines. It uses linear search instead of
// a map, which is more efficient on the usually low amount of entries and keeps the
// arrival order.
type Lines struct {
	lines   []Line
	maximal int
}

// New returns Lines with the prealloc capacity, storing at most maximal entries.
// Lines beyond the limit are silently ignored.
func New(prealloc, maximal int) *Lines {
	return &Lines{
		lines:   make([]Line, 0, prealloc),
		maximal: maximal,
	}
}

// Add appends a line. Returns false if the limit is already reached.
func (l *Lines) Add(line Line) bool {
	if l.maximal > 0 && len(l.lines) >= l.maximal {
		return false
	}

	l.lines = append(l.lines, line)
	return true
}

// Get returns the value of the most recently added line with the key, compared
// case-insensitively.
func (l *Lines) Get(key string) (value string, found bool) {
	for i := len(l.lines) - 1; i >= 0; i-- {
		if strcomp.EqualFold(l.lines[i].Key, key) {
			return l.lines[i].Value, true
		}
	}

	return "", false
}

// Value is the same as Get, but returns an empty string if nothing was found.
func (l *Lines) Value(key string) string {
	value, _ := l.Get(key)
	return value
}

// Has indicates, whether there's an entry of the key.
func (l *Lines) Has(key string) bool {
	_, found := l.Get(key)
	return found
}

// All iterates over the lines in the order they arrived.
func (l *Lines) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, line := range l.lines {
			if !yield(line.Key, line.Value) {
				break
			}
		}
	}
}

// Recent iterates over the lines starting from the most recent one.
func (l *Lines) Recent() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i := len(l.lines) - 1; i >= 0; i-- {
			if !yield(l.lines[i].Key, l.lines[i].Value) {
				break
			}
		}
	}
}

// Len returns a number of stored lines.
func (l *Lines) Len() int {
	return len(l.lines)
}

// Clear all the entries. However, all the allocated space won't be freed.
func (l *Lines) Clear() {
	l.lines = l.lines[:0]
}
