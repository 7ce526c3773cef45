package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Header is written as the first line of a freshly created log.
const Header = "## Session: INIT"

// FileLog is an append-only text file. Appends from one FileLog are
// serialized; separate processes writing the same file are not coordinated.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog returns a log backed by path. Nothing is written until Ensure
// or Append is called.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

// Path returns the backing file path.
func (l *FileLog) Path() string { return l.path }

// Ensure creates the log with its header line if it does not exist yet.
// Existing files are left untouched.
func (l *FileLog) Ensure() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(l.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat session log: %w", err)
	}

	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session log dir: %w", err)
		}
	}
	if err := os.WriteFile(l.path, []byte(Header+"\n"), 0o644); err != nil {
		return fmt.Errorf("init session log: %w", err)
	}
	return nil
}

// Append writes line with trailing whitespace removed, followed by a newline.
func (l *FileLog) Append(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open session log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(normalize(line)); err != nil {
		return fmt.Errorf("append session log: %w", err)
	}
	return nil
}

// MemoryLog is a volatile log storing lines in a slice. It is safe for
// concurrent access.
type MemoryLog struct {
	mu    sync.RWMutex
	lines []string
}

// NewMemoryLog constructs an empty in-memory log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

// Ensure records the header line if the log is empty.
func (l *MemoryLog) Ensure() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == 0 {
		l.lines = append(l.lines, Header)
	}
	return nil
}

// Append records line with trailing whitespace removed.
func (l *MemoryLog) Append(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, strings.TrimRight(line, " \t\r\n\v\f"))
	return nil
}

// Lines returns a copy of the recorded lines.
func (l *MemoryLog) Lines() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}

func normalize(line string) string {
	return strings.TrimRight(line, " \t\r\n\v\f") + "\n"
}
