// Package history keeps a JSON-lines log of launches.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/igoryan-dao/sal/internal/fsutil"
)

type Mode string

const (
	ModeInteractive Mode = "interactive"
	ModePrompt      Mode = "prompt"
	ModeOneShot     Mode = "oneshot"
)

// Entry is one launch
type Entry struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Mode    Mode      `json:"mode"`
	Dir     string    `json:"dir"`
	Servers []string  `json:"servers"`
	Resume  bool      `json:"resume,omitempty"`
}

type Log struct {
	path string
	now  func() time.Time
}

func New(path string) *Log {
	return &Log{path: path, now: time.Now}
}

// Append stamps e with a fresh ID and the current time and adds it to the log.
func (l *Log) Append(e Entry) (Entry, error) {
	e.ID = uuid.NewString()
	e.Time = l.now().UTC()
	if e.Servers == nil {
		e.Servers = []string{}
	}

	line, err := json.Marshal(e)
	if err != nil {
		return e, err
	}

	unlock, err := fsutil.Lock(l.path)
	if err != nil {
		return e, err
	}
	defer unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return e, fmt.Errorf("failed to open history: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return e, fmt.Errorf("failed to write history: %w", err)
	}
	return e, nil
}

// Recent returns up to n most recent entries, oldest first. Lines that
// fail to parse are skipped.
func (l *Log) Recent(n int) ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
