// Package store persists conversation histories, one JSONL file per session.
//
// Each line is one append batch. A batch is committed by a single append
// write followed by fsync, so a crash can only ever leave a torn final
// line; Load drops that tail and keeps everything committed before it.
package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sidekick-cli/sidekick/internal/chat"
)

// maxBatchLine bounds a single batch line on load. Tool results are capped
// upstream, so a turn's batch stays far below this.
const maxBatchLine = 8 * 1024 * 1024

type batch struct {
	At   time.Time      `json:"at"`
	Msgs []chat.Message `json:"msgs"`
}

// Store reads and appends session histories under one directory.
type Store struct {
	dir string
}

// Open ensures dir exists and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the session's backing file path.
func (s *Store) Path(sessionID string) string {
	return filepath.Join(s.dir, fileName(sessionID))
}

// Load returns the full committed history for sessionID, empty (not an
// error) when the session is unknown. An unparseable final line is treated
// as a torn append and dropped; anywhere else it is corruption.
func (s *Store) Load(sessionID string) ([]chat.Message, error) {
	f, err := os.Open(s.Path(sessionID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: open session %q: %w", sessionID, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxBatchLine)

	var history []chat.Message
	var tornErr error
	tornLine := 0
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		if tornErr != nil {
			// A bad line with committed batches after it is not a torn
			// tail; refuse to serve a history with a hole in it.
			return nil, fmt.Errorf("store: session %q corrupt at line %d: %w", sessionID, tornLine, tornErr)
		}
		var b batch
		if err := json.Unmarshal(raw, &b); err != nil {
			tornErr = err
			tornLine = line
			continue
		}
		history = append(history, b.Msgs...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("store: read session %q: %w", sessionID, err)
	}
	return history, nil
}

// Append commits msgs as one batch. The batch becomes visible to Load in
// its entirety or not at all.
func (s *Store) Append(sessionID string, msgs []chat.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	b, err := json.Marshal(batch{At: time.Now().UTC(), Msgs: msgs})
	if err != nil {
		return fmt.Errorf("store: encode batch: %w", err)
	}
	f, err := os.OpenFile(s.Path(sessionID), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("store: open session %q: %w", sessionID, err)
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("store: append session %q: %w", sessionID, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("store: sync session %q: %w", sessionID, err)
	}
	return f.Close()
}

// fileName maps an opaque session ID onto a safe file name.
func fileName(sessionID string) string {
	var sb strings.Builder
	for _, r := range sessionID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	name := sb.String()
	if strings.Trim(name, ".") == "" {
		name = "session"
	}
	return name + ".jsonl"
}
