// Package fingerprint tracks which export files changed since the last
// ingestion.
//
// A file's fingerprint is its modification time. The History of fingerprints
// is kept by a Store; the Tracker compares the folder against it.
package fingerprint

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/etnz/tradeledger"
)

// History maps a file name (base name, not path) to its modification time in
// seconds since the epoch.
type History map[string]float64

// Store persists a History.
type Store interface {
	Load() (History, error)
	Save(History) error
}

// FileStore keeps the history in a flat text file, one "filename,modified_at"
// line per file, sorted by filename.
type FileStore struct {
	Path string
}

// NewFileStore returns a store persisting to path.
func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

// Load reads the history. A missing file is an empty history.
func (s *FileStore) Load() (History, error) {
	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return History{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open history file %q: %w", s.Path, err)
	}
	defer f.Close()

	h, err := DecodeHistory(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode history file %q: %w", s.Path, err)
	}
	return h, nil
}

// Save replaces the history file with h, atomically.
func (s *FileStore) Save(h History) error {
	return tradeledger.WriteFileAtomic(s.Path, func(w io.Writer) error {
		return EncodeHistory(w, h)
	})
}

// DecodeHistory parses the flat history format. Blank lines are ignored. The
// filename is everything before the last comma, so names may contain commas.
func DecodeHistory(r io.Reader) (History, error) {
	h := History{}
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		txt := strings.TrimSpace(scanner.Text())
		if txt == "" {
			continue
		}
		sep := strings.LastIndexByte(txt, ',')
		if sep < 0 {
			return nil, fmt.Errorf("line %d: want \"filename,modified_at\", got %q", i, txt)
		}
		mtime, err := strconv.ParseFloat(strings.TrimSpace(txt[sep+1:]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid modification time: %w", i, err)
		}
		h[txt[:sep]] = mtime
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading history: %w", err)
	}
	return h, nil
}

// EncodeHistory writes h in the flat history format, sorted by filename.
// Times are written in their shortest exact form so they read back equal.
func EncodeHistory(w io.Writer, h History) error {
	bw := bufio.NewWriter(w)
	for _, name := range slices.Sorted(maps.Keys(h)) {
		if _, err := fmt.Fprintf(bw, "%s,%s\n", name, strconv.FormatFloat(h[name], 'f', -1, 64)); err != nil {
			return fmt.Errorf("failed to write history: %w", err)
		}
	}
	return bw.Flush()
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	History History
}

func (s *MemoryStore) Load() (History, error) { return maps.Clone(s.History), nil }

func (s *MemoryStore) Save(h History) error {
	s.History = maps.Clone(h)
	return nil
}
