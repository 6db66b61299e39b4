package fingerprint

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog/log"
)

// Pattern selects the export files of a folder.
const Pattern = "*.csv"

// Tracker detects new and modified export files.
type Tracker struct {
	Store Store
}

// NewTracker returns a tracker keeping its history in store.
func NewTracker(store Store) *Tracker { return &Tracker{Store: store} }

// Scan is the state of a folder compared with the stored history.
type Scan struct {
	Dir     string
	Changed []string // paths of new or modified files, sorted
	Current History  // fingerprint of every file present in Dir
	Removed []string // names in the stored history no longer in Dir, sorted
}

// Scan compares the export files of dir with the stored history. It does not
// modify the history, see Commit.
func (t *Tracker) Scan(dir string) (*Scan, error) {
	previous, err := t.Store.Load()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not list export folder %q: %w", dir, err)
	}

	scan := &Scan{Dir: dir, Current: History{}}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(Pattern, name); !ok {
			continue
		}
		// Stat follows symbolic links to exports kept elsewhere.
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("could not stat %q: %w", filepath.Join(dir, name), err)
		}
		if !info.Mode().IsRegular() {
			continue
		}
		mtime := modifiedAt(info)
		scan.Current[name] = mtime
		if old, known := previous[name]; !known || old != mtime {
			scan.Changed = append(scan.Changed, filepath.Join(dir, name))
		}
	}
	for name := range previous {
		if _, present := scan.Current[name]; !present {
			scan.Removed = append(scan.Removed, name)
		}
	}
	slices.Sort(scan.Changed)
	slices.Sort(scan.Removed)

	log.Debug().
		Str("dir", dir).
		Int("files", len(scan.Current)).
		Int("changed", len(scan.Changed)).
		Strs("removed", scan.Removed).
		Msg("export folder scanned")
	return scan, nil
}

// Commit stores the fingerprints of scan as the new history. Files that
// disappeared are forgotten.
func (t *Tracker) Commit(scan *Scan) error {
	return t.Store.Save(scan.Current)
}

// Changed returns the new or modified export files of dir and records the
// current state of dir as the history for the next call.
func (t *Tracker) Changed(dir string) ([]string, error) {
	scan, err := t.Scan(dir)
	if err != nil {
		return nil, err
	}
	if err := t.Commit(scan); err != nil {
		return nil, err
	}
	return scan.Changed, nil
}

// modifiedAt is the modification time in seconds since the epoch.
func modifiedAt(info os.FileInfo) float64 {
	return float64(info.ModTime().UnixNano()) / 1e9
}
