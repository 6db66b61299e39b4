package tradeledger

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"
)

// LoadLedger opens and decodes the ledger file at path.
//
// A missing file is not an error: it returns an empty ledger, the file will
// be created on save. A ledger lacking required columns returns a
// *SchemaMismatchError naming path.
func LoadLedger(path string) (*Ledger, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", path, err)
	}
	defer f.Close()

	ledger, err := DecodeLedger(f)
	var mismatch *SchemaMismatchError
	if errors.As(err, &mismatch) {
		mismatch.Path = path
		return nil, mismatch
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", path, err)
	}
	return ledger, nil
}

// SaveLedger writes the ledger to path.
//
// The content is written to a temporary file in the same directory and renamed
// over path, so readers never observe a partially written ledger.
func SaveLedger(path string, ledger *Ledger) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return EncodeLedger(w, ledger)
	})
}

// WriteFileAtomic creates path's directory if needed, calls write on a
// pending file and atomically replaces path with it once write succeeded.
// On any error path is left untouched.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for %q: %w", path, err)
	}
	f, err := renameio.NewPendingFile(path, renameio.WithTempDir(filepath.Dir(path)), renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("could not create temporary file for %q: %w", path, err)
	}
	defer f.Cleanup()

	if err := write(f); err != nil {
		return fmt.Errorf("error writing %q: %w", path, err)
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("error replacing %q: %w", path, err)
	}
	return nil
}

// MergeResult summarizes a Merge.
type MergeResult struct {
	Existing int // records in the ledger before the merge
	Appended int // new records
	Skipped  int // trades already recorded
	Created  bool
}

// Merge folds trades into the ledger file at path.
//
// Trades already recorded (same time, ticker, action, quantity, price and
// total) are skipped, the others are appended with empty annotations and the
// ledger is rewritten in chronological order. If the existing ledger cannot be
// decoded, nothing is written.
func Merge(path string, trades []Trade) (*MergeResult, error) {
	_, statErr := os.Stat(path)
	created := errors.Is(statErr, fs.ErrNotExist)

	ledger, err := LoadLedger(path)
	if err != nil {
		return nil, err
	}

	res := &MergeResult{Existing: ledger.Len(), Created: created}
	res.Appended, res.Skipped = ledger.AppendNew(trades...)

	if res.Appended == 0 && !created {
		log.Info().Str("ledger", path).Int("skipped", res.Skipped).Msg("ledger already up to date")
		return res, nil
	}
	if err := SaveLedger(path, ledger); err != nil {
		return nil, err
	}
	log.Info().
		Str("ledger", path).
		Int("existing", res.Existing).
		Int("appended", res.Appended).
		Int("skipped", res.Skipped).
		Bool("created", created).
		Msg("ledger merged")
	return res, nil
}
