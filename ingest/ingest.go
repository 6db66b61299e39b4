// Package ingest runs the ingestion of a folder of broker exports into the
// trade ledger.
//
// A run reads the exports that changed since the previous run, normalizes
// their rows, collapses partial fills into trades, drops immaterial trades and
// merges the rest into the ledger. The ledger is written only once everything
// else succeeded, and the history of seen files is committed only after the
// ledger was written: a failed run can simply be run again.
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/etnz/tradeledger"
	"github.com/etnz/tradeledger/broker"
	"github.com/etnz/tradeledger/fingerprint"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ErrNoTracker is returned by Run and Changes when Options has no Tracker.
var ErrNoTracker = errors.New("no tracker of seen exports")

// Options configures a run.
//
// Zero values mean defaults: the broker.DefaultSchema schema,
// tradeledger.DefaultGap and tradeledger.DefaultMinTotal. Tracker is
// required, see NewOptions.
type Options struct {
	Dir     string               // folder of exports
	Ledger  string               // ledger file
	Tracker *fingerprint.Tracker // history of seen exports
	Schema  broker.Schema

	Combine  tradeledger.CombineOptions
	MinTotal *decimal.Decimal // trades with a lower total are dropped, nil means tradeledger.DefaultMinTotal
}

// NewOptions returns the default options to ingest dir into ledger, keeping
// the history of seen exports in a ".ingest_history" file next to the ledger.
func NewOptions(dir, ledger string) Options {
	history := filepath.Join(filepath.Dir(ledger), ".ingest_history")
	return Options{
		Dir:     dir,
		Ledger:  ledger,
		Tracker: fingerprint.NewTracker(fingerprint.NewFileStore(history)),
	}
}

// withDefaults returns opts with its zero values replaced by defaults.
func (opts Options) withDefaults() (Options, error) {
	if opts.Tracker == nil || opts.Tracker.Store == nil {
		return opts, ErrNoTracker
	}
	if opts.Schema.Columns == nil {
		schema, err := broker.Lookup(broker.DefaultSchema)
		if err != nil {
			return opts, err
		}
		opts.Schema = schema
	}
	if opts.MinTotal == nil {
		threshold := tradeledger.D(tradeledger.DefaultMinTotal)
		opts.MinTotal = &threshold
	}
	return opts, nil
}

// Report describes what a run did.
type Report struct {
	Dir    string
	Ledger string

	// NoChange is true when no export changed. The ledger was not touched.
	NoChange bool

	Files    []string                     // exports read
	Failures []*tradeledger.FileReadError // exports that could not be read
	Removed  []string                     // exports gone since the previous run

	Rows       int // rows normalized, duplicates included
	Duplicates int // identical rows read more than once
	Skipped    int // rows left out on purpose
	Malformed  int // rows dropped on a parse error

	Trades         int // trades after combining
	BelowThreshold int // trades dropped as immaterial

	Merge *tradeledger.MergeResult // nil when the ledger was not touched
}

// Err joins the per-file failures, nil if there are none.
func (r *Report) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Changes lists the exports a run would read, without reading them nor
// recording anything.
func Changes(opts Options) (*fingerprint.Scan, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	return opts.Tracker.Scan(opts.Dir)
}

// Run ingests the changed exports of opts.Dir into opts.Ledger.
//
// Unreadable exports are reported in Report.Failures and do not stop the run.
// An error is returned only when nothing could be recorded, for instance when
// the existing ledger lacks required columns (a
// *tradeledger.SchemaMismatchError); in that case neither the ledger nor the
// history were modified.
func Run(opts Options) (*Report, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	report := &Report{Dir: opts.Dir, Ledger: opts.Ledger}

	scan, err := opts.Tracker.Scan(opts.Dir)
	if err != nil {
		return nil, err
	}
	report.Removed = scan.Removed

	if len(scan.Changed) == 0 {
		report.NoChange = true
		log.Info().Str("dir", opts.Dir).Msg("no new or modified export, nothing to do")
		if err := opts.Tracker.Commit(scan); err != nil {
			return nil, err
		}
		return report, nil
	}

	rows := readAll(opts.Schema, scan.Changed, report)
	trades := combine(rows, opts, report)

	merge, err := tradeledger.Merge(opts.Ledger, trades)
	if err != nil {
		return nil, fmt.Errorf("ingestion aborted, ledger left untouched: %w", err)
	}
	report.Merge = merge

	if err := opts.Tracker.Commit(scan); err != nil {
		return nil, fmt.Errorf("ledger updated but the history of seen exports could not be saved: %w", err)
	}

	log.Info().
		Int("files", len(report.Files)).
		Int("failures", len(report.Failures)).
		Int("trades", report.Trades).
		Int("appended", merge.Appended).
		Msg("ingestion complete")
	return report, nil
}

// readAll reads every export and concatenates their rows. Unreadable exports
// are logged and recorded in the report.
func readAll(schema broker.Schema, paths []string, report *Report) []tradeledger.Row {
	var rows []tradeledger.Row
	for _, path := range paths {
		res, err := schema.ReadFile(path)
		if err != nil {
			var readErr *tradeledger.FileReadError
			if !errors.As(err, &readErr) {
				readErr = &tradeledger.FileReadError{Path: path, Err: err}
			}
			log.Warn().Str("file", path).Err(readErr.Err).Msg("skipping export")
			report.Failures = append(report.Failures, readErr)
			continue
		}
		report.Files = append(report.Files, path)
		report.Skipped += res.Skipped
		report.Malformed += res.Malformed
		rows = append(rows, res.Rows...)
	}
	return rows
}

// combine deduplicates and orders rows, then collapses them into material
// trades.
func combine(rows []tradeledger.Row, opts Options, report *Report) []tradeledger.Trade {
	report.Rows = len(rows)
	rows = tradeledger.PrepareRows(rows)
	report.Duplicates = report.Rows - len(rows)

	trades := tradeledger.Combine(rows, opts.Combine)
	report.Trades = len(trades)

	material := tradeledger.Material(trades, *opts.MinTotal)
	report.BelowThreshold = len(trades) - len(material)
	return material
}
