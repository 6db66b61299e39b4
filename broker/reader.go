package broker

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/etnz/tradeledger"
	"github.com/rs/zerolog/log"
)

// Result holds the rows read from one export file.
type Result struct {
	Path      string
	Rows      []tradeledger.Row
	Skipped   int // rows left out on purpose, like deposits
	Malformed int // rows dropped because a field could not be parsed
}

// ReadFile reads the export file at path.
//
// Any failure to read the file as a whole (I/O, CSV syntax, missing required
// column) is returned as a *tradeledger.FileReadError and no rows are
// returned: a file is either used entirely or not at all.
func (s Schema) ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &tradeledger.FileReadError{Path: path, Err: err}
	}
	defer f.Close()
	return s.Read(path, f)
}

// Read reads an export from r. path names the source in results and errors.
func (s Schema) Read(path string, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("no header row")
		}
		return nil, &tradeledger.FileReadError{Path: path, Err: fmt.Errorf("failed to read CSV header: %w", err)}
	}
	b, err := s.bind(header)
	if err != nil {
		return nil, &tradeledger.FileReadError{Path: path, Err: err}
	}

	res := &Result{Path: path}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &tradeledger.FileReadError{Path: path, Err: err}
		}
		line, _ := reader.FieldPos(0)

		row, err := s.normalize(b, record, line)
		switch {
		case err == nil:
			res.Rows = append(res.Rows, row)
		case isSkipped(err):
			res.Skipped++
		default:
			res.Malformed++
			log.Debug().Str("file", path).Err(err).Msg("dropping row")
		}
	}
	log.Debug().
		Str("file", path).
		Str("schema", s.Name).
		Int("rows", len(res.Rows)).
		Int("skipped", res.Skipped).
		Int("malformed", res.Malformed).
		Msg("export read")
	return res, nil
}
