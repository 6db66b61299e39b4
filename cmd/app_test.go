package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
)

const export = `Action,Time,Ticker,ID,No. of shares,Price / share,Total
Deposit,2024-03-01 09:00:00,,D1,,,1000
Market buy,2024-03-01 10:00:00,AAPL,EOF1,1,10,10
Market buy,2024-03-01 10:02:00,AAPL,EOF2,2,11,22
Market buy,2024-03-01 11:00:00,MSFT,EOF3,1,400,400
Market sell,2024-03-02 15:00:00,MSFT,EOF4,1,410,410
`

// env is a workspace with a configuration pointing to its own exports,
// ledger and history.
type env struct {
	dir     string
	exports string
	ledger  string
	out     *bytes.Buffer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{
		dir:     dir,
		exports: filepath.Join(dir, "exports"),
		ledger:  filepath.Join(dir, "trades.csv"),
		out:     &bytes.Buffer{},
	}
	if err := os.Mkdir(e.exports, 0755); err != nil {
		t.Fatal(err)
	}
	cfg := filepath.Join(dir, "tradeledger.yaml")
	content := fmt.Sprintf("source_dir: %s\nledger_file: %s\nmin_total: 30\nlog_level: error\n", e.exports, e.ledger)
	if err := os.WriteFile(cfg, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	oldConfig, oldPlain, oldStdout := *configFile, *plain, stdout
	*configFile, *plain, stdout = cfg, true, e.out
	t.Cleanup(func() { *configFile, *plain, stdout = oldConfig, oldPlain, oldStdout })
	return e
}

// writeExport writes an export file with a distinct modification time.
func (e *env) writeExport(t *testing.T, name, content string, mtime time.Time) {
	t.Helper()
	path := filepath.Join(e.exports, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

func (e *env) readLedger(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(e.ledger)
	if err != nil {
		t.Fatalf("cannot read ledger: %v", err)
	}
	return string(b)
}

// run executes a subcommand with args, like the commander would.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("cannot parse %v: %v", args, err)
	}
	return cmd.Execute(context.Background(), f)
}

func TestIngest(t *testing.T) {
	e := newEnv(t)
	e.writeExport(t, "a.csv", export, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))

	if status := run(t, &ingestCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("ingest status = %v, want success", status)
	}

	want := `Time,Ticker,Action,Qty,Price,Total,Remark,Rating
2024-03-01 10:00:00,AAPL,BUY,3,10.6667,32,,0
2024-03-01 11:00:00,MSFT,BUY,1,400,400,,0
2024-03-02 15:00:00,MSFT,SELL,1,410,410,,0
`
	if got := e.readLedger(t); got != want {
		t.Errorf("ledger =\n%s\nwant\n%s", got, want)
	}
	if !strings.Contains(e.out.String(), "Ingestion Report") {
		t.Errorf("missing report:\n%s", e.out.String())
	}
}

func TestIngest_Flags(t *testing.T) {
	e := newEnv(t)
	e.writeExport(t, "a.csv", export, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))

	// 1 minute gap splits the AAPL fills, both are then below 100.
	if status := run(t, &ingestCmd{}, "-gap", "1m", "-min-total", "100"); status != subcommands.ExitSuccess {
		t.Fatalf("ingest status = %v, want success", status)
	}
	if got := e.readLedger(t); strings.Contains(got, "AAPL") {
		t.Errorf("AAPL fills recorded:\n%s", got)
	}
}

func TestIngest_InvalidFlag(t *testing.T) {
	newEnv(t)
	if status := run(t, &ingestCmd{}, "-anchor", "middle"); status != subcommands.ExitUsageError {
		t.Errorf("ingest status = %v, want usage error", status)
	}
	if status := run(t, &ingestCmd{}, "-min-total", "lots"); status != subcommands.ExitUsageError {
		t.Errorf("ingest status = %v, want usage error", status)
	}
	if status := run(t, &ingestCmd{}, "-min-total", "-5"); status != subcommands.ExitUsageError {
		t.Errorf("ingest -min-total -5 status = %v, want usage error", status)
	}
}

func TestIngest_FailedExport(t *testing.T) {
	e := newEnv(t)
	mtime := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	e.writeExport(t, "a.csv", export, mtime)
	e.writeExport(t, "broken.csv", "Time,Ticker\n2024-03-01 10:00:00,AAPL\n", mtime)

	if status := run(t, &ingestCmd{}); status != subcommands.ExitFailure {
		t.Errorf("ingest status = %v, want failure", status)
	}
	// The readable export is recorded anyway.
	if got := e.readLedger(t); !strings.Contains(got, "MSFT") {
		t.Errorf("ledger misses the readable export:\n%s", got)
	}
	if !strings.Contains(e.out.String(), "broken.csv") {
		t.Errorf("report does not name the failed export:\n%s", e.out.String())
	}
}

func TestChanges(t *testing.T) {
	e := newEnv(t)
	e.writeExport(t, "a.csv", export, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))

	for range 2 {
		e.out.Reset()
		if status := run(t, &changesCmd{}); status != subcommands.ExitSuccess {
			t.Fatalf("changes status = %v, want success", status)
		}
		// Listing changes does not record them.
		if !strings.Contains(e.out.String(), "a.csv") {
			t.Errorf("changes does not list a.csv:\n%s", e.out.String())
		}
	}
	if _, err := os.Stat(e.ledger); err == nil {
		t.Errorf("changes created the ledger")
	}
}

func TestAnnotateAndReingest(t *testing.T) {
	e := newEnv(t)
	e.writeExport(t, "a.csv", export, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	if status := run(t, &ingestCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("ingest status = %v, want success", status)
	}

	if status := run(t, &annotateCmd{}, "-i", "0", "-remark", "watch", "-rating", "4"); status != subcommands.ExitSuccess {
		t.Fatalf("annotate status = %v, want success", status)
	}

	// Touch the export, the same trades are read again.
	e.writeExport(t, "a.csv", export, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	if status := run(t, &ingestCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("ingest status = %v, want success", status)
	}

	got := e.readLedger(t)
	if !strings.Contains(got, "2024-03-01 10:00:00,AAPL,BUY,3,10.6667,32,watch,4\n") {
		t.Errorf("annotation lost:\n%s", got)
	}
	if n := strings.Count(got, "\n"); n != 4 {
		t.Errorf("ledger has %d lines, want 4:\n%s", n, got)
	}
}

func TestAnnotate_Errors(t *testing.T) {
	e := newEnv(t)
	e.writeExport(t, "a.csv", export, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	run(t, &ingestCmd{})

	tests := []struct {
		name string
		args []string
	}{
		{"no index", []string{"-remark", "x"}},
		{"nothing to set", []string{"-i", "0"}},
		{"out of range", []string{"-i", "3", "-remark", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := run(t, &annotateCmd{}, tt.args...); status != subcommands.ExitUsageError {
				t.Errorf("annotate %v status = %v, want usage error", tt.args, status)
			}
		})
	}
}

func TestShow(t *testing.T) {
	e := newEnv(t)
	e.writeExport(t, "a.csv", export, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	run(t, &ingestCmd{})

	e.out.Reset()
	if status := run(t, &showCmd{}, "-ticker", "MSFT"); status != subcommands.ExitSuccess {
		t.Fatalf("show status = %v, want success", status)
	}
	out := e.out.String()
	if !strings.Contains(out, "Trades of MSFT") || strings.Contains(out, "AAPL") {
		t.Errorf("unexpected show output:\n%s", out)
	}
}

func TestSummary(t *testing.T) {
	e := newEnv(t)
	e.writeExport(t, "a.csv", export, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	run(t, &ingestCmd{})

	e.out.Reset()
	if status := run(t, &summaryCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("summary status = %v, want success", status)
	}
	if !strings.Contains(e.out.String(), "3 trades on 2 tickers.") {
		t.Errorf("unexpected summary output:\n%s", e.out.String())
	}
}

func TestFmt(t *testing.T) {
	e := newEnv(t)
	original := `time,ticker,action,quantity,price,total,remark,rating,extra
2024-03-02 15:00:00,MSFT,SELL,1.000,410.0,410.00,,,x
2024-03-01 10:00:00,AAPL,BUY,3,10.6667,32,watch,4,y
`
	if err := os.WriteFile(e.ledger, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}
	if status := run(t, &fmtCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("fmt status = %v, want success", status)
	}
	want := `Time,Ticker,Action,Qty,Price,Total,Remark,Rating
2024-03-01 10:00:00,AAPL,BUY,3,10.6667,32,watch,4
2024-03-02 15:00:00,MSFT,SELL,1,410,410,,0
`
	if got := e.readLedger(t); got != want {
		t.Errorf("formatted ledger =\n%s\nwant\n%s", got, want)
	}
}

func TestFmt_SchemaMismatch(t *testing.T) {
	e := newEnv(t)
	original := "Time,Ticker,Action,Qty,Price,Total,Remark\n2024-03-01 10:00:00,AAPL,BUY,3,10.6667,32,watch\n"
	if err := os.WriteFile(e.ledger, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}
	if status := run(t, &fmtCmd{}); status != subcommands.ExitFailure {
		t.Errorf("fmt status = %v, want failure", status)
	}
	if got := e.readLedger(t); got != original {
		t.Errorf("ledger modified:\n%s", got)
	}
}
