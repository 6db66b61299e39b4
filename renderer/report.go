package renderer

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/etnz/tradeledger/fingerprint"
	"github.com/etnz/tradeledger/ingest"
	md "github.com/nao1215/markdown"
)

// IngestMarkdown renders the report of an ingestion run.
func IngestMarkdown(r *ingest.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Ingestion Report")
	if r.NoChange {
		doc.PlainText(fmt.Sprintf("No new or modified export in %s, the ledger was not touched.", r.Dir))
		return doc.String()
	}

	counts := [][]string{
		{"Exports read", strconv.Itoa(len(r.Files))},
		{"Exports failed", strconv.Itoa(len(r.Failures))},
		{"Rows read", strconv.Itoa(r.Rows)},
		{"Duplicate rows", strconv.Itoa(r.Duplicates)},
		{"Rows skipped", strconv.Itoa(r.Skipped)},
		{"Malformed rows", strconv.Itoa(r.Malformed)},
		{"Trades combined", strconv.Itoa(r.Trades)},
		{"Below threshold", strconv.Itoa(r.BelowThreshold)},
	}
	if r.Merge != nil {
		counts = append(counts,
			[]string{"Already recorded", strconv.Itoa(r.Merge.Skipped)},
			[]string{"Appended", strconv.Itoa(r.Merge.Appended)},
			[]string{"Ledger size", strconv.Itoa(r.Merge.Existing + r.Merge.Appended)},
		)
	}
	doc.Table(md.TableSet{
		Header: []string{"Step", "Count"},
		Rows:   counts,
	})

	if len(r.Files) > 0 {
		doc.H2("Exports")
		doc.BulletList(baseNames(r.Files)...)
	}
	if len(r.Failures) > 0 {
		doc.H2("Failures")
		items := make([]string, len(r.Failures))
		for i, f := range r.Failures {
			items[i] = fmt.Sprintf("%s: %v", filepath.Base(f.Path), f.Err)
		}
		doc.BulletList(items...)
	}
	if len(r.Removed) > 0 {
		doc.H2("Removed exports")
		doc.BulletList(r.Removed...)
	}
	return doc.String()
}

// ChangesMarkdown renders the exports a run would read.
func ChangesMarkdown(scan *fingerprint.Scan) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Pending Exports")
	if len(scan.Changed) == 0 {
		doc.PlainText(fmt.Sprintf("No new or modified export in %s.", scan.Dir))
	} else {
		doc.BulletList(baseNames(scan.Changed)...)
	}
	if len(scan.Removed) > 0 {
		doc.H2("Removed exports")
		doc.BulletList(scan.Removed...)
	}
	return doc.String()
}

func baseNames(paths []string) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = filepath.Base(p)
	}
	return names
}
