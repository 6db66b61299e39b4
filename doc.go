// Package tradeledger keeps a ledger of logical trades built from broker
// exports.
//
// Broker exports record every partial fill of an order as its own row. This
// package owns the canonical shapes of the pipeline and the two stages that
// need no I/O besides the ledger file:
//   - Combining: rows of the same ticker and action that follow each other
//     within a short gap are collapsed into one Trade, with a quantity
//     weighted price (see Combine).
//   - Merging: trades are folded into the persistent ledger, a CSV file where
//     each Record also carries the user's remark and rating. A trade already
//     recorded is never recorded twice and annotations are never overwritten
//     (see Merge).
//
// Reading exports lives in package broker, change detection of the export
// folder in package fingerprint, and package ingest wires everything together.
package tradeledger
