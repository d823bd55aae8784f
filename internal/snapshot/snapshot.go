// Package snapshot reads and writes the whole-ledger JSON backup document.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aarondl/opt/omit"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
	"github.com/carson-networks/udhaar-ledger/internal/storage"
)

// Document is the exported form of the ledger.
type Document struct {
	Customers    []ledger.Customer    `json:"customers"`
	Transactions []ledger.Transaction `json:"transactions"`
	Profile      ledger.StoreProfile  `json:"profile"`
	ExportDate   time.Time            `json:"exportDate"`
}

// Snapshot is a decoded document. Collections missing from the payload, or
// present with the wrong JSON shape, are left unset and must not be applied.
type Snapshot struct {
	Customers    omit.Val[[]ledger.Customer]
	Transactions omit.Val[[]ledger.Transaction]
	Profile      omit.Val[ledger.StoreProfile]
	ExportDate   omit.Val[time.Time]
}

// Export reads the committed ledger and encodes it.
func Export(ctx context.Context, reader *storage.Reader, now time.Time) ([]byte, error) {
	doc, err := Collect(ctx, reader, now)
	if err != nil {
		return nil, err
	}
	return Encode(doc)
}

// Collect gathers the ledger into a Document. Transactions are newest first.
func Collect(ctx context.Context, reader *storage.Reader, now time.Time) (Document, error) {
	customers, err := reader.ListCustomers(ctx)
	if err != nil {
		return Document{}, err
	}
	txs, err := reader.ListTransactions(ctx, "")
	if err != nil {
		return Document{}, err
	}
	profile, err := reader.GetProfile(ctx)
	if err != nil {
		return Document{}, err
	}

	if customers == nil {
		customers = []ledger.Customer{}
	}
	if txs == nil {
		txs = []ledger.Transaction{}
	}
	return Document{
		Customers:    customers,
		Transactions: txs,
		Profile:      profile,
		ExportDate:   now,
	}, nil
}

// FileName is the conventional backup file name for a snapshot taken at t.
func FileName(t time.Time) string {
	return "kirana_backup_" + t.Format(time.DateOnly) + ".json"
}

func Encode(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// Decode parses a payload produced by Encode or by an older client. Anything
// that is not a JSON object, or an array holding malformed records, is a
// *ledger.FormatError.
func Decode(data []byte) (Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Snapshot{}, &ledger.FormatError{Err: err}
	}
	if fields == nil {
		return Snapshot{}, &ledger.FormatError{Err: errors.New("top level is not an object")}
	}

	var snap Snapshot

	if raw, ok := fields["customers"]; ok && isArray(raw) {
		var customers []ledger.Customer
		if err := json.Unmarshal(raw, &customers); err != nil {
			return Snapshot{}, &ledger.FormatError{Err: err}
		}
		snap.Customers = omit.From(customers)
	}

	if raw, ok := fields["transactions"]; ok && isArray(raw) {
		var txs []ledger.Transaction
		if err := json.Unmarshal(raw, &txs); err != nil {
			return Snapshot{}, &ledger.FormatError{Err: err}
		}
		snap.Transactions = omit.From(txs)
	}

	if raw, ok := fields["profile"]; ok && isObject(raw) {
		var profile ledger.StoreProfile
		if err := json.Unmarshal(raw, &profile); err != nil {
			return Snapshot{}, &ledger.FormatError{Err: err}
		}
		snap.Profile = omit.From(profile)
	}

	if raw, ok := fields["exportDate"]; ok {
		var exported time.Time
		// Only informational; an unreadable date is ignored.
		if err := json.Unmarshal(raw, &exported); err == nil {
			snap.ExportDate = omit.From(exported)
		}
	}

	return snap, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
