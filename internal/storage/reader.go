package storage

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/carson-networks/udhaar-ledger/internal/ledger"
)

// Reader decodes the ledger collections. It performs no validation.
type Reader struct {
	src source
}

func NewReader(src source) *Reader {
	return &Reader{src: src}
}

// ListCustomers returns customers in insertion order.
func (r *Reader) ListCustomers(ctx context.Context) ([]ledger.Customer, error) {
	var customers []ledger.Customer
	if _, err := r.load(ctx, CustomersKey, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// FindCustomer returns nil when no customer has the id.
func (r *Reader) FindCustomer(ctx context.Context, id string) (*ledger.Customer, error) {
	customers, err := r.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if customers[i].ID == id {
			return &customers[i], nil
		}
	}
	return nil, nil
}

// ListTransactions returns transactions sorted by date, newest first. An empty
// customerID returns every transaction.
func (r *Reader) ListTransactions(ctx context.Context, customerID string) ([]ledger.Transaction, error) {
	all, err := r.allTransactions(ctx)
	if err != nil {
		return nil, err
	}

	result := all
	if customerID != "" {
		result = make([]ledger.Transaction, 0, len(all))
		for _, tx := range all {
			if tx.CustomerID == customerID {
				result = append(result, tx)
			}
		}
	}

	SortByDateDesc(result)
	return result, nil
}

// FindTransaction returns nil when no transaction has the id.
func (r *Reader) FindTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	all, err := r.allTransactions(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, nil
}

// GetProfile returns the saved profile or the default one.
func (r *Reader) GetProfile(ctx context.Context) (ledger.StoreProfile, error) {
	profile := ledger.DefaultProfile()
	found, err := r.load(ctx, ProfileKey, &profile)
	if err != nil {
		return ledger.StoreProfile{}, err
	}
	if !found {
		return ledger.DefaultProfile(), nil
	}
	return profile, nil
}

// allTransactions returns the collection in stored order.
func (r *Reader) allTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	if _, err := r.load(ctx, TransactionsKey, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *Reader) load(ctx context.Context, key string, out any) (bool, error) {
	data, found, err := r.src.get(ctx, key)
	if err != nil {
		return false, &ledger.StorageError{Op: "get " + key, Err: err}
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, &ledger.StorageError{Op: "decode " + key, Err: err}
	}
	return true, nil
}

// SortByDateDesc orders transactions newest first, keeping stored order for ties.
func SortByDateDesc(txs []ledger.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}
