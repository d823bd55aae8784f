package service

import (
	"sync"
	"time"
)

type MutationKind string

const (
	MutationCustomerCreated  MutationKind = "customer.created"
	MutationCustomerUpdated  MutationKind = "customer.updated"
	MutationCustomerDeleted  MutationKind = "customer.deleted"
	MutationTransactionAdded MutationKind = "transaction.added"
	MutationTransactionEdit  MutationKind = "transaction.edited"
	MutationProfileSaved     MutationKind = "profile.saved"
	MutationSnapshotImported MutationKind = "snapshot.imported"
	MutationDataCleared      MutationKind = "data.cleared"
)

// Mutation describes a committed change. Remote is set when the change came
// from the sync remote rather than a local caller.
type Mutation struct {
	Kind       MutationKind
	CustomerID string
	At         time.Time
	Remote     bool
}

// MutationListener is told about every committed mutation. OnMutation runs on
// the caller's goroutine and must not block.
type MutationListener interface {
	OnMutation(m Mutation)
}

// ListenerFunc adapts a function to MutationListener.
type ListenerFunc func(m Mutation)

func (f ListenerFunc) OnMutation(m Mutation) {
	f(m)
}

type notifier struct {
	mu        sync.RWMutex
	listeners []MutationListener
}

func (n *notifier) add(l MutationListener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

func (n *notifier) notify(m Mutation) {
	n.mu.RLock()
	listeners := n.listeners
	n.mu.RUnlock()

	for _, l := range listeners {
		l.OnMutation(m)
	}
}
