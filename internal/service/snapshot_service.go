package service

import (
	"context"

	"github.com/carson-networks/udhaar-ledger/internal/logging"
	"github.com/carson-networks/udhaar-ledger/internal/operator/actions"
	"github.com/carson-networks/udhaar-ledger/internal/snapshot"
)

// SnapshotService exports and restores the whole ledger.
type SnapshotService struct {
	*base
	recompute bool
}

// Export encodes the committed ledger.
func (s *SnapshotService) Export(ctx context.Context) ([]byte, error) {
	return snapshot.Export(ctx, s.storage.Read(), s.now())
}

// Document returns the committed ledger before encoding.
func (s *SnapshotService) Document(ctx context.Context) (snapshot.Document, error) {
	return snapshot.Collect(ctx, s.storage.Read(), s.now())
}

// Restore replaces the collections present in data in a single write. On any
// error the stored ledger is left as it was. remote marks data that came from
// the sync remote so listeners do not echo it back.
func (s *SnapshotService) Restore(ctx context.Context, data []byte, remote bool) error {
	snap, err := snapshot.Decode(data)
	if err != nil {
		return err
	}
	action := &actions.ImportSnapshot{Snapshot: snap, Recompute: s.recompute}
	return s.run(ctx, action, Mutation{Kind: MutationSnapshotImported, Remote: remote})
}

// Import is Restore for callers that only need to know whether it worked.
func (s *SnapshotService) Import(ctx context.Context, data []byte) bool {
	if err := s.Restore(ctx, data, false); err != nil {
		logData := logging.GetLogData(ctx)
		logData.AddData("importError", err.Error())
		return false
	}
	return true
}

// Clear empties the ledger and resets the profile.
func (s *SnapshotService) Clear(ctx context.Context) error {
	return s.run(ctx, &actions.ClearData{}, Mutation{Kind: MutationDataCleared})
}
