package jobs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/carson-networks/udhaar-ledger/internal/logging"
	"github.com/carson-networks/udhaar-ledger/internal/snapshot"
)

// Exporter produces the snapshot document.
type Exporter interface {
	Export(ctx context.Context) ([]byte, error)
}

// BackupJob writes the day's snapshot into Dir, replacing an earlier backup
// from the same day.
type BackupJob struct {
	Exporter Exporter
	Dir      string
	Now      func() time.Time
}

func (b *BackupJob) Name() string {
	return "Backup"
}

func (b *BackupJob) Run(ctx context.Context) error {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	data, err := b.Exporter.Export(ctx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.Dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(b.Dir, snapshot.FileName(now()))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	logData := logging.GetLogData(ctx)
	logData.AddData("path", path)
	logData.AddData("bytes", len(data))
	return nil
}
