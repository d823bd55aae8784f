package cloudsync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/udhaar-ledger/internal/service"
)

// DefaultDebounce is the quiet period before a burst of edits is pushed.
const DefaultDebounce = 2 * time.Second

const pushTimeout = 30 * time.Second

// Exporter produces the snapshot to push.
type Exporter interface {
	Export(ctx context.Context) ([]byte, error)
}

// Restorer applies a pulled snapshot. remote is always true for the syncer.
type Restorer interface {
	Restore(ctx context.Context, data []byte, remote bool) error
}

// Syncer pushes the ledger to a Remote after local mutations settle. It is a
// service.MutationListener.
type Syncer struct {
	remote   Remote
	exporter Exporter
	restorer Restorer
	debounce time.Duration
	logger   *logrus.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
}

var _ service.MutationListener = (*Syncer)(nil)

func NewSyncer(remote Remote, exporter Exporter, restorer Restorer, debounce time.Duration, logger *logrus.Logger) *Syncer {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Syncer{
		remote:   remote,
		exporter: exporter,
		restorer: restorer,
		debounce: debounce,
		logger:   logger,
	}
}

// OnMutation restarts the debounce timer. Changes that came from the remote
// are not pushed back.
func (s *Syncer) OnMutation(m service.Mutation) {
	if m.Remote {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.timerFired)
}

func (s *Syncer) timerFired() {
	ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
	defer cancel()
	if err := s.Flush(ctx); err != nil {
		s.logger.WithError(err).Error("CloudSync.Push.Error")
	}
}

// Flush pushes immediately if a local change has not been pushed yet.
func (s *Syncer) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if !s.pending {
		s.mu.Unlock()
		return nil
	}
	s.pending = false
	s.mu.Unlock()

	start := time.Now()
	data, err := s.exporter.Export(ctx)
	if err != nil {
		s.markPending()
		return err
	}
	if err := s.remote.Push(ctx, data); err != nil {
		s.markPending()
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"bytes":    len(data),
		"duration": time.Since(start).Milliseconds(),
	}).Info("CloudSync.Push.Complete")
	return nil
}

// markPending keeps a failed push eligible for the next Flush.
func (s *Syncer) markPending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = true
}

// PullAndRestore replaces local data with the remote snapshot. An empty remote
// is not an error.
func (s *Syncer) PullAndRestore(ctx context.Context) error {
	data, err := s.remote.Pull(ctx)
	if errors.Is(err, ErrNoSnapshot) {
		s.logger.Info("CloudSync.Pull.Empty")
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.restorer.Restore(ctx, data, true); err != nil {
		return err
	}
	s.logger.WithField("bytes", len(data)).Info("CloudSync.Pull.Complete")
	return nil
}
