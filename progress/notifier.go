package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/sim"
)

// DefaultSyncTimeout bounds a single background sync.
const DefaultSyncTimeout = 5 * time.Second

// Notifier is a hook that forwards lab completions to a Tracker in the
// background. Anonymous completions are ignored and sync failures are only
// logged, so labs never wait on or fail because of progress tracking.
type Notifier struct {
	tracker Tracker
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewNotifier creates a Notifier.
func NewNotifier(tracker Tracker, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		tracker: tracker,
		logger:  logger,
		timeout: DefaultSyncTimeout,
	}
}

// Func implements sim.Hook.
func (n *Notifier) Func(ctx sim.HookCtx) {
	if ctx.Pos != lab.HookPosTaskCompleted {
		return
	}

	c, ok := ctx.Item.(lab.Completion)
	if !ok || c.UserID == "" {
		return
	}

	n.wg.Add(1)

	go n.sync(c)
}

func (n *Notifier) sync(c lab.Completion) {
	defer n.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	err := n.tracker.Sync(ctx, c.UserID, c.Kind, 1)
	if err != nil {
		n.logger.Warn("progress sync failed",
			"user", c.UserID, "lab", c.Kind, "err", err)

		return
	}

	n.logger.Debug("progress synced", "user", c.UserID, "lab", c.Kind)
}

// Wait blocks until all pending syncs finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
