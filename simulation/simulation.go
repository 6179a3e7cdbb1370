// Package simulation wires the labs to their collaborators: the database,
// progress tracking and the monitoring server.
package simulation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sarchlab/oslab/datarecording"
	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/monitoring"
	"github.com/sarchlab/oslab/progress"
)

// ErrNoTracker is returned when progress is requested from a simulation
// built without recording.
var ErrNoTracker = errors.New("progress tracking is disabled")

const shutdownTimeout = 5 * time.Second

// A Simulation holds one lab bench and the services around it.
type Simulation struct {
	id     string
	userID string
	logger *slog.Logger

	bench *lab.Bench

	dataRecorder datarecording.DataRecorder
	session      *datarecording.SessionRecorder
	tracker      progress.Tracker
	notifier     *progress.Notifier

	monitor    *monitoring.Monitor
	monitorURL string

	terminateOnce sync.Once
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// UserID returns the user lab work is attributed to.
func (s *Simulation) UserID() string {
	return s.userID
}

// Context attributes ctx to the simulation's user.
func (s *Simulation) Context(ctx context.Context) context.Context {
	return lab.WithUser(ctx, s.userID)
}

// Bench returns the labs.
func (s *Simulation) Bench() *lab.Bench {
	return s.bench
}

// Logger returns the logger used in the simulation.
func (s *Simulation) Logger() *slog.Logger {
	return s.logger
}

// GetDataRecorder returns the data recorder, or nil without recording.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor, or nil without monitoring.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// MonitorURL returns the address of the monitoring server.
func (s *Simulation) MonitorURL() string {
	return s.monitorURL
}

// Stats returns the progress of the simulation's user. Pending syncs are
// waited for first.
func (s *Simulation) Stats(ctx context.Context) (progress.Stats, error) {
	if s.tracker == nil {
		return progress.Stats{}, ErrNoTracker
	}

	s.notifier.Wait()

	return s.tracker.Stats(ctx, s.userID)
}

// Terminate stops the server, drains progress syncs, records the end of the
// session and closes the database. It is safe to call more than once.
func (s *Simulation) Terminate() {
	s.terminateOnce.Do(s.terminate)
}

func (s *Simulation) terminate() {
	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.monitor.Shutdown(ctx); err != nil {
			s.logger.Warn("monitor shutdown failed", "err", err)
		}
	}

	if s.notifier != nil {
		s.bench.RemoveHook(s.notifier)
		s.notifier.Wait()
	}

	if s.session != nil {
		if err := s.session.End(); err != nil {
			s.logger.Warn("failed to record session end", "err", err)
		}
	}

	if s.dataRecorder != nil {
		if err := s.dataRecorder.Close(); err != nil {
			s.logger.Warn("failed to close database", "err", err)
		}
	}
}
