package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/sarchlab/oslab/datarecording"
	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/sim"
)

const eventTable = "progress_events"

type syncEntry struct {
	ID      string
	UserID  string
	Lab     string
	Tasks   int
	Mastery int
	Time    int64
}

// SQLiteTracker stores one row per sync and aggregates on read.
type SQLiteTracker struct {
	recorder datarecording.DataRecorder
	reader   datarecording.DataReader
	ids      sim.IDGenerator
	now      func() time.Time
}

// NewSQLiteTracker prepares the event table on the given recorder and
// reader, which should share a database.
func NewSQLiteTracker(
	recorder datarecording.DataRecorder,
	reader datarecording.DataReader,
) (*SQLiteTracker, error) {
	if err := recorder.CreateTable(eventTable, syncEntry{}); err != nil {
		return nil, err
	}

	if err := reader.MapTable(eventTable, syncEntry{}); err != nil {
		return nil, err
	}

	return &SQLiteTracker{
		recorder: recorder,
		reader:   reader,
		ids:      sim.NewUniqueIDGenerator(),
		now:      time.Now,
	}, nil
}

// Sync records tasks and flushes immediately so that Stats sees them.
func (t *SQLiteTracker) Sync(
	ctx context.Context,
	userID string,
	kind lab.Kind,
	tasks int,
) error {
	if userID == "" {
		return ErrNoUser
	}

	if tasks < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidTasks, tasks)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	entry := syncEntry{
		ID:      t.ids.Generate(),
		UserID:  userID,
		Lab:     string(kind),
		Tasks:   tasks,
		Mastery: MasteryPerSync,
		Time:    t.now().UnixNano(),
	}

	if err := t.recorder.InsertData(eventTable, entry); err != nil {
		return err
	}

	return t.recorder.Flush()
}

// Stats sums the recorded syncs of a user.
func (t *SQLiteTracker) Stats(ctx context.Context, userID string) (Stats, error) {
	if userID == "" {
		return Stats{}, ErrNoUser
	}

	rows, _, err := t.reader.Query(ctx, eventTable, datarecording.QueryParams{
		Where:   "UserID = ?",
		Args:    []any{userID},
		OrderBy: "Time",
	})
	if err != nil {
		return Stats{}, err
	}

	s := NewStats(userID)

	for _, row := range rows {
		e := row.(*syncEntry)
		k := lab.Kind(e.Lab)
		s.Mastery[k] = min(s.Mastery[k]+e.Mastery, MaxMastery)
		s.Tasks += e.Tasks
		s.LastSync = time.Unix(0, e.Time)
	}

	return s, nil
}
