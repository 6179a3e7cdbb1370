// Package progress keeps per-user lab mastery. Each successful lab
// computation attributed to a user counts as one completed task. Every sync
// adds MasteryPerSync points to that lab's mastery, however many tasks it
// reports.
package progress

import (
	"context"
	"errors"
	"time"

	"github.com/sarchlab/oslab/lab"
)

const (
	// MasteryPerSync is the mastery gained per recorded sync.
	MasteryPerSync = 2

	// MaxMastery caps the reported mastery of a lab.
	MaxMastery = 100
)

var (
	// ErrNoUser is returned when progress is requested without a user.
	ErrNoUser = errors.New("no user")

	// ErrInvalidTasks is returned when a sync carries no tasks.
	ErrInvalidTasks = errors.New("task count must be at least 1")
)

// Stats summarizes a user's progress.
type Stats struct {
	UserID   string           `json:"user_id"`
	Mastery  map[lab.Kind]int `json:"mastery"`
	Tasks    int              `json:"tasks_completed"`
	LastSync time.Time        `json:"last_sync"`
}

// NewStats returns empty stats with every lab at zero mastery.
func NewStats(userID string) Stats {
	s := Stats{UserID: userID, Mastery: make(map[lab.Kind]int)}
	for _, k := range lab.Kinds() {
		s.Mastery[k] = 0
	}

	return s
}

// Tracker persists progress.
type Tracker interface {
	// Sync records tasks completed in a lab.
	Sync(ctx context.Context, userID string, kind lab.Kind, tasks int) error

	// Stats returns the accumulated progress of a user.
	Stats(ctx context.Context, userID string) (Stats, error)
}
