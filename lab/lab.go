// Package lab wraps each engine behind an explicit recompute call. The
// surrounding application decides when inputs changed and calls Recompute;
// a lab keeps no memory of earlier inputs. After a successful computation a
// lab invokes its hooks at HookPosTaskCompleted, which is how optional
// collaborators such as progress tracking learn about finished work.
package lab

import (
	"context"
	"log/slog"

	"github.com/sarchlab/oslab/sim"
)

// Kind names a lab.
type Kind string

// Lab kinds.
const (
	CPU         Kind = "cpu"
	Memory      Kind = "memory"
	Deadlock    Kind = "deadlock"
	Concurrency Kind = "concurrency"
	Shell       Kind = "shell"
)

// Kinds lists every lab kind.
func Kinds() []Kind {
	return []Kind{CPU, Memory, Deadlock, Concurrency, Shell}
}

// HookPosTaskCompleted is triggered after a lab finishes a computation
// successfully. The hook item is a Completion.
var HookPosTaskCompleted = &sim.HookPos{Name: "Lab Task Completed"}

// Completion describes a finished computation.
type Completion struct {
	Kind   Kind
	UserID string
	Result any
}

// LogValue implements slog.LogValuer. The result is left out.
func (c Completion) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("lab", string(c.Kind)),
		slog.String("user", c.UserID),
	)
}

type userKey struct{}

// WithUser returns a context that attributes lab work to userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFromContext returns the user set by WithUser, or "" when the work is
// anonymous.
func UserFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userKey{}).(string)
	return userID
}

type base struct {
	sim.HookableBase

	kind Kind
}

// Kind returns which lab this is.
func (b *base) Kind() Kind {
	return b.kind
}

func (b *base) completed(ctx context.Context, result any) {
	if b.NumHooks() == 0 {
		return
	}

	b.InvokeHook(sim.HookCtx{
		Domain: b,
		Pos:    HookPosTaskCompleted,
		Item: Completion{
			Kind:   b.kind,
			UserID: UserFromContext(ctx),
			Result: result,
		},
	})
}
