package tx

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Manager wraps the boundary of an export: note, workbook and index writes.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// UndoFunc reverses one completed write.
type UndoFunc func(ctx context.Context) error

// NoopManager runs fn as is. Undo steps registered inside it are dropped.
type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// Journal runs fn and, if it fails, replays the undo steps fn registered
// through OnRollback, newest first. Undo failures are joined to fn's error.
type Journal struct{}

type journalKey struct{}

type journal struct {
	mu   sync.Mutex
	undo []UndoFunc
}

func (Journal) Within(ctx context.Context, fn func(context.Context) error) error {
	j := &journal{}
	err := fn(context.WithValue(ctx, journalKey{}, j))
	if err == nil {
		return nil
	}

	j.mu.Lock()
	steps := j.undo
	j.undo = nil
	j.mu.Unlock()
	for i := len(steps) - 1; i >= 0; i-- {
		if undoErr := steps[i](ctx); undoErr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", undoErr))
		}
	}
	return err
}

// OnRollback registers undo with the Journal enclosing ctx. It reports false,
// and does nothing, when ctx is not inside a Journal.
func OnRollback(ctx context.Context, undo UndoFunc) bool {
	j, ok := ctx.Value(journalKey{}).(*journal)
	if !ok || undo == nil {
		return false
	}
	j.mu.Lock()
	j.undo = append(j.undo, undo)
	j.mu.Unlock()
	return true
}
