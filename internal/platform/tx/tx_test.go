package tx

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestJournalReplaysUndoNewestFirstOnFailure(t *testing.T) {
	t.Parallel()
	var order []string
	failure := errors.New("index down")

	err := Journal{}.Within(context.Background(), func(ctx context.Context) error {
		for _, name := range []string{"note", "workbook"} {
			name := name
			if !OnRollback(ctx, func(context.Context) error {
				order = append(order, name)
				return nil
			}) {
				t.Fatalf("registration inside a journal must succeed")
			}
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected original error, got %v", err)
	}
	if strings.Join(order, ",") != "workbook,note" {
		t.Fatalf("unexpected undo order %v", order)
	}
}

func TestJournalKeepsWritesOnSuccess(t *testing.T) {
	t.Parallel()
	undone := false
	err := Journal{}.Within(context.Background(), func(ctx context.Context) error {
		OnRollback(ctx, func(context.Context) error {
			undone = true
			return nil
		})
		return nil
	})
	if err != nil || undone {
		t.Fatalf("successful run must not undo, err=%v undone=%v", err, undone)
	}
}

func TestJournalJoinsUndoErrors(t *testing.T) {
	t.Parallel()
	failure := errors.New("disk full")
	err := Journal{}.Within(context.Background(), func(ctx context.Context) error {
		OnRollback(ctx, func(context.Context) error { return errors.New("permission denied") })
		return failure
	})
	if !errors.Is(err, failure) || !strings.Contains(err.Error(), "rollback: permission denied") {
		t.Fatalf("expected joined rollback error, got %v", err)
	}
}

func TestOnRollbackOutsideJournal(t *testing.T) {
	t.Parallel()
	if OnRollback(context.Background(), func(context.Context) error { return nil }) {
		t.Fatalf("registration without a journal must report false")
	}
	err := NoopManager{}.Within(context.Background(), func(ctx context.Context) error {
		if OnRollback(ctx, func(context.Context) error { return nil }) {
			t.Fatalf("noop manager must not accept undo steps")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("noop within: %v", err)
	}
}
