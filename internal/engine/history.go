package engine

import (
	"fmt"

	"github.com/backpackerjohn/MM16/internal/constants"
	"github.com/backpackerjohn/MM16/internal/models"
	"github.com/backpackerjohn/MM16/internal/storage"
)

// Ledger is the bounded undo stack. Entries live in the store alongside the
// schedule itself, so a change made by one process run can be undone by the
// next. Most recent entry first.
type Ledger struct {
	store storage.Provider
}

// Push records a change by its pre-mutation schedule, evicting the oldest
// entry past the cap.
func (l *Ledger) Push(message string, before models.Schedule) error {
	stack, err := l.store.GetUndoStack()
	if err != nil {
		return err
	}
	stack = append([]models.UndoEntry{{Message: message, Before: before}}, stack...)
	if len(stack) > constants.MaxUndoEntries {
		stack = stack[:constants.MaxUndoEntries]
	}
	return l.store.SaveUndoStack(stack)
}

// Undo restores the schedule that preceded the most recent change and pops
// its entry. A failed restore keeps the entry so the user can retry.
func (l *Ledger) Undo() (string, error) {
	stack, err := l.store.GetUndoStack()
	if err != nil {
		return "", err
	}
	if len(stack) == 0 {
		return "", fmt.Errorf("nothing to undo")
	}
	entry := stack[0]
	if err := l.store.Restore(entry.Before); err != nil {
		return "", fmt.Errorf("undo failed: %w", err)
	}
	if err := l.store.SaveUndoStack(stack[1:]); err != nil {
		return "", err
	}
	return entry.Message, nil
}

// Len reports how many changes can currently be undone.
func (l *Ledger) Len() int {
	stack, err := l.store.GetUndoStack()
	if err != nil {
		return 0
	}
	return len(stack)
}

// Messages lists the undoable change messages, most recent first.
func (l *Ledger) Messages() []string {
	stack, err := l.store.GetUndoStack()
	if err != nil {
		return nil
	}
	messages := make([]string, len(stack))
	for i, entry := range stack {
		messages[i] = entry.Message
	}
	return messages
}
