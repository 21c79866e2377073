package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrIllegalTransition is returned when a status change violates the rank rule.
	ErrIllegalTransition = errors.New("illegal status transition")
	// ErrUnknownStatus is returned for names outside the status set.
	ErrUnknownStatus = errors.New("unknown status")
)

// ParseStatus converts a user supplied name into a Status.
func ParseStatus(name string) (Status, error) {
	s := Status(strings.TrimSpace(name))
	if !s.Valid() {
		return "", fmt.Errorf("%w: '%s'", ErrUnknownStatus, name)
	}

	return s, nil
}

// CanTransition reports whether a task in status from may move to status to.
// Canceling is always allowed; otherwise the move must be exactly one rank.
func CanTransition(from, to Status) bool {
	cur, ok := from.Rank()
	if !ok {
		return false
	}

	next, ok := to.Rank()
	if !ok {
		return false
	}

	if next == 0 {
		return true
	}

	diff := cur - next
	if diff < 0 {
		diff = -diff
	}

	return diff == 1
}

// TryTransition moves t to next and stamps ChangedAt with now. The task is left
// untouched when the transition is rejected.
func (t *Task) TryTransition(next Status, now time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("%w: '%s'", ErrUnknownStatus, next)
	}

	if !t.Status.Valid() {
		return fmt.Errorf("%w: task '%s' has status '%s'", ErrUnknownStatus, t.Name, t.Status)
	}

	if !CanTransition(t.Status, next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, t.Status, next)
	}

	t.Status = next
	t.ChangedAt = now.Format(DateLayout)

	return nil
}
