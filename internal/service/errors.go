package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/vietanh2810/festival-api/internal/repository"
)

var (
	ErrAccountExists   = repository.ErrAccountExists
	ErrAccountNotFound = repository.ErrAccountNotFound
	ErrBoothNotFound   = repository.ErrBoothNotFound
	ErrPostNotFound    = repository.ErrPostNotFound

	ErrStudentNotFound    = errors.New("student not found")
	ErrBoothAccessDenied  = errors.New("account owns no booth")
	ErrForbidden          = errors.New("forbidden")
	ErrNotVisited         = fmt.Errorf("%w: booth was never visited", ErrForbidden)
	ErrWrongCredentials   = errors.New("wrong login code or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNicknamesExhausted = fmt.Errorf("%w: not enough unused nicknames left", ErrInvalidInput)

	// ErrDuplicate is matched by every throttle violation.
	ErrDuplicate = errors.New("duplicate")
)

// DuplicateVisitError rejects a second visit of the same booth by the same student.
type DuplicateVisitError struct {
	LastVisitedAt time.Time
}

func (e *DuplicateVisitError) Error() string {
	return fmt.Sprintf("booth already visited at %s", e.LastVisitedAt.Format(time.RFC3339))
}

func (e *DuplicateVisitError) Is(target error) bool {
	return target == ErrDuplicate
}

// DuplicateAwardError rejects an award inside the cooldown window.
type DuplicateAwardError struct {
	AvailableAt time.Time
}

func (e *DuplicateAwardError) Error() string {
	return fmt.Sprintf("points already awarded, available again at %s", e.AvailableAt.Format(time.RFC3339))
}

func (e *DuplicateAwardError) Is(target error) bool {
	return target == ErrDuplicate
}

// OutcomeRecorder receives the result of each recording operation.
type OutcomeRecorder interface {
	RecordOutcome(operation, outcome string)
}

type nopOutcomes struct{}

func (nopOutcomes) RecordOutcome(string, string) {}
