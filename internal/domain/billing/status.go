package billing

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPaid      Status = "PAID"
	StatusOverdue   Status = "OVERDUE"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists the closed set in display order.
var Statuses = []Status{StatusPending, StatusPaid, StatusOverdue, StatusCancelled}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	if !next.Valid() || s.Terminal() {
		return false
	}
	switch s {
	case StatusPending:
		return next == StatusPaid || next == StatusOverdue || next == StatusCancelled
	case StatusOverdue:
		return next == StatusPaid || next == StatusCancelled
	}
	return false
}
