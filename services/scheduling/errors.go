package scheduling

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrRuleNotFound is returned when an operation addresses a recurrence
	// rule ID that does not exist.
	ErrRuleNotFound = errors.New("recurrence rule not found")

	// ErrCommitmentNotFound is returned when an operation addresses a
	// commitment ID that does not exist.
	ErrCommitmentNotFound = errors.New("commitment not found")

	// ErrRuleCancelled is returned when a bulk operation targets a cancelled
	// rule. Cancelled rules do not regenerate; a new rule must be created.
	ErrRuleCancelled = errors.New("recurrence rule is cancelled")

	// ErrSlotTaken signals that a requested slot was claimed between the
	// availability read and the booking write. Expected, not exceptional: the
	// caller should re-fetch availability and let the user re-pick.
	ErrSlotTaken = errors.New("slot is no longer available")
)

// TemplateError reports a malformed weekly template, rejected at write time.
type TemplateError struct {
	Message string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("invalid template: %s", e.Message)
}

func NewTemplateError(format string, args ...interface{}) error {
	return &TemplateError{Message: fmt.Sprintf(format, args...)}
}

// PartialBatchError reports a bulk materialize/edit/delete that wrote some but
// not all target records. FailedIDs lists the records that did not complete so
// the caller can retry just those.
type PartialBatchError struct {
	Op        string
	FailedIDs []string
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%s: %d record(s) incomplete: %s",
		e.Op, len(e.FailedIDs), strings.Join(e.FailedIDs, ", "))
}
