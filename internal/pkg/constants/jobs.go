package constants

import (
	"fmt"
	"strings"
)

// Job key formats. Evaluation keys are attempt-scoped so each attempt is
// enqueued at most once; the timeout key is booking-scoped so a fresh
// offer always replaces a stale timeout job.
const (
	keyJobEvaluate = "assign:%s:%d"
	keyJobTimeout  = "timeout:%s"
)

// EvaluateJobKey builds the scheduler key for one evaluation attempt.
func EvaluateJobKey(bookingID string, attempt int) string {
	return fmt.Sprintf(keyJobEvaluate, bookingID, attempt)
}

// TimeoutJobKey builds the scheduler key for a booking's offer timeout.
func TimeoutJobKey(bookingID string) string {
	return fmt.Sprintf(keyJobTimeout, bookingID)
}

// IsEvaluateJobKey reports whether key is an evaluation job for the
// booking, at any attempt. Used to sweep pending evaluations when a
// booking is cancelled or accepted.
func IsEvaluateJobKey(key, bookingID string) bool {
	return strings.HasPrefix(key, fmt.Sprintf("assign:%s:", bookingID))
}
