// Package chaterr defines the error taxonomy shared by the automation
// engine. Callers classify failures with errors.Is against these
// sentinels rather than matching on message text.
package chaterr

import "errors"

var (
	// ErrSelectorNotFound indicates a selector resolved to no element.
	// It is transient at the per-attempt level; repeated exhaustion is
	// escalated to ErrRecalibrationRequired by the operator.
	ErrSelectorNotFound = errors.New("selector matched no element")

	// ErrWaitTimeout indicates a bounded wait expired before the
	// requested condition (present, clickable) was satisfied.
	ErrWaitTimeout = errors.New("wait timed out")

	// ErrStaleElement indicates an element handle detached from the
	// document between lookup and use.
	ErrStaleElement = errors.New("element is stale")

	// ErrAuthenticationFailed indicates the manual-login window expired
	// without the authenticated interface appearing. Fatal for the run.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrPlatformNotConfigured indicates no selector configuration
	// exists for the requested platform, or the stored one is invalid.
	ErrPlatformNotConfigured = errors.New("platform not configured")

	// ErrRecalibrationRequired indicates selectors repeatedly failed
	// against a previously valid configuration. The live loop must halt
	// and the process must exit with a distinct code so operators can
	// tell "fix the selectors" from generic failure.
	ErrRecalibrationRequired = errors.New("selector recalibration required")
)

// IsTransient reports whether err is a transient UI failure worth a
// bounded local retry.
func IsTransient(err error) bool {
	return errors.Is(err, ErrSelectorNotFound) ||
		errors.Is(err, ErrWaitTimeout) ||
		errors.Is(err, ErrStaleElement)
}
