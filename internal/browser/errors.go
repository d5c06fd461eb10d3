// Package browser owns the authenticated browsing session. It is the sole
// owner of the underlying Chrome process; all navigation, script execution
// and screenshot capture go through a Session.
package browser

import "fmt"

// AuthError represents a login that never completed. Fatal for the run.
type AuthError struct {
	Message string
	Cause   error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("auth error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("auth error: %s", e.Message)
}

func (e *AuthError) Unwrap() error {
	return e.Cause
}

// ChallengeError reports an interactive verification step that was detected
// but not resolved. It is a suspension that ran out, not a login refusal.
type ChallengeError struct {
	SessionID string
	Cause     error
}

func (e *ChallengeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("challenge detected for session %s: %v", e.SessionID, e.Cause)
	}
	return fmt.Sprintf("challenge detected for session %s: no acknowledgement received", e.SessionID)
}

func (e *ChallengeError) Unwrap() error {
	return e.Cause
}

// NavigationError represents a failed page navigation. Fatal for the profile
// being visited, never for the run.
type NavigationError struct {
	URL     string
	Message string
	Cause   error
}

func (e *NavigationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("navigation error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("navigation error for %s: %s", e.URL, e.Message)
}

func (e *NavigationError) Unwrap() error {
	return e.Cause
}
