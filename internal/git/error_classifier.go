package git

import (
	stderrors "errors"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/mrz1836/git-deploy/internal/errors"
)

// ErrorType is the classification of a backend error.
type ErrorType int

const (
	// ErrorTypeUnknown indicates the error could not be classified.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuth indicates an authentication or authorization failure.
	ErrorTypeAuth
	// ErrorTypeNetwork indicates a network connectivity failure.
	ErrorTypeNetwork
	// ErrorTypeNonFastForward indicates the remote rejected the push.
	ErrorTypeNonFastForward
)

// String returns a human-readable name for the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeUnknown:
		return "unknown"
	case ErrorTypeAuth:
		return "authentication"
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeNonFastForward:
		return "non_fast_forward"
	default:
		return "unknown"
	}
}

// PatternMatcher checks if a string contains any of a list of patterns.
type PatternMatcher struct {
	patterns []string
}

// NewPatternMatcher creates a PatternMatcher. Patterns must be lowercase.
func NewPatternMatcher(patterns ...string) *PatternMatcher {
	return &PatternMatcher{patterns: patterns}
}

// Matches reports whether s, lowercased, contains any pattern.
func (m *PatternMatcher) Matches(s string) bool {
	return m.MatchesLower(strings.ToLower(s))
}

// MatchesLower is Matches for an already lowercased string.
func (m *PatternMatcher) MatchesLower(lower string) bool {
	for _, pattern := range m.patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

//nolint:gochecknoglobals // Package-level immutable pattern matchers
var (
	authPatterns = NewPatternMatcher(
		"authentication required",
		"authorization failed",
		"authentication failed",
		"unable to authenticate",
		"permission denied",
		"no supported methods remain",
		"invalid username or password",
		"credential attempts exceeded",
	)

	networkPatterns = NewPatternMatcher(
		"could not resolve host",
		"no such host",
		"connection refused",
		"network is unreachable",
		"connection timed out",
		"i/o timeout",
		"no route to host",
		"connection reset",
	)

	nonFastForwardPatterns = NewPatternMatcher(
		"non-fast-forward",
		"failed to push some refs",
		"rejected",
	)
)

// ClassifyError determines the error type of err. Typed transport errors
// are checked first, then the message is matched against known patterns.
//
// Classification priority (first match wins):
// 1. Authentication
// 2. Network
// 3. Non-fast-forward
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrorTypeUnknown
	}
	if stderrors.Is(err, transport.ErrAuthenticationRequired) ||
		stderrors.Is(err, transport.ErrAuthorizationFailed) ||
		stderrors.Is(err, errors.ErrAuthentication) {
		return ErrorTypeAuth
	}

	lower := strings.ToLower(err.Error())
	switch {
	case authPatterns.MatchesLower(lower):
		return ErrorTypeAuth
	case networkPatterns.MatchesLower(lower):
		return ErrorTypeNetwork
	case nonFastForwardPatterns.MatchesLower(lower):
		return ErrorTypeNonFastForward
	default:
		return ErrorTypeUnknown
	}
}

// wrapBackendError tags err with its error kind and adds the operation as
// context. Authentication failures carry ErrAuthentication. Everything else
// carries ErrVersionControl, plus ErrRemoteUnreachable or ErrPushRejected
// when the failure is classified as such.
func wrapBackendError(err error, op string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, errors.ErrAuthentication) {
		return errors.Wrap(err, op)
	}
	switch ClassifyError(err) {
	case ErrorTypeAuth:
		return errors.Wrap(errors.Join(errors.ErrAuthentication, err), op)
	case ErrorTypeNetwork:
		err = errors.Join(errors.ErrRemoteUnreachable, err)
	case ErrorTypeNonFastForward:
		err = errors.Join(errors.ErrPushRejected, err)
	case ErrorTypeUnknown:
	}
	return errors.Wrap(errors.Join(errors.ErrVersionControl, err), op)
}
