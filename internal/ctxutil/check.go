// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled checks if the context has been canceled or exceeded its deadline.
// It returns nil while the context is live. Once done it returns the
// cancellation cause, so a deadline created with context.WithTimeoutCause
// surfaces its sentinel instead of a bare context.DeadlineExceeded.
func Canceled(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return context.Cause(ctx)
}
