// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled reports whether the context has been canceled or has exceeded
// its deadline, returning the context error if so and nil otherwise.
// Commands call this at entry points before doing any work.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
