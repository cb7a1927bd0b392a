// Package shutdown ties a context to the process termination signals.
package shutdown

import (
	"context"
	"os/signal"
)

// Context returns a context cancelled on the first termination signal.
// A second signal falls back to the default behaviour and kills the process.
func Context(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}
