package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context canceled on SIGINT or SIGTERM. A
// second signal falls through to the default handler and exits the process.
func SetupSignalHandler() (context.Context, context.CancelFunc) {
	return WithSignals(context.Background())
}

// WithSignals derives a context from parent that is canceled on SIGINT or
// SIGTERM.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}
