package serviceutil

import (
	"context"
	"os/signal"
	"syscall"
)

// SignalContext returns a context that is canceled once Ctrl+C is pressed or
// SIGTERM is received.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
