package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// shutdownContext returns a context that is canceled on the first SIGINT or
// SIGTERM. The upload in flight is aborted and whatever was already created
// stays on Drive. A second signal exits immediately.
func shutdownContext(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigCh)

		select {
		case <-sigCh:
			fmt.Fprintln(os.Stderr, "Interrupted, stopping after the current request...")
			cancel()
		case <-ctx.Done():
			return
		}

		select {
		case <-sigCh:
			os.Exit(1)
		case <-parent.Done():
			return
		}
	}()

	return ctx
}
