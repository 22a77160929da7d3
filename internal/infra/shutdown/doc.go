// Package shutdown provides graceful shutdown coordination for nilkvd.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Programmatic triggering via Trigger, for a fatal error the process
//     itself detects (e.g. the event loop's poller dying) rather than an
//     operator's signal
//   - A shared timeout on the context passed to every cleanup hook (hooks
//     that ignore the context are not interrupted)
//   - Cleanup callback registration, run in reverse registration order
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(func(ctx context.Context) error { return srv.Shutdown(ctx) })
//	if err := h.Wait(); err != nil { ... } // blocks until SIGINT/SIGTERM/Trigger
package shutdown
