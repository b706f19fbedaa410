// Package app wires configuration, telemetry, the chart store, services and
// HTTP handlers into a runnable server.
//
// # Initialization Flow
//
//  1. Initialize OpenTelemetry (tracing, Prometheus metrics)
//  2. Open the SQLite chart store
//  3. Create the upload, chart, school and health services
//  4. Build the chi router and middleware chain
//  5. Create the HTTP server
//
// # Usage
//
//	a, err := app.New(ctx, cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return a.Run(ctx)
//
// Run returns when ctx is cancelled (typically by SIGINT or SIGTERM) or when
// the listener fails. Shutdown drains in-flight requests, flushes telemetry
// and closes the store. The package never calls os.Exit.
package app
