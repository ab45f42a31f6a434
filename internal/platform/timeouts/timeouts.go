// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the chart service.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time allowed for a single chart service call from the
// CLI.
const GRPCRequest = 5 * time.Second

// Narrative caps a single interpretation request to the text model.
const Narrative = 60 * time.Second

// Shutdown limits how long the gRPC server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// TelemetryFlush bounds the span flush at the end of a one-shot CLI run.
const TelemetryFlush = time.Second
