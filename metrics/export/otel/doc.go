// Package otel exposes goBroker metrics as OpenTelemetry observable
// instruments on a caller-supplied meter.
package otel
