// Package observability provides OpenTelemetry setup and metric
// instruments for the pipeline library.
//
// InitTracer and InitMeter configure global OTLP/HTTP providers.
// Metrics holds the instruments the dataset decorators record into:
// element throughput, transform duration, and error counts. All of it
// is optional; pipelines run identically with no providers installed.
package observability
