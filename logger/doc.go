// Package logger provides structured logging for the pipeline
// library using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. The worker pool
// and dataset stages tag their loggers with component and instance
// identifiers so concurrent pipelines stay distinguishable in output.
//
// # Configuration
//
//	logger:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("dataset.map")
//	log.Info("iterator opened", logger.Fields("iterator_id", id))
package logger
