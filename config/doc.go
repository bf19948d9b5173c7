// Package config loads pipeline configuration from YAML files and
// environment variables using viper, with optional .env loading.
//
// Configuration covers the library's ambient concerns — logging and
// the shared worker pool — not pipeline semantics: datasets and
// transforms are composed in code.
//
//	logging:
//	  level: "info"
//	  format: "json"
//	pool:
//	  workers: 8
package config
