// Package config provides server configuration for nilkv.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default configuration values
//   - verify.go: validation, including the protocol-limit invariants
//     spec.md fixes (a config file may only tighten them, never loosen)
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: an optional YAML file and environment variables.
package config
