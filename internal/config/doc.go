// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional YAML file. It provides type-safe
// access to logging, storage and algorithm tunables while keeping
// configuration details separate from the scoring and sampling logic.
package config
