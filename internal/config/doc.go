// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to application settings needed by different components while keeping
// configuration details separate from business logic.
//
// No credentials live in source. The database URL, session secret, and SMTP
// credentials must be supplied through TASKDESK_* environment variables or a
// config file.
package config
