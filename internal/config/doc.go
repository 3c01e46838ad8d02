// Package config loads scry settings from an optional config.yaml and SCRY_*
// environment variables, and validates them. It selects the storage driver
// and the initial study filter.
package config
