// Package config loads, normalizes, and validates clipscribe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a local .env file, and honours
// environment fallbacks such as CLIPSCRIBE_DB. The Config type centralizes
// every knob the run command and CLI need so the scratch directory, store
// location, and external tool paths are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
