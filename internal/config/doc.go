// Package config loads, normalizes, and validates camerafy configuration.
//
// Settings come from a TOML file (defaults apply for anything left out).
// Catalog and manifest paths are expanded, log settings are canonicalized,
// and Validate reports the first unusable value.
package config
