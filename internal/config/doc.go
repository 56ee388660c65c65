// Package config loads, normalizes, and validates papeterie's application
// configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as PAPETERIE_GPG_KEY and
// GNUPGHOME. Per-job settings (snippet sub-templates, signed fragments, the
// layout file) live next to the job's input files and are handled by the
// jobspec package instead.
package config
