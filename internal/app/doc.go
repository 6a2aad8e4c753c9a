// Package app contains the core application logic. It holds the validated
// configuration, runs the load-resolve-build pipeline, and drives the two
// run modes (serve and export), decoupled from any specific entrypoint
// like a CLI.
package app
