// Package server runs the HTTP server with signal-aware graceful shutdown and
// ordered start and shutdown hooks.
package server
