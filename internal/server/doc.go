// Package server implements the optional monitoring HTTP server with health,
// status, and Prometheus metrics endpoints.
package server
