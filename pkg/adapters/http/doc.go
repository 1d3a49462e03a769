// Package http exposes read-only diagnostics for waypoint runs: health,
// Prometheus metrics, stored run reports and their graph overlay.
package http
