/*
Package observability provides tools for monitoring the waypoint engine.

It includes Prometheus metrics fed by lifecycle hooks, a structured-logging hook
set, and helpers to fan one event out to several hook sets.
*/
package observability
