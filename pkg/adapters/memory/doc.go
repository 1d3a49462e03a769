// Package memory provides in-process implementations of the waypoint ports.
package memory
