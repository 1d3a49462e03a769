// Package redis implements the waypoint ports on top of Redis.
package redis
