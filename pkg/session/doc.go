/*
Package session runs many independent waypoint sessions side by side.

Each session owns its registry run and its driver; nothing is shared between
them except the optional DistributedLocker (so a session key is driven by one
replica at a time) and the optional ReportStore.
*/
package session
