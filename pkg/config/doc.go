// Package config loads waypoint flows from YAML files and binds them to the
// DOM adapter's conditions and actions.
package config
