// Package file stores run reports as JSON files on the local filesystem.
package file
