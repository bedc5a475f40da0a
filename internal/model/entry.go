// Package model defines the core domain models used throughout the application.
package model

import "time"

// FileEntry is an immutable snapshot of a regular file taken at scan time.
type FileEntry struct {
	ModifiedAt time.Time
	Path       string
	Name       string
	Extension  string
	Size       int64
}
