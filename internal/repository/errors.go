package repository

import "errors"

var (
	// ErrEmptyImage indicates the source returned no bytes
	ErrEmptyImage = errors.New("image source returned no data")

	// ErrSnapshotUnavailable indicates the snapshot could not be written
	ErrSnapshotUnavailable = errors.New("snapshot unavailable")

	// ErrSourceUnavailable wraps upstream fetch failures
	ErrSourceUnavailable = errors.New("source unavailable")
)
