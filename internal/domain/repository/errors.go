package repository

import "errors"

var (
	// ErrNotFound means no data was ever stored for the requested symbol.
	ErrNotFound = errors.New("liquidation data not found")

	// ErrStorageUnavailable means the external store cannot be reached.
	// Distinct from ErrNotFound: queries report it as service-unavailable
	// instead of silently returning empty data.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
