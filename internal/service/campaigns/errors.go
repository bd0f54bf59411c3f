package campaigns

import "errors"

// Sentinel errors for the campaigns service layer.
var (
	ErrNotFound   = errors.New("campaign not found")
	ErrStaleState = errors.New("campaign state changed concurrently")
)
