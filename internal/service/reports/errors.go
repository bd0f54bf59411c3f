package reports

import "errors"

// Sentinel errors for the reports service layer.
var (
	ErrNotFound   = errors.New("report not found")
	ErrNoPayload  = errors.New("report has no generated payload")
	ErrStaleState = errors.New("report state changed concurrently")
)
