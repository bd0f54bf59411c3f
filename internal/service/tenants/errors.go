package tenants

import "errors"

// Sentinel errors for the tenants service layer.
var (
	ErrNotFound  = errors.New("tenant not found")
	ErrSlugTaken = errors.New("tenant slug already in use")
)
