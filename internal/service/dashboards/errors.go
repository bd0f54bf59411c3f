package dashboards

import "errors"

// Sentinel errors for the dashboards service layer.
var ErrNotFound = errors.New("dashboard not found")
