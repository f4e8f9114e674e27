package appointments

import "errors"

// ErrNotFound is returned when no appointment matches the given id.
var ErrNotFound = errors.New("appointments: appointment not found")
