package storage

import "errors"

// ErrNotFound is returned when an update or delete targets a record that
// does not exist.
var ErrNotFound = errors.New("record not found")
