package calculator

import "errors"

// ErrEmptyInput is returned when a computation that needs at least one bar gets none.
var ErrEmptyInput = errors.New("no price bars provided")
