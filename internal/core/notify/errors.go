package notify

import "errors"

// ErrInvalidArgument is returned when an operation receives an argument it
// cannot act on, such as a negative extension.
var ErrInvalidArgument = errors.New("invalid argument")
