package wire

import "errors"

// ErrWire is wrapped by every decode failure in this package, so callers
// can tell malformed input apart from other errors with errors.Is.
var ErrWire = errors.New("dns wire")

// ErrNameDecode is returned when a name cannot be turned into display text.
var ErrNameDecode = errors.New("dns name decode")
