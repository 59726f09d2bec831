package wm

import "errors"

// ErrWindowNotFound is returned when an operation references an unknown
// window id. Operations never fabricate a record for a missing id.
var ErrWindowNotFound = errors.New("window not found")

// ErrUnknownMode is returned by Arrange for an unrecognized arrangement mode.
var ErrUnknownMode = errors.New("unknown arrangement mode")
