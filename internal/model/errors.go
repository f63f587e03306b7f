package model

import "errors"

// ErrDataUnavailable marks a provider response that is missing, empty or
// malformed. The affected instrument is skipped for the cycle.
var ErrDataUnavailable = errors.New("market data unavailable")

// ErrNoReport is returned when no report has been published yet, or the
// requested symbol is not in the latest one.
var ErrNoReport = errors.New("no report published")
