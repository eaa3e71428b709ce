package upstream

import "errors"

// ErrUpstream is wrapped by every fetch failure: transport errors,
// non-200 statuses and malformed payloads. Not recoverable locally; the
// caller renders a failure state rather than partial charts.
var ErrUpstream = errors.New("upstream fetch failed")
