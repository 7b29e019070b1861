package respcache

import "errors"

// ErrInvalidTTL is returned by New for a negative TTL.
var ErrInvalidTTL = errors.New("respcache: ttl must not be negative")
