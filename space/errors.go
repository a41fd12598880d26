package space

import "github.com/zeebo/errs"

// Error classes mirror the three fatal categories the scheduling core can
// hit: resources it ran out of, invariants it caught itself breaking, and
// bad configuration caught before any Space exists.
var (
	ResourceError  = errs.Class("resource")
	InvariantError = errs.Class("invariant")
	ConfigError    = errs.Class("config")
)
