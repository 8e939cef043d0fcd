package catalog

import "errors"

var (
	// ErrInvalidParameter is returned for malformed or out-of-range catalog
	// inputs, such as a non-positive width or an unparsable size string.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnknownProcessorVariant is returned when a processor kind is not one
	// the catalog knows how to build.
	ErrUnknownProcessorVariant = errors.New("unknown processor variant")
)
