// Package catalog describes the components that a simulated machine can be
// assembled from.
//
// Every description is a plain value. Constructors validate their inputs and
// return ErrInvalidParameter or ErrUnknownProcessorVariant before any
// simulation starts, so a configuration that reaches the engine is always
// well formed.
package catalog
