// Package types defines the Store interface, entity types, configuration,
// and standard errors for the Gymkeeper persistence engine.
package types
