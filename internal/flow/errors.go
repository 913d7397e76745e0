package flow

import "errors"

// Sentinel errors returned by Table operations. Callers compare with
// errors.Is rather than matching on type or string content.
var (
	// ErrResource is returned by Add when the entry pool is exhausted.
	// Add also increments the table's TableFullErrors counter when it
	// returns it.
	ErrResource = errors.New("flow: resource exhausted")

	// ErrExists is returned by Add when the given flow ID is already
	// present.
	ErrExists = errors.New("flow: id already exists")

	// ErrNotFound is returned by DeleteByID when the ID is not present.
	// Lookup and FirstMatch report a miss with a false result instead.
	ErrNotFound = errors.New("flow: not found")

	// ErrUnknown signals invalid internal state, such as the configured
	// EffectsBuilder returning no match key for a flow-add message.
	ErrUnknown = errors.New("flow: unknown internal error")

	// ErrBusy is returned by Close when an iteration task spawned
	// against this table has not yet run to completion.
	ErrBusy = errors.New("flow: table busy, outstanding iteration task")

	// ErrInvalidConfig is returned by New when MaxEntries is not
	// positive or a required collaborator is nil.
	ErrInvalidConfig = errors.New("flow: invalid table configuration")
)
