package service

import "errors"

// Error taxonomy for the planner core. Handlers map these onto HTTP statuses;
// everything else surfaces as an internal error.
var (
	// ErrValidation covers malformed slot keys, out-of-range servings and
	// missing template metadata.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means the plan or template id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict covers creating a plan for an occupied (owner, week) and
	// copying a template onto an occupied week.
	ErrConflict = errors.New("conflict")

	// ErrStaleWrite means a slot replace carried an outdated plan version.
	ErrStaleWrite = errors.New("stale write rejected")

	// ErrOrphanedTemplate means a plan's template reference no longer
	// resolves. Distinct from ErrNotFound on the plan itself.
	ErrOrphanedTemplate = errors.New("template reference is orphaned")

	// ErrForbidden means the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")

	// ErrTransient means an upstream dependency failed in a way that is
	// worth retrying, like an object-store write.
	ErrTransient = errors.New("transient upstream failure")
)
