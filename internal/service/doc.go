// Package service holds the task-assignment workflows. Each exported operation
// takes the caller's domain.Identity explicitly and checks its role before
// touching storage.
//
// Workflows report expected outcomes (missing fields, failed persistence,
// failed notification, skipped rows) in their result values. Returned errors
// are reserved for authorization failures and faults the caller cannot act on.
package service
