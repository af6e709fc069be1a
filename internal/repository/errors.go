// Package repository implements data access for the marketplace tables
// using hand-written SQL over database/sql.  Sentinel errors defined here
// let handlers distinguish business failures (quota, missing rows, duplicate
// email) from raw datastore errors, which are never surfaced to callers.
package repository

import "errors"

// ErrEmailExists is returned when registration hits the unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrQuotaExceeded is returned when a non-premium owner already holds the
// maximum number of ACTIVE listings.  The quota check and the insert run in
// one transaction, so this is reliable under concurrent submissions.
var ErrQuotaExceeded = errors.New("active listing quota exceeded")
