// Package store defines the persistence interfaces consumed by the session
// engines, together with the shared error taxonomy and transaction helpers.
// Concrete implementations live under internal/platform.
package store
