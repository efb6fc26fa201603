package store

import "context"

// Tree collection roots. These paths are the wire format shared with every
// existing client and must not change; penddingUsers keeps its historical
// spelling for that reason.
const (
	UsersPath      = "users"
	PendingPath    = "penddingUsers"
	AttendancePath = "attendance"
)

// UserPath returns the node path for one user record.
func UserPath(code string) string { return UsersPath + "/" + code }

// PendingUserPath returns the node path for one pending registration.
func PendingUserPath(code string) string { return PendingPath + "/" + code }

// Store is the narrow surface over the tree-structured document store.
// Handlers address nodes by slash-separated path only, so the hosted backend
// can be swapped for the in-memory tree in tests and local development.
type Store interface {
	// Get unmarshals the node at path into dest. An absent node leaves dest
	// untouched, mirroring the backend's null-snapshot semantics.
	Get(ctx context.Context, path string, dest any) error
	// Set overwrites the node at path with value.
	Set(ctx context.Context, path string, value any) error
	// Update merges fields into the node at path; unspecified fields are
	// preserved and a nil field value deletes that key.
	Update(ctx context.Context, path string, fields map[string]any) error
	// Remove deletes the subtree at path.
	Remove(ctx context.Context, path string) error
	// Exists reports whether a non-empty node exists at path.
	Exists(ctx context.Context, path string) (bool, error)
}
