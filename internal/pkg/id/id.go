package id

import "github.com/oklog/ulid/v2"

// New returns a ULID string for a new user or appointment. ULIDs sort by
// creation time and are safe to use as DynamoDB partition keys.
func New() string {
	return ulid.Make().String()
}
