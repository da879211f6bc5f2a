package app

import "github.com/google/uuid"

// newOrderID returns a fresh unique order identity. UUIDs keep identity
// assignment race-free under concurrent creates.
func newOrderID() string {
	return uuid.NewString()
}
