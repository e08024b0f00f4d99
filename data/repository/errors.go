// Package repository provides MongoDB-backed persistence for users, admins
// and wish-list items.
package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNotFound is returned when no document matches, including filtered
	// updates whose precondition no longer holds.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate key")
	// ErrInvalidID is returned for identifiers that are not ObjectIDs.
	ErrInvalidID = errors.New("invalid object id")
)

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
