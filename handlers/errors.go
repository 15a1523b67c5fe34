package handlers

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// isNotFound reports whether a repository error means the record is absent.
func isNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
