package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors returned by the typed stores. Callers translate these
// into application errors at the service boundary.
var (
	// ErrNotFound indicates no record matched the query.
	ErrNotFound = errors.New("store: record not found")

	// ErrDuplicate indicates an insert or update violated a unique index.
	ErrDuplicate = errors.New("store: duplicate record")
)

// translate maps GORM and driver errors onto the store's sentinel errors.
// GORM's TranslateError covers postgres and most sqlite builds; the message
// sniff catches sqlite builds that surface the raw constraint text.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") {
		return ErrDuplicate
	}
	return err
}
