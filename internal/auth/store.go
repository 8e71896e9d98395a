package auth

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isUniqueViolation reports whether err comes from a unique index. Drivers
// without error translation are recognized by their message.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// firstOrCreate loads the row matching cond into dest or inserts create.
// The insert runs in a savepoint, so losing the race on a unique index to a
// concurrent request leaves the outer transaction usable for the second
// lookup. It reports whether the row was inserted.
func firstOrCreate[T any](tx *gorm.DB, dest *T, cond *T, create *T) (bool, error) {
	err := tx.Where(cond).Take(dest).Error
	if err == nil {
		return false, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	errCreate := tx.Transaction(func(inner *gorm.DB) error {
		return inner.Create(create).Error
	})
	if errCreate == nil {
		*dest = *create
		return true, nil
	}

	if !isUniqueViolation(errCreate) {
		return false, errCreate
	}

	if err = tx.Where(cond).Take(dest).Error; err != nil {
		return false, err
	}

	return false, nil
}
