package repositories

import (
	"errors"
	"strings"

	"github.com/anonto42/lumina/backend/internal/models"
	"gorm.io/gorm"
)

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

// translate maps a GORM error onto the engine's error kinds. resource names
// the entity for not-found errors.
func translate(op, resource string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource)
	case isDuplicate(err):
		return &models.StoreError{Op: op, Err: err, Duplicate: true}
	}
	return models.NewStoreError(op, err)
}
