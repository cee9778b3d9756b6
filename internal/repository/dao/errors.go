package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
	ErrBoothNotFound   = errors.New("booth not found")
	ErrBoothExists     = errors.New("account already owns a booth")
	ErrPostNotFound    = errors.New("post not found")
	ErrBatchMismatch   = errors.New("accounts and booths differ in length")
)

// isUniqueViolation recognises duplicate-key failures from postgres and sqlite.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return true
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
