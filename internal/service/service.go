// Package service holds the business rules of the catalog: who may do what,
// how bans are issued and lifted, and how content changes.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	apperrors "gamehub/internal/errors"
)

const userCacheTTL = 5 * time.Minute

// validate checks single values (emails, URLs) with the same rules the
// request binder uses.
var validate = validator.New()

func userCacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// normalizeUsername trims surrounding whitespace. Usernames compare exactly.
func normalizeUsername(s string) string {
	return strings.TrimSpace(s)
}

// normalizeEmail trims and lowercases.
func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// notFound turns gorm.ErrRecordNotFound into a NotFoundError and wraps
// anything else.
func notFound(err error, entity string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(entity, id)
	}
	return fmt.Errorf("load %s %v: %w", entity, id, err)
}

// normalizePage clamps page numbers below 1.
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func validUsername(username string, verr *apperrors.ValidationError) {
	if n := runeLen(username); n < 4 || n > 20 {
		verr.Add("username", "username must be between 4 and 20 characters")
	}
}

func validEmail(email string, verr *apperrors.ValidationError) {
	if email == "" || runeLen(email) > 120 || validate.Var(email, "email") != nil {
		verr.Add("email", "invalid email address")
	}
}

func validNewPassword(field, password, confirm string, verr *apperrors.ValidationError) {
	if runeLen(password) < 8 {
		verr.Add(field, "password must be at least 8 characters")
	}
	if password != confirm {
		verr.Add(field+"2", "passwords do not match")
	}
}
