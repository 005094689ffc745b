package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestConstraintMentions(t *testing.T) {
	byName := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_unique"}
	assert.True(t, constraintMentions(byName, "email"))
	assert.False(t, constraintMentions(byName, "username"))

	byDetail := &pgconn.PgError{Code: "23505", Detail: "Key (username)=(bob) already exists."}
	assert.True(t, constraintMentions(byDetail, "username"))
}
