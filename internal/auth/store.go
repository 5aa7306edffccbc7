// Package auth implements credential storage and stateless bearer
// tokens for the accounts table.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/vaughan-dsouza/AcadGo/internal/db"
	"github.com/vaughan-dsouza/AcadGo/internal/models"
)

// Store persists account credentials. The bcrypt cost is fixed at
// construction so tests can run with bcrypt.MinCost.
type Store struct {
	db   *sqlx.DB
	cost int
}

func NewStore(conn *sqlx.DB, cost int) *Store {
	return &Store{db: conn, cost: cost}
}

// normalizeEmail is applied on both register and login so the unique
// index and lookups agree on case.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register hashes the password and inserts a new account. A unique
// violation on email maps to ErrDuplicateEmail; any other persistence
// failure surfaces as an opaque wrapped error.
func (s *Store) Register(ctx context.Context, email, password string, role models.Role) (models.Account, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return models.Account{}, &ValidationError{Msg: "email and password required"}
	}
	if !role.Valid() {
		return models.Account{}, &ValidationError{Msg: "role must be student, lecturer or admin"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hashing password: %w", err)
	}

	var account models.Account
	err = s.db.GetContext(ctx, &account, `
		INSERT INTO accounts (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, role, created_at
	`, email, string(hash), role)

	if err != nil {
		if db.IsUniqueViolation(err) {
			return models.Account{}, ErrDuplicateEmail
		}
		return models.Account{}, fmt.Errorf("inserting account: %w", err)
	}

	return account, nil
}

// VerifyCredentials looks up the account and compares the password
// against the stored bcrypt hash. Unknown email and wrong password
// return the same ErrInvalidCredentials so responses cannot be used
// to enumerate accounts.
func (s *Store) VerifyCredentials(ctx context.Context, email, password string) (models.Account, error) {
	email = normalizeEmail(email)

	var account models.Account
	err := s.db.GetContext(ctx, &account, `
		SELECT id, email, password_hash, role, created_at
		FROM accounts
		WHERE email = $1
	`, email)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("looking up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return models.Account{}, ErrInvalidCredentials
	}

	return account, nil
}
