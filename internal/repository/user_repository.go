package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartsync/internal/db"
	"github.com/nikolayk812/cartsync/internal/domain"
	"github.com/nikolayk812/cartsync/internal/port"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	uniqueViolation   = "23505"
)

type userRepository struct {
	q          *db.Queries
	autoVerify bool
	cost       int
}

type UserOption func(*userRepository)

// WithAutoVerify marks new accounts as verified so they can sign in immediately.
func WithAutoVerify(v bool) UserOption {
	return func(r *userRepository) {
		r.autoVerify = v
	}
}

func WithBcryptCost(cost int) UserOption {
	return func(r *userRepository) {
		r.cost = cost
	}
}

// NewUser returns an Authenticator backed by the users table.
func NewUser(pool *pgxpool.Pool, opts ...UserOption) port.Authenticator {
	r := &userRepository{
		q:    db.New(pool),
		cost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *userRepository) SignIn(ctx context.Context, email, password string) (domain.Principal, error) {
	email = normalizeEmail(email)

	row, err := r.q.GetUserByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Principal{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("q.GetUserByEmail: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return domain.Principal{}, domain.ErrInvalidCredentials
	}
	if !row.Verified {
		return domain.Principal{}, domain.ErrVerificationNeeded
	}

	if err := r.q.TouchUserSignIn(ctx, row.ID); err != nil {
		return domain.Principal{}, fmt.Errorf("q.TouchUserSignIn: %w", err)
	}

	return mapUserToDomain(row), nil
}

func (r *userRepository) SignUp(ctx context.Context, email, password, name string) (domain.Principal, error) {
	email = normalizeEmail(email)
	if email == "" {
		return domain.Principal{}, &domain.ValidationError{
			Summary: "email is empty",
			Fields:  map[string]string{"email": "is required"},
		}
	}
	if len(password) < minPasswordLength {
		msg := fmt.Sprintf("should be at least %d characters", minPasswordLength)
		return domain.Principal{}, &domain.ValidationError{
			Summary: "password " + msg,
			Fields:  map[string]string{"password": msg},
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), r.cost)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	row, err := r.q.CreateUser(ctx, db.CreateUserParams{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		Role:         string(domain.RoleCustomer),
		Verified:     r.autoVerify,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.Principal{}, domain.ErrEmailTaken
		}
		return domain.Principal{}, fmt.Errorf("q.CreateUser: %w", err)
	}

	if !row.Verified {
		return domain.Principal{}, domain.ErrVerificationNeeded
	}

	return mapUserToDomain(row), nil
}

// SignOut has nothing to revoke server side; sessions live with the caller.
func (r *userRepository) SignOut(_ context.Context, principalID string) error {
	if principalID == "" {
		return fmt.Errorf("principalID is empty")
	}
	return nil
}

func (r *userRepository) CurrentPrincipal(ctx context.Context, principalID string) (domain.Principal, error) {
	id, err := uuid.Parse(principalID)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("uuid.Parse: %w", err)
	}

	row, err := r.q.GetUser(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Principal{}, fmt.Errorf("user[%s]: %w", principalID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Principal{}, fmt.Errorf("q.GetUser: %w", err)
	}

	return mapUserToDomain(row), nil
}

func (r *userRepository) SetRole(ctx context.Context, principalID string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("role[%s] is not valid", role)
	}

	id, err := uuid.Parse(principalID)
	if err != nil {
		return fmt.Errorf("uuid.Parse: %w", err)
	}

	rowsAffected, err := r.q.UpdateUserRole(ctx, db.UpdateUserRoleParams{ID: id, Role: string(role)})
	if err != nil {
		return fmt.Errorf("q.UpdateUserRole: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user[%s]: %w", principalID, domain.ErrNotFound)
	}

	return nil
}

func (r *userRepository) ConfirmEmail(ctx context.Context, email string) error {
	rowsAffected, err := r.q.VerifyUser(ctx, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("q.VerifyUser: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("user[%s]: %w", email, domain.ErrNotFound)
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mapUserToDomain(row db.User) domain.Principal {
	return domain.NewPrincipal(row.ID.String(), row.Email, row.FullName, domain.Role(row.Role))
}
