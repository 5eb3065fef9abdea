package port

import (
	"context"

	"github.com/nikolayk812/cartsync/internal/domain"
)

// Authenticator is the external identity provider.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (domain.Principal, error)
	// SignUp returns domain.ErrVerificationNeeded when the account exists but
	// must be confirmed before it can sign in.
	SignUp(ctx context.Context, email, password, name string) (domain.Principal, error)
	SignOut(ctx context.Context, principalID string) error
	CurrentPrincipal(ctx context.Context, principalID string) (domain.Principal, error)
	SetRole(ctx context.Context, principalID string, role domain.Role) error
	ConfirmEmail(ctx context.Context, email string) error
}

// PrincipalSource exposes the currently authenticated principal, nil for guests.
type PrincipalSource interface {
	Principal() *domain.Principal
}
