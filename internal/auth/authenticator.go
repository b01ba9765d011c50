// Package auth handles account credentials and session tokens.
package auth

import (
	"context"

	"github.com/mmynk/budgetly/internal/models"
)

// Authenticator verifies identities for the AuthService.
// Implementations own credential storage and validation rules.
type Authenticator interface {
	// Register creates an account for email. It fails with ErrEmailExists
	// when the address is already taken.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the account matching email and credential, or
	// ErrInvalidCredentials without telling which of the two was wrong.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}
