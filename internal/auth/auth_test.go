package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/budgetly/internal/models"
	"github.com/mmynk/budgetly/internal/storage"
)

// memoryUsers is an in-memory storage.UserStore.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*models.User)}
}

func (m *memoryUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := m.users[key]; ok {
		return storage.ErrAlreadyExists
	}
	m.users[key] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[strings.ToLower(email)]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (m *memoryUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (m *memoryUsers) SearchUsers(context.Context, string, int) ([]models.Profile, error) {
	return nil, nil
}

func TestPasswordAuthenticator(t *testing.T) {
	ctx := context.Background()
	a := NewPasswordAuthenticator(newMemoryUsers()).WithCost(bcrypt.MinCost)

	user, err := a.Register(ctx, "  Awa@Example.com ", "", "motdepasse")
	require.NoError(t, err)
	assert.Equal(t, "awa@example.com", user.Email)
	assert.Equal(t, "awa", user.DisplayName)
	assert.NotEqual(t, "motdepasse", user.PasswordHash)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid", email: "awa@example.com", password: "motdepasse"},
		{name: "email case ignored", email: "AWA@example.com", password: "motdepasse"},
		{name: "wrong password", email: "awa@example.com", password: "nope-nope", wantErr: ErrInvalidCredentials},
		{name: "unknown email", email: "moussa@example.com", password: "motdepasse", wantErr: ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run("Authenticate "+tt.name, func(t *testing.T) {
			got, err := a.Authenticate(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
		})
	}

	t.Run("Register rejects", func(t *testing.T) {
		_, err := a.Register(ctx, "awa@example.com", "Awa", "motdepasse")
		assert.ErrorIs(t, err, ErrEmailExists)

		_, err = a.Register(ctx, "new@example.com", "New", "court")
		assert.ErrorIs(t, err, ErrWeakPassword)

		_, err = a.Register(ctx, "not-an-email", "X", "motdepasse")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "awa@example.com"}
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(user)
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		claims, err := m.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID())
		assert.Equal(t, "awa@example.com", claims.Email)
		assert.Equal(t, Issuer, claims.Issuer)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other-secret", time.Hour).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTManager("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
