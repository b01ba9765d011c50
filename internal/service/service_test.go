package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/budgetly/internal/auth"
	"github.com/mmynk/budgetly/internal/cache"
	"github.com/mmynk/budgetly/internal/middleware"
	"github.com/mmynk/budgetly/internal/storage/sqlite"
	"github.com/mmynk/budgetly/pkg/api"
	"github.com/mmynk/budgetly/pkg/api/apiconnect"
)

// testNow is the fixed clock of the services under test (a Friday).
var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	server   *httptest.Server
	store    *sqlite.SQLiteStore
	auth     apiconnect.AuthServiceClient
	groups   apiconnect.GroupServiceClient
	expenses apiconnect.ExpenseServiceClient
}

// session is a registered test user.
type session struct {
	ID    string
	Token string
}

// setupTestServer serves every service over httptest with the production
// interceptors, backed by a fresh SQLite database.
func setupTestServer(t *testing.T, balances cache.BalanceCache) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret-0123456789", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	groupSvc := NewGroupService(store, balances, logger)
	groupSvc.now = func() time.Time { return testNow }
	expenseSvc := NewExpenseService(store, "XOF", logger)
	expenseSvc.now = func() time.Time { return testNow }

	public := connect.WithInterceptors(middleware.OptionalAuth(jwtManager))
	private := connect.WithInterceptors(middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), public))
	mux.Handle(apiconnect.NewGroupServiceHandler(groupSvc, private))
	mux.Handle(apiconnect.NewExpenseServiceHandler(expenseSvc, private))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		server:   server,
		store:    store,
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		groups:   apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses: apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
	}
}

func (e *testEnv) register(t *testing.T, email, name string) session {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: name,
		Password:    "motdepasse",
	}))
	require.NoError(t, err, "register %s", email)
	return session{ID: resp.Msg.User.ID, Token: resp.Msg.Token}
}

// as builds a request authenticated as s.
func as[T any](s session, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+s.Token)
	return req
}

// requireCode fails unless err is a Connect error with the given code.
func requireCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}
