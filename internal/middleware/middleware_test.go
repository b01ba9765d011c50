package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/budgetly/internal/auth"
	"github.com/mmynk/budgetly/internal/models"
)

type ping struct{}

// echoIdentity returns the caller's identity as seen by the handler.
func echoIdentity(seen *string) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		*seen = GetUserID(ctx)
		return connect.NewResponse(&ping{}), nil
	}
}

func requestWithAuth(header string) *connect.Request[ping] {
	req := connect.NewRequest(&ping{})
	if header != "" {
		req.Header().Set("Authorization", header)
	}
	return req
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "Bearer abc", want: "abc"},
		{header: "", wantErr: auth.ErrMissingToken},
		{header: "Basic abc", wantErr: auth.ErrInvalidToken},
		{header: "Bearer ", wantErr: auth.ErrInvalidToken},
		{header: "Bearer a b", wantErr: auth.ErrInvalidToken},
	}
	for _, tt := range tests {
		got, err := bearerToken(tt.header)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, tt.header)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "awa@example.com"})
	require.NoError(t, err)

	var seen string
	handler := RequireAuth(jwtManager)(echoIdentity(&seen))

	_, err = handler(context.Background(), requestWithAuth("Bearer "+token))
	require.NoError(t, err)
	assert.Equal(t, "user-1", seen)

	for _, header := range []string{"", "Bearer nope"} {
		_, err = handler(context.Background(), requestWithAuth(header))
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "user-1"})
	require.NoError(t, err)

	var seen string
	handler := OptionalAuth(jwtManager)(echoIdentity(&seen))

	_, err = handler(context.Background(), requestWithAuth(""))
	require.NoError(t, err)
	assert.Empty(t, seen)

	_, err = handler(context.Background(), requestWithAuth("Bearer garbage"))
	require.NoError(t, err)
	assert.Empty(t, seen)

	_, err = handler(context.Background(), requestWithAuth("Bearer "+token))
	require.NoError(t, err)
	assert.Equal(t, "user-1", seen)
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	ok := m.Interceptor()(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&ping{}), nil
	})
	failing := m.Interceptor()(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("missing"))
	})

	_, _ = ok(context.Background(), requestWithAuth(""))
	_, _ = ok(context.Background(), requestWithAuth(""))
	_, _ = failing(context.Background(), requestWithAuth(""))

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "budgetly_rpc_requests_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "code" {
					counts[label.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, map[string]float64{"ok": 2, "not_found": 1}, counts)
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	failing := LoggingInterceptor(logger)(func(context.Context, connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodePermissionDenied, errors.New("not a member"))
	})
	_, err := failing(WithUser(context.Background(), "user-1", ""), requestWithAuth(""))

	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "user_id=user-1")
	assert.Contains(t, buf.String(), "not a member")
}
