package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"gymbros/fitness-tracker/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := service.NewAuthService(store.Users, store.Stats, testSecret, time.Hour)

	in := fakeRegistration()
	in.Username = "  " + strings.ToUpper(in.Username) + " "
	user, err := auth.Register(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, strings.ToLower(strings.TrimSpace(in.Username)), user.Username)
	assert.Empty(t, user.PasswordHash)

	stats, err := store.Stats.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSetsCompleted)

	for _, identifier := range []string{user.Username, user.Email, strings.ToUpper(user.Email)} {
		token, loggedIn, err := auth.Login(ctx, identifier, in.Password)
		require.NoError(t, err, identifier)
		assert.NotEmpty(t, token)
		assert.Equal(t, user.ID, loggedIn.ID)
		assert.Empty(t, loggedIn.PasswordHash)

		resolved, err := auth.ResolveSession(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, resolved.ID)
	}

	_, _, err = auth.Login(ctx, user.Username, "wrong-password")
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, _, err = auth.Login(ctx, "nobody_here", in.Password)
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := service.NewAuthService(store.Users, store.Stats, testSecret, time.Hour)

	tests := []struct {
		name   string
		mutate func(*service.RegisterInput)
		field  string
	}{
		{"short password", func(in *service.RegisterInput) { in.Password = "short" }, "password"},
		{"bad username", func(in *service.RegisterInput) { in.Username = "no spaces!" }, "username"},
		{"short username", func(in *service.RegisterInput) { in.Username = "ab" }, "username"},
		{"bad email", func(in *service.RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"no identifier", func(in *service.RegisterInput) { in.Username, in.Email = "", "" }, "username"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fakeRegistration()
			tt.mutate(&in)
			_, err := auth.Register(ctx, in)
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestAuthService_EmailOnlyAccount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := service.NewAuthService(store.Users, store.Stats, testSecret, time.Hour)

	in := fakeRegistration()
	in.Username = ""
	user, err := auth.Register(ctx, in)
	require.NoError(t, err)
	assert.Empty(t, user.Username)

	_, loggedIn, err := auth.Login(ctx, in.Email, in.Password)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestAuthService_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := service.NewAuthService(store.Users, store.Stats, testSecret, time.Hour)

	first := fakeRegistration()
	_, err := auth.Register(ctx, first)
	require.NoError(t, err)

	second := fakeRegistration()
	second.Username = first.Username
	_, err = auth.Register(ctx, second)
	assert.ErrorIs(t, err, service.ErrUserAlreadyExists)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestAuthService_ResolveSessionRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := service.NewAuthService(store.Users, store.Stats, testSecret, time.Hour)
	other := service.NewAuthService(store.Users, store.Stats, "another-secret", time.Hour)

	in := fakeRegistration()
	_, err := auth.Register(ctx, in)
	require.NoError(t, err)
	foreignToken, _, err := other.Login(ctx, in.Username, in.Password)
	require.NoError(t, err)

	for _, token := range []string{"", "garbage", foreignToken} {
		_, err := auth.ResolveSession(ctx, token)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	}
}

func TestAuthService_ExpiredSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := service.NewAuthService(store.Users, store.Stats, testSecret, time.Nanosecond)

	in := fakeRegistration()
	_, err := auth.Register(ctx, in)
	require.NoError(t, err)
	token, _, err := auth.Login(ctx, in.Username, in.Password)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = auth.ResolveSession(ctx, token)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
