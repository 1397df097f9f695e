package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService() *Service {
	return NewService(newTestTokenService(), 0)
}

// ============================================
// Login Tests
// ============================================

func TestService_Login_DemoAccount(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	// Any password works for the demo account
	for _, password := range []string{"x", "hunter2", "completely-wrong"} {
		session, err := service.Login(ctx, Credentials{Email: DemoEmail, Password: password})

		require.NoError(t, err)
		assert.Equal(t, DemoEmail, session.User.Email)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, "Login successful", session.Message)
	}
}

func TestService_Login_Validation(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	tests := []struct {
		name    string
		creds   Credentials
		wantErr error
	}{
		{"empty email", Credentials{Password: "secret"}, ErrMissingCredentials},
		{"empty password", Credentials{Email: DemoEmail}, ErrMissingCredentials},
		{"malformed email", Credentials{Email: "not-an-email", Password: "secret"}, ErrInvalidEmail},
		{"unknown user", Credentials{Email: "nobody@example.com", Password: "secret"}, ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := service.Login(ctx, tt.creds)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, session)
		})
	}
}

func TestService_Login_WrongPassword(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	_, err := service.Register(ctx, Registration{
		Name: "Alice", Email: "alice@example.com",
		Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)

	session, err := service.Login(ctx, Credentials{Email: "alice@example.com", Password: "wrong-pass"})

	// Same error as unknown user, so accounts cannot be enumerated
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, session)
}

func TestService_Login_RegisteredUser(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	_, err := service.Register(ctx, Registration{
		Name: "Alice", Email: "alice@example.com",
		Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)

	session, err := service.Login(ctx, Credentials{Email: "alice@example.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "Alice", session.User.Name)
}

// ============================================
// Register Tests
// ============================================

func TestService_Register_Success(t *testing.T) {
	service := newTestAuthService()

	session, err := service.Register(context.Background(), Registration{
		Name: "Bob", Email: "bob@example.com",
		Password: "secret1", ConfirmPassword: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "Bob", session.User.Name)
	assert.Equal(t, "bob@example.com", session.User.Email)
	assert.NotEmpty(t, session.User.ID)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "Registration successful", session.Message)
}

func TestService_Register_Validation(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	valid := Registration{
		Name: "Bob", Email: "bob@example.com",
		Password: "secret1", ConfirmPassword: "secret1",
	}

	tests := []struct {
		name    string
		mutate  func(*Registration)
		wantErr error
	}{
		{"empty name", func(r *Registration) { r.Name = "" }, ErrMissingFields},
		{"empty email", func(r *Registration) { r.Email = "" }, ErrMissingFields},
		{"empty password", func(r *Registration) { r.Password = "" }, ErrMissingFields},
		{"empty confirmation", func(r *Registration) { r.ConfirmPassword = "" }, ErrMissingFields},
		{"malformed email", func(r *Registration) { r.Email = "bob@nodot" }, ErrInvalidEmail},
		{"password mismatch", func(r *Registration) { r.ConfirmPassword = "secret2" }, ErrPasswordMismatch},
		{"password too short", func(r *Registration) { r.Password = "abc"; r.ConfirmPassword = "abc" }, ErrPasswordTooShort},
		{"name too short", func(r *Registration) { r.Name = "B" }, ErrNameTooShort},
		{"email taken", func(r *Registration) { r.Email = DemoEmail }, ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := valid
			tt.mutate(&reg)
			session, err := service.Register(ctx, reg)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, session)
		})
	}
}

func TestService_Register_MismatchCreatesNoUser(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	_, err := service.Register(ctx, Registration{
		Name: "Carol", Email: "carol@example.com",
		Password: "secret1", ConfirmPassword: "different",
	})
	require.ErrorIs(t, err, ErrPasswordMismatch)

	// The failed registration must not have created the account
	session, err := service.Login(ctx, Credentials{Email: "carol@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, session)
}

// ============================================
// VerifyToken Tests
// ============================================

func TestService_VerifyToken(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	session, err := service.Login(ctx, Credentials{Email: DemoEmail, Password: "anything"})
	require.NoError(t, err)

	user, err := service.VerifyToken(ctx, session.Token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, DemoEmail, user.Email)
}

func TestService_VerifyToken_Invalid(t *testing.T) {
	service := newTestAuthService()
	ctx := context.Background()

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "garbage"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := service.VerifyToken(ctx, tt.token)
			require.NoError(t, err)
			assert.Nil(t, user)
		})
	}
}

func TestService_VerifyToken_Expired(t *testing.T) {
	tokens := NewTokenService("test-secret", 1*time.Millisecond)
	service := NewService(tokens, 0)
	ctx := context.Background()

	session, err := service.Login(ctx, Credentials{Email: DemoEmail, Password: "anything"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	user, err := service.VerifyToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestService_Logout(t *testing.T) {
	service := newTestAuthService()

	assert.NoError(t, service.Logout(context.Background()))
}
