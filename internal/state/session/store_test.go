package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/persistence"
)

// fakeAuth is a scriptable Authenticator that counts calls.
type fakeAuth struct {
	mu          sync.Mutex
	session     *auth.Session
	err         error
	loginCalls  int
	logoutCalls int
	release     chan struct{} // when non-nil, Login/Register block until closed
}

func (f *fakeAuth) Login(ctx context.Context, creds auth.Credentials) (*auth.Session, error) {
	f.mu.Lock()
	f.loginCalls++
	release := f.release
	f.mu.Unlock()
	if release != nil {
		<-release
	}
	return f.session, f.err
}

func (f *fakeAuth) Register(ctx context.Context, reg auth.Registration) (*auth.Session, error) {
	return f.session, f.err
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.mu.Lock()
	f.logoutCalls++
	f.mu.Unlock()
	return nil
}

func (f *fakeAuth) counts() (login, logout int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.logoutCalls
}

func demoSession() *auth.Session {
	return &auth.Session{
		User:    auth.User{ID: "u1", Email: auth.DemoEmail, Name: "Demo User"},
		Token:   "signed-token",
		Message: "Login successful",
	}
}

// ============================================
// Login / Register Tests
// ============================================

func TestStore_Login_Success(t *testing.T) {
	api := &fakeAuth{session: demoSession()}
	s := NewStore(api, persistence.NewMemory())

	err := s.Login(context.Background(), auth.Credentials{Email: auth.DemoEmail, Password: "x"})

	require.NoError(t, err)
	require.NotNil(t, s.User())
	assert.Equal(t, auth.DemoEmail, s.User().Email)
	assert.Equal(t, "signed-token", s.Token())
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsLoading())
	assert.Empty(t, s.Err())
}

func TestStore_Login_FailureClearsAndReRaises(t *testing.T) {
	api := &fakeAuth{err: auth.ErrInvalidCredentials}
	s := NewStore(api, persistence.NewMemory())

	err := s.Login(context.Background(), auth.Credentials{Email: "x@example.com", Password: "nope"})

	// Re-raised to the caller AND kept as error state
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Equal(t, auth.ErrInvalidCredentials.Error(), s.Err())
	assert.Nil(t, s.User())
	assert.Empty(t, s.Token())
	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.IsLoading())
}

func TestStore_Register_SuccessAuthenticatesImmediately(t *testing.T) {
	api := &fakeAuth{session: demoSession()}
	s := NewStore(api, persistence.NewMemory())

	err := s.Register(context.Background(), auth.Registration{
		Name: "Demo User", Email: auth.DemoEmail,
		Password: "secret1", ConfirmPassword: "secret1",
	})

	require.NoError(t, err)
	assert.True(t, s.IsAuthenticated())
}

func TestStore_Register_Failure(t *testing.T) {
	api := &fakeAuth{err: auth.ErrPasswordMismatch}
	s := NewStore(api, persistence.NewMemory())

	err := s.Register(context.Background(), auth.Registration{})

	assert.ErrorIs(t, err, auth.ErrPasswordMismatch)
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, auth.ErrPasswordMismatch.Error(), s.Err())
}

// ============================================
// Logout / CheckAuth Tests
// ============================================

func TestStore_Logout_ClearsUnconditionally(t *testing.T) {
	api := &fakeAuth{session: demoSession()}
	s := NewStore(api, persistence.NewMemory())
	require.NoError(t, s.Login(context.Background(), auth.Credentials{Email: auth.DemoEmail, Password: "x"}))

	s.Logout()

	assert.Nil(t, s.User())
	assert.Empty(t, s.Token())
	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.IsLoading())
	assert.Empty(t, s.Err())

	// The external logout call is issued, but local state never waited on it
	require.Eventually(t, func() bool {
		_, logouts := api.counts()
		return logouts == 1
	}, 2*time.Second, time.Millisecond)
}

func TestStore_CheckAuth_TokenPresence(t *testing.T) {
	api := &fakeAuth{session: demoSession()}
	kv := persistence.NewMemory()

	first := NewStore(api, kv)
	require.NoError(t, first.Login(context.Background(), auth.Credentials{Email: auth.DemoEmail, Password: "x"}))
	loginsBefore, _ := api.counts()

	// New process: rehydrate and check locally
	second := NewStore(api, kv)
	second.CheckAuth()

	assert.True(t, second.IsAuthenticated())
	logins, _ := api.counts()
	assert.Equal(t, loginsBefore, logins, "checkAuth must not contact the auth service")
}

func TestStore_CheckAuth_NoToken(t *testing.T) {
	s := NewStore(&fakeAuth{}, persistence.NewMemory())

	s.CheckAuth()

	assert.False(t, s.IsAuthenticated())
}

func TestStore_ClearError(t *testing.T) {
	api := &fakeAuth{err: auth.ErrInvalidCredentials}
	s := NewStore(api, persistence.NewMemory())
	_ = s.Login(context.Background(), auth.Credentials{Email: "x@example.com", Password: "y"})
	require.NotEmpty(t, s.Err())

	s.ClearError()
	assert.Empty(t, s.Err())
	s.ClearError()
	assert.Empty(t, s.Err())
}

// ============================================
// Persistence Tests
// ============================================

func TestStore_RehydratesPersistedSession(t *testing.T) {
	api := &fakeAuth{session: demoSession()}
	kv := persistence.NewMemory()

	first := NewStore(api, kv)
	require.NoError(t, first.Login(context.Background(), auth.Credentials{Email: auth.DemoEmail, Password: "x"}))

	second := NewStore(api, kv)

	require.NotNil(t, second.User())
	assert.Equal(t, auth.DemoEmail, second.User().Email)
	assert.Equal(t, "signed-token", second.Token())
	assert.True(t, second.IsAuthenticated())
}

func TestStore_LogoutClearsPersistedSession(t *testing.T) {
	api := &fakeAuth{session: demoSession()}
	kv := persistence.NewMemory()

	first := NewStore(api, kv)
	require.NoError(t, first.Login(context.Background(), auth.Credentials{Email: auth.DemoEmail, Password: "x"}))
	first.Logout()

	second := NewStore(api, kv)

	assert.Nil(t, second.User())
	assert.False(t, second.IsAuthenticated())
}

func TestStore_CorruptPersistedStateIsDiscarded(t *testing.T) {
	kv := persistence.NewMemory()
	require.NoError(t, kv.Save(context.Background(), StorageKey, []byte("¯\\_(ツ)_/¯")))

	s := NewStore(&fakeAuth{}, kv)

	assert.Nil(t, s.User())
	assert.False(t, s.IsAuthenticated())
}

// ============================================
// Subscription Tests
// ============================================

func TestStore_NotifiesOnLoginLifecycle(t *testing.T) {
	api := &fakeAuth{session: demoSession()}
	s := NewStore(api, persistence.NewMemory())

	var mu sync.Mutex
	notifications := 0
	s.Subscribe(func() {
		mu.Lock()
		notifications++
		mu.Unlock()
	})

	require.NoError(t, s.Login(context.Background(), auth.Credentials{Email: auth.DemoEmail, Password: "x"}))

	mu.Lock()
	defer mu.Unlock()
	// One for loading, one for settling
	assert.Equal(t, 2, notifications)
}
