package marketpoint_test

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"

	"github.com/marketpoint/marketpoint"
)

// MockLogger implements marketpoint.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

func quietLogger() *MockLogger {
	logger := &MockLogger{}
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	return logger
}

// MockIdentityProvider implements marketpoint.IdentityProvider for testing
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (marketpoint.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(marketpoint.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (marketpoint.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(marketpoint.Identity), args.Error(1)
}

// testIdentity is a plain marketpoint.Identity carrier
type testIdentity struct {
	id       string
	username string
	email    string
	verified bool
}

func (t testIdentity) ID() string          { return t.id }
func (t testIdentity) Username() string    { return t.username }
func (t testIdentity) Email() string       { return t.email }
func (t testIdentity) EmailVerified() bool { return t.verified }

// testConfig is a plain marketpoint.Config carrier
type testConfig struct {
	signingKey      string
	signingMethod   string
	contextKey      string
	tokenExpiration int
	authScheme      string
	issuer          string
	audience        []string
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key",
		signingMethod:   "HS256",
		contextKey:      "user",
		tokenExpiration: 24,
		authScheme:      "Bearer",
		issuer:          "test-issuer",
		audience:        []string{"test-audience"},
	}
}

func (c testConfig) GetSigningKey() string    { return c.signingKey }
func (c testConfig) GetSigningMethod() string { return c.signingMethod }
func (c testConfig) GetContextKey() string    { return c.contextKey }
func (c testConfig) GetTokenExpiration() int  { return c.tokenExpiration }
func (c testConfig) GetAuthScheme() string    { return c.authScheme }
func (c testConfig) GetIssuer() string        { return c.issuer }
func (c testConfig) GetAudience() []string    { return c.audience }

// fakeUsers is a map-backed marketpoint.Users with real verification token
// semantics, so command tests exercise single-use and expiry behavior
// without a database.
type fakeUsers struct {
	mu      sync.Mutex
	records map[uuid.UUID]*marketpoint.User
}

func newFakeUsers(seed ...*marketpoint.User) *fakeUsers {
	f := &fakeUsers{records: map[uuid.UUID]*marketpoint.User{}}
	for _, u := range seed {
		cp := *u
		f.records[u.ID] = &cp
	}
	return f
}

func (f *fakeUsers) get(id uuid.UUID) (*marketpoint.User, bool) {
	u, ok := f.records[id]
	if !ok {
		return nil, false
	}
	cp := *u
	return &cp, true
}

func (f *fakeUsers) GetByID(ctx context.Context, id uuid.UUID) (*marketpoint.User, error) {
	return f.GetByIDTx(ctx, nil, id)
}

func (f *fakeUsers) GetByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*marketpoint.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.get(id)
	if !ok {
		return nil, repository.NewRecordNotFound()
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*marketpoint.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.records {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (f *fakeUsers) EmailTaken(ctx context.Context, email string, excluding uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.records {
		if u.Email == email && u.ID != excluding {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Register(ctx context.Context, user *marketpoint.User) (*marketpoint.User, error) {
	return f.RegisterTx(ctx, nil, user)
}

func (f *fakeUsers) RegisterTx(ctx context.Context, tx bun.IDB, user *marketpoint.User) (*marketpoint.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	f.records[user.ID] = &cp
	return user, nil
}

func (f *fakeUsers) Update(ctx context.Context, user *marketpoint.User) (*marketpoint.User, error) {
	return f.UpdateTx(ctx, nil, user)
}

func (f *fakeUsers) UpdateTx(ctx context.Context, tx bun.IDB, user *marketpoint.User) (*marketpoint.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.records[user.ID]; !ok {
		return nil, repository.NewRecordNotFound()
	}
	cp := *user
	f.records[user.ID] = &cp
	return user, nil
}

func (f *fakeUsers) ConsumeVerificationToken(ctx context.Context, token string, now time.Time) (*marketpoint.User, error) {
	return f.ConsumeVerificationTokenTx(ctx, nil, token, now)
}

func (f *fakeUsers) ConsumeVerificationTokenTx(ctx context.Context, tx bun.IDB, token string, now time.Time) (*marketpoint.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.records {
		if u.VerificationToken == nil || *u.VerificationToken != token {
			continue
		}
		if u.VerificationExpires == nil || !u.VerificationExpires.After(now) {
			continue
		}

		u.EmailVerified = true
		u.VerificationToken = nil
		u.VerificationExpires = nil

		cp := *u
		return &cp, nil
	}

	return nil, repository.NewRecordNotFound()
}

func (f *fakeUsers) RefreshVerificationTx(ctx context.Context, tx bun.IDB, id uuid.UUID, token string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.records[id]
	if !ok {
		return repository.NewRecordNotFound()
	}

	u.VerificationToken = &token
	u.VerificationExpires = &expires
	return nil
}

func (f *fakeUsers) UpdatePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.records[id]
	if !ok {
		return repository.NewRecordNotFound()
	}

	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUsers) DeleteByID(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.records, id)
	return nil
}

var _ marketpoint.Users = (*fakeUsers)(nil)

// fakeRepoManager runs transaction bodies directly against the fakes.
type fakeRepoManager struct {
	users *fakeUsers
}

func newFakeRepoManager(users *fakeUsers) *fakeRepoManager {
	return &fakeRepoManager{users: users}
}

func (f *fakeRepoManager) Validate() error { return nil }
func (f *fakeRepoManager) MustValidate()   {}

func (f *fakeRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx bun.Tx) error) error {
	return fn(ctx, bun.Tx{})
}

func (f *fakeRepoManager) Users() marketpoint.Users {
	return f.users
}

var _ marketpoint.RepositoryManager = (*fakeRepoManager)(nil)
