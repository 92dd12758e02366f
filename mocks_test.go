package referrals_test

import (
	"context"
	"database/sql"
	"io"
	"testing"

	referrals "github.com/goliatone/go-referrals"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// TestIdentity implements referrals.Identity
type TestIdentity struct {
	id    string
	name  string
	email string
}

func (t TestIdentity) ID() string    { return t.id }
func (t TestIdentity) Name() string  { return t.name }
func (t TestIdentity) Email() string { return t.email }

// MockIdentityProvider implements referrals.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (referrals.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(referrals.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (referrals.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(referrals.Identity), args.Error(1)
}

// MockUserStore implements referrals.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*referrals.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*referrals.User), args.Error(1)
}

// MockResumeStore implements referrals.ResumeStore
type MockResumeStore struct {
	mock.Mock
}

func (m *MockResumeStore) Store(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType, body)
	return args.String(0), args.Error(1)
}

type mockConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
	contextKey      string
	authScheme      string
}

func newMockConfig() *mockConfig {
	return &mockConfig{
		signingKey:      "test-signing-key",
		tokenExpiration: 168,
		issuer:          "go-referrals-test",
		contextKey:      "user",
		authScheme:      "Bearer",
	}
}

func (c *mockConfig) GetSigningKey() string   { return c.signingKey }
func (c *mockConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c *mockConfig) GetIssuer() string       { return c.issuer }
func (c *mockConfig) GetAudience() []string   { return c.audience }
func (c *mockConfig) GetContextKey() string   { return c.contextKey }
func (c *mockConfig) GetAuthScheme() string   { return c.authScheme }

// noopLogger silences handler logging in tests
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, referrals.BootstrapSchema(context.Background(), db))

	t.Cleanup(func() {
		_ = db.Close()
		_ = sqldb.Close()
	})

	return db
}
