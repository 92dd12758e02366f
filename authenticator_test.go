package referrals_test

import (
	"context"
	"testing"

	referrals "github.com/goliatone/go-referrals"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutherLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login returns a validating token", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		auther := referrals.NewAuthenticator(provider, newMockConfig()).WithLogger(noopLogger{})

		userID := uuid.New()
		identity := TestIdentity{
			id:    userID.String(),
			name:  "Test User",
			email: "test@example.com",
		}

		provider.On("VerifyIdentity", ctx, "test@example.com", "password123").
			Return(identity, nil).Once()

		token, err := auther.Login(ctx, "test@example.com", "password123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := auther.SessionFromToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID())

		provider.AssertExpectations(t)
	})

	t.Run("provider rejection bubbles up", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		auther := referrals.NewAuthenticator(provider, newMockConfig()).WithLogger(noopLogger{})

		provider.On("VerifyIdentity", ctx, "test@example.com", "wrong").
			Return(nil, referrals.ErrMismatchedHashAndPassword).Once()

		token, err := auther.Login(ctx, "test@example.com", "wrong")
		assert.Empty(t, token)
		assert.ErrorIs(t, err, referrals.ErrMismatchedHashAndPassword)

		provider.AssertExpectations(t)
	})

	t.Run("zero identity is rejected", func(t *testing.T) {
		provider := new(MockIdentityProvider)
		auther := referrals.NewAuthenticator(provider, newMockConfig()).WithLogger(noopLogger{})

		provider.On("VerifyIdentity", ctx, "test@example.com", "password123").
			Return(TestIdentity{}, nil).Once()

		token, err := auther.Login(ctx, "test@example.com", "password123")
		assert.Empty(t, token)
		assert.ErrorIs(t, err, referrals.ErrIdentityNotFound)

		provider.AssertExpectations(t)
	})
}

func TestAutherIssueToken(t *testing.T) {
	provider := new(MockIdentityProvider)
	auther := referrals.NewAuthenticator(provider, newMockConfig()).WithLogger(noopLogger{})

	userID := uuid.New()
	user := &referrals.User{
		ID:    userID,
		Name:  "Fresh Account",
		Email: "fresh@example.com",
	}

	token, err := auther.IssueToken(referrals.NewIdentityFromUser(user))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auther.TokenService().Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID())
	assert.Equal(t, userID.String(), claims.Subject())
}

func TestAutherSessionFromToken(t *testing.T) {
	provider := new(MockIdentityProvider)
	auther := referrals.NewAuthenticator(provider, newMockConfig())

	claims, err := auther.SessionFromToken("garbage")
	assert.Nil(t, claims)
	assert.True(t, referrals.IsMalformedError(err))
}
