package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services"
	"marketplace/internal/store"
)

const testSecret = "test-secret"

func TestAuthService_RegisterUser(t *testing.T) {
	f := newFixture(t)
	authService := services.NewAuthService(f.users, testHasher, testSecret, time.Hour)
	ctx := context.Background()

	user, err := authService.RegisterUser(ctx, models.Registration{Username: "testuser", Email: "test@example.com", Password: "password"})
	require.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, models.RoleShopper, user.Role)
	assert.Empty(t, user.Password)

	_, err = authService.RegisterUser(ctx, models.Registration{Username: "another", Email: "test@example.com", Password: "password"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = authService.RegisterUser(ctx, models.Registration{Username: "x", Email: "x@example.com", Password: "password"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestAuthService_LoginUser(t *testing.T) {
	f := newFixture(t)
	authService := services.NewAuthService(f.users, testHasher, testSecret, time.Hour)
	ctx := context.Background()

	_, err := authService.RegisterUser(ctx, models.Registration{Username: "testuser", Email: "test@example.com", Password: "password"})
	require.NoError(t, err)

	token, err := authService.LoginUser(ctx, "TEST@example.com", "password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	identity, err := authService.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.Identity{ID: 1, Role: models.RoleShopper}, identity)

	_, err = authService.LoginUser(ctx, "test@example.com", "wrong-password")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = authService.LoginUser(ctx, "nobody@example.com", "password")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestAuthService_ValidateToken(t *testing.T) {
	f := newFixture(t)
	authService := services.NewAuthService(f.users, testHasher, testSecret, time.Hour)

	token, err := authService.IssueToken(models.User{ID: 4, Username: "sue", Role: models.RoleSeller})
	require.NoError(t, err)

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, float64(4), claims["user_id"])
	assert.Equal(t, "seller", claims["role"])
	assert.NotEmpty(t, claims["jti"])

	other := services.NewAuthService(f.users, testHasher, "other-secret", time.Hour)
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	_, err = authService.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestAuthService_ExpiredToken(t *testing.T) {
	f := newFixture(t)
	authService := services.NewAuthService(f.users, testHasher, testSecret, time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"role":    "shopper",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = authService.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestAuthService_VerifyRequiresRole(t *testing.T) {
	f := newFixture(t)
	authService := services.NewAuthService(f.users, testHasher, testSecret, time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"role":    "superuser",
		"exp":     time.Now().Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = authService.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestAuthService_VerifyRejectsStaleAccounts(t *testing.T) {
	f := newFixture(t)
	authService := services.NewAuthService(f.users, testHasher, testSecret, time.Hour)
	accounts := services.NewAccountService(f.users, testHasher, models.IDPolicyCompact, zerolog.Nop())
	ctx := context.Background()

	var tokens []string
	for _, name := range []string{"ann", "ben", "cat"} {
		_, err := authService.RegisterUser(ctx, models.Registration{Username: name, Email: name + "@example.com", Password: "password"})
		require.NoError(t, err)
		token, err := authService.LoginUser(ctx, name+"@example.com", "password")
		require.NoError(t, err)
		tokens = append(tokens, token)
	}

	// ben is deleted, cat is renumbered to 2
	require.NoError(t, accounts.DeleteUser(ctx, 2))

	identity, err := authService.Verify(ctx, tokens[0])
	require.NoError(t, err)
	assert.Equal(t, 1, identity.ID)

	_, err = authService.Verify(ctx, tokens[1])
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
	_, err = authService.Verify(ctx, tokens[2])
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	// a later registrant taking the freed id 3 is not reachable with cat's old token
	_, err = authService.RegisterUser(ctx, models.Registration{Username: "dan", Email: "dan@example.com", Password: "password"})
	require.NoError(t, err)
	_, err = authService.Verify(ctx, tokens[2])
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	// a role change invalidates the old token too
	seller := models.RoleSeller
	_, err = accounts.EditUser(ctx, 1, models.UserPatch{Role: &seller})
	require.NoError(t, err)
	_, err = authService.Verify(ctx, tokens[0])
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestAuthService_VerifyUnavailableStore(t *testing.T) {
	f := newFixture(t)
	authService := services.NewAuthService(f.users, testHasher, testSecret, time.Hour)
	token, err := authService.IssueToken(models.User{ID: 1, Email: "a@example.com", Role: models.RoleShopper})
	require.NoError(t, err)

	offline := services.NewAuthService(repositories.NewUserRepository(store.NewDB(unavailableStore{})), testHasher, testSecret, time.Hour)
	_, err = offline.Verify(context.Background(), token)
	assert.ErrorIs(t, err, models.ErrIO)
}
