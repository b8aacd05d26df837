package middleware_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/sarkar-crm/crm-service/internal/config"
	"github.com/sarkar-crm/crm-service/internal/middleware"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/services"
	"github.com/sarkar-crm/crm-service/internal/testhelpers"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

func testKeys(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(userID, storeID uuid.UUID, role models.RoleType) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":      services.TokenIssuer,
		"sub":      userID.String(),
		"exp":      now.Add(time.Hour).Unix(),
		"iat":      now.Unix(),
		"jti":      uuid.NewString(),
		"role":     string(role),
		"store_id": storeID.String(),
	}
}

func runThroughMiddleware(key *rsa.PrivateKey, authHeader string) (*httptest.ResponseRecorder, *services.Actor) {
	var captured *services.Actor
	handler := middleware.AuthMiddleware(&key.PublicKey)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if actor, ok := middleware.ActorFromRequest(r); ok {
				captured = &actor
			}
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, captured
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	key := testKeys(t)
	userID, storeID := uuid.New(), uuid.New()
	token := signToken(t, key, validClaims(userID, storeID, models.RoleSalesperson))

	rec, actor := runThroughMiddleware(key, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, actor)
	require.Equal(t, userID, actor.UserID)
	require.Equal(t, storeID, actor.StoreID)
	require.Equal(t, models.RoleSalesperson, actor.Role)
	require.NotNil(t, actor.IP)
	require.Equal(t, "203.0.113.9", *actor.IP)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	key := testKeys(t)
	rec, actor := runThroughMiddleware(key, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Nil(t, actor)
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	key := testKeys(t)
	claims := validClaims(uuid.New(), uuid.New(), models.RoleSalesperson)
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signToken(t, key, claims)

	rec, _ := runThroughMiddleware(key, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), utils.ErrCodeTokenExpired)
}

func TestAuthMiddlewareRejectsWrongIssuer(t *testing.T) {
	key := testKeys(t)
	claims := validClaims(uuid.New(), uuid.New(), models.RoleSalesperson)
	claims["iss"] = "someone-else"
	token := signToken(t, key, claims)

	rec, _ := runThroughMiddleware(key, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsWrongKey(t *testing.T) {
	key := testKeys(t)
	otherKey := testKeys(t)
	token := signToken(t, otherKey, validClaims(uuid.New(), uuid.New(), models.RoleSalesperson))

	rec, _ := runThroughMiddleware(key, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsUnknownRole(t *testing.T) {
	key := testKeys(t)
	claims := validClaims(uuid.New(), uuid.New(), "SUPREME_LEADER")
	token := signToken(t, key, claims)

	rec, _ := runThroughMiddleware(key, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	env := testhelpers.NewEnv(t)
	key := testKeys(t)

	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)
	env.Admin.PasswordHash = hash

	cfg := &config.Config{
		RSAPrivateKey: key,
		RSAPublicKey:  &key.PublicKey,
		TokenExpiry:   time.Hour,
	}
	auth := services.NewAuthService(cfg, env.UserRepo)

	user, token, err := auth.Login(context.Background(), env.Admin.Email, "s3cret-pass")
	require.NoError(t, err)
	require.Equal(t, env.Admin.ID, user.ID)

	rec, actor := runThroughMiddleware(key, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, actor)
	require.Equal(t, env.Admin.ID, actor.UserID)
	require.Equal(t, models.RoleBusinessAdmin, actor.Role)
}

func TestLoginRejectsBadPasswordAndUnknownEmailAlike(t *testing.T) {
	env := testhelpers.NewEnv(t)
	key := testKeys(t)

	hash, err := utils.HashPassword("right-pass")
	require.NoError(t, err)
	env.Admin.PasswordHash = hash

	cfg := &config.Config{RSAPrivateKey: key, RSAPublicKey: &key.PublicKey, TokenExpiry: time.Hour}
	auth := services.NewAuthService(cfg, env.UserRepo)

	_, _, errWrongPass := auth.Login(context.Background(), env.Admin.Email, "wrong-pass")
	_, _, errNoUser := auth.Login(context.Background(), "nobody@test.local", "whatever")

	var appErr1, appErr2 *utils.AppError
	require.ErrorAs(t, errWrongPass, &appErr1)
	require.ErrorAs(t, errNoUser, &appErr2)
	require.Equal(t, appErr1.StatusCode, appErr2.StatusCode)
	require.Equal(t, appErr1.Code, appErr2.Code)
	require.Equal(t, appErr1.Message, appErr2.Message)
}
