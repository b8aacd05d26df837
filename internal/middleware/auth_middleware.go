package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sarkar-crm/crm-service/internal/models"
	"github.com/sarkar-crm/crm-service/internal/services"
	"github.com/sarkar-crm/crm-service/internal/utils"
)

type contextKey string

const (
	ContextKeyUserID  = contextKey("userID")
	ContextKeyStoreID = contextKey("storeID")
	ContextKeyRole    = contextKey("role")
)

// AuthMiddleware rejects requests without a valid Bearer token and puts
// the caller's id, store and role on the request context.
func AuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearerToken(r)
			if err != nil {
				utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, err.Error(), nil)
				return
			}

			claims, vErr := validateToken(tokenStr, pub)
			if vErr != nil {
				if errors.Is(vErr, jwt.ErrTokenExpired) {
					utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token expired", nil, vErr)
					return
				}
				utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, vErr)
				return
			}

			userID, uErr := uuid.Parse(stringClaim(claims, "sub"))
			storeID, sErr := uuid.Parse(stringClaim(claims, "store_id"))
			role, roleOK := models.ParseRole(stringClaim(claims, "role"))
			if uErr != nil || sErr != nil || !roleOK {
				utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid claims", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUserID, userID)
			ctx = context.WithValue(ctx, ContextKeyStoreID, storeID)
			ctx = context.WithValue(ctx, ContextKeyRole, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing Authorization header")
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}

func validateToken(tokenString string, publicKey *rsa.PublicKey) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("missing expiration claim")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, jwt.ErrTokenExpired
	}

	if iss, _ := claims["iss"].(string); iss != services.TokenIssuer {
		return nil, errors.New("invalid token issuer")
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

// ActorFromRequest rebuilds the caller identity the middleware stored,
// plus the request's network facts for the audit trail.
func ActorFromRequest(r *http.Request) (services.Actor, bool) {
	userID, okU := r.Context().Value(ContextKeyUserID).(uuid.UUID)
	storeID, okS := r.Context().Value(ContextKeyStoreID).(uuid.UUID)
	role, okR := r.Context().Value(ContextKeyRole).(models.RoleType)
	if !okU || !okS || !okR {
		return services.Actor{}, false
	}

	actor := services.Actor{UserID: userID, StoreID: storeID, Role: role}
	if ip := clientIP(r); ip != "" {
		actor.IP = &ip
	}
	if ua := r.UserAgent(); ua != "" {
		actor.UserAgent = &ua
	}
	return actor, true
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return host
}
