package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"starjar/internal/datastore/redis_store"
	"starjar/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

type SessionClaims struct {
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Role        string  `json:"role"`
	FamilyID    *string `json:"family_id"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates the HS256 bearer tokens both the embedded
// backend and the API server use.
type TokenIssuer struct {
	secret string
	ttl    time.Duration
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: JWT secret is required", ErrConfiguration)
	}
	return &TokenIssuer{secret: secret, ttl: SESSION_TTL}, nil
}

func (issuer *TokenIssuer) CreateToken(user *models.AuthUser) (string, time.Time, error) {
	expiresAt := time.Now().Add(issuer.ttl)
	claims := &SessionClaims{
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		FamilyID:    user.FamilyID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(issuer.secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (issuer *TokenIssuer) Validate(token string) (*models.AuthUser, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return []byte(issuer.secret), nil
	}
	jwtToken, err := jwt.ParseWithClaims(token, &SessionClaims{}, keyFunc)
	if err != nil {
		return nil, err
	}

	claims, ok := jwtToken.Claims.(*SessionClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return &models.AuthUser{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
		Role:        claims.Role,
		FamilyID:    claims.FamilyID,
	}, nil
}

// StoreSessionVerifier validates the token signature and then requires the
// session to still exist in the store, so signed-out tokens stop working.
type StoreSessionVerifier struct {
	tokens  *TokenIssuer
	redisDB redis.UniversalClient
}

func NewStoreSessionVerifier(container *do.Injector) (*StoreSessionVerifier, error) {
	tokens, err := do.Invoke[*TokenIssuer](container)
	if err != nil {
		return nil, err
	}

	redisDB, err := do.Invoke[redis.UniversalClient](container)
	if err != nil {
		return nil, err
	}

	return &StoreSessionVerifier{tokens, redisDB}, nil
}

func (v *StoreSessionVerifier) Verify(ctx context.Context, token string) (*models.AuthUser, error) {
	user, err := v.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	_, err = redis_store.GetSession(ctx, v.redisDB, token)
	if err != nil {
		return nil, fmt.Errorf("%w: session revoked or expired", ErrNotAuthenticated)
	}

	return user, nil
}
