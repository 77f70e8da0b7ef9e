package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/descope/go-sdk/descope/client"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/blog-platform-backend/errs"
	"github.com/rs/zerolog/log"
)

// Verifier resolves a bearer credential to the identity provider's stable
// subject identifier. Invalid or expired credentials yield Unauthenticated.
type Verifier interface {
	Verify(ctx context.Context, token string) (subject string, err error)
}

// DescopeVerifier validates Descope session tokens.
type DescopeVerifier struct {
	client *client.DescopeClient
}

func NewDescopeVerifier(projectID string) (*DescopeVerifier, error) {
	descopeClient, err := client.NewWithConfig(&client.Config{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return &DescopeVerifier{client: descopeClient}, nil
}

func (v *DescopeVerifier) Verify(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errs.NewUnauthenticatedError("missing session token")
	}
	authorized, sessionToken, err := v.client.Auth.ValidateSessionWithToken(ctx, token)
	if err != nil || !authorized || sessionToken == nil {
		log.Debug().Err(err).Msg("Descope session validation failed")
		return "", errs.NewUnauthenticatedError("invalid session token")
	}
	if sessionToken.ID == "" {
		return "", errs.NewUnauthenticatedError("session token has no subject")
	}
	return sessionToken.ID, nil
}

// JWTVerifier validates HS256 tokens signed with a shared secret. It backs
// local development and tests.
type JWTVerifier struct {
	secret []byte
	issuer string
}

func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errs.NewUnauthenticatedError("missing session token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errs.NewUnauthenticatedError("session token expired")
		}
		return "", errs.NewUnauthenticatedError("invalid session token")
	}
	if claims.Subject == "" {
		return "", errs.NewUnauthenticatedError("session token has no subject")
	}
	return claims.Subject, nil
}

// Issue signs a token for subject valid for ttl.
func (v *JWTVerifier) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
