// Package auth verifies bearer tokens issued by the identity service and
// carries the resulting requester through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deskly/pkg/model"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidRole  = errors.New("token carries an unknown role")
)

type Claims struct {
	Role string `json:"role"`
	jwtlib.RegisteredClaims
}

type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// Verify checks signature, expiry and issuer of an HS256 token and returns
// the requester it names.
func (v *Verifier) Verify(tokenStr string) (model.Requester, error) {
	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(v.issuer))
	}

	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return model.Requester{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return model.Requester{}, ErrInvalidToken
	}

	role, ok := model.ParseRole(claims.Role)
	if !ok {
		return model.Requester{}, fmt.Errorf("%w: %q", ErrInvalidRole, claims.Role)
	}

	return model.Requester{ID: claims.Subject, Role: role}, nil
}

// Sign issues a token the Verifier accepts. Production tokens come from the
// identity service; this is used by tests and local tooling.
func (v *Verifier) Sign(requester model.Requester, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(requester.Role),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   requester.ID,
			Issuer:    v.issuer,
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

type requesterKey struct{}

func WithRequester(ctx context.Context, r model.Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, r)
}

func RequesterFrom(ctx context.Context) (model.Requester, bool) {
	r, ok := ctx.Value(requesterKey{}).(model.Requester)
	return r, ok
}
