package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"deskly/pkg/model"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier(testSecret, "deskly-auth")
	want := model.Requester{ID: "user-42", Role: model.RoleOwner}

	token, err := v.Sign(want, time.Hour)
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier(testSecret, "deskly-auth")

	expired, err := v.Sign(model.Requester{ID: "u", Role: model.RoleGuest}, -time.Minute)
	require.NoError(t, err)

	otherKey, err := NewVerifier("another-secret-0123456789", "deskly-auth").Sign(model.Requester{ID: "u", Role: model.RoleGuest}, time.Hour)
	require.NoError(t, err)

	otherIssuer, err := NewVerifier(testSecret, "someone-else").Sign(model.Requester{ID: "u", Role: model.RoleGuest}, time.Hour)
	require.NoError(t, err)

	noSubject, err := v.Sign(model.Requester{Role: model.RoleGuest}, time.Hour)
	require.NoError(t, err)

	noExpiry, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		Role:             "guest",
		RegisteredClaims: jwtlib.RegisteredClaims{Subject: "u", Issuer: "deskly-auth"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":      "not-a-token",
		"expired":      expired,
		"wrong key":    otherKey,
		"wrong issuer": otherIssuer,
		"no subject":   noSubject,
		"no expiry":    noExpiry,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.True(t, errors.Is(err, ErrInvalidToken), "got %v", err)
		})
	}
}

func TestVerifier_RejectsUnknownRole(t *testing.T) {
	v := NewVerifier(testSecret, "")

	token, err := v.Sign(model.Requester{ID: "u", Role: "superuser"}, time.Hour)
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRequesterContext(t *testing.T) {
	_, ok := RequesterFrom(context.Background())
	assert.False(t, ok)

	ctx := WithRequester(context.Background(), model.Requester{ID: "u1", Role: model.RoleAdmin})
	r, ok := RequesterFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "u1", r.ID)
	assert.Equal(t, model.RoleAdmin, r.Role)
}
