package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticatorGates(t *testing.T) {
	verifier := &fakeVerifier{identities: map[string]Identity{
		"ok":        {UID: "u1", Email: "u1@firegroup.io", EmailVerified: true},
		"sub":       {UID: "u2", Email: "u2@eu.firegroup.io", EmailVerified: true},
		"upper":     {UID: "u3", Email: "u3@FireGroup.IO", EmailVerified: true},
		"unver":     {UID: "u4", Email: "u4@firegroup.io", EmailVerified: false},
		"lookalike": {UID: "u5", Email: "u5@evilfiregroup.io", EmailVerified: true},
		"no-email":  {UID: "u6", EmailVerified: true},
	}}
	auth := NewAuthenticator(verifier, "@firegroup.io")
	ctx := context.Background()

	for _, tok := range []string{"ok", "sub", "upper", " ok "} {
		id, err := auth.Authenticate(ctx, tok)
		require.NoError(t, err, tok)
		assert.NotEmpty(t, id.UID)
	}

	_, err := auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.Authenticate(ctx, "no-email")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.Authenticate(ctx, "unver")
	assert.ErrorIs(t, err, ErrUnverifiedContact)

	_, err = auth.Authenticate(ctx, "lookalike")
	assert.ErrorIs(t, err, ErrDomainNotAllowed)
	assert.True(t, IsAuthError(err))
}

func TestAuthenticatorWithoutDomainGate(t *testing.T) {
	verifier := &fakeVerifier{identities: map[string]Identity{
		"ok": {UID: "u1", Email: "u1@example.com", EmailVerified: true},
	}}
	_, err := NewAuthenticator(verifier, "").Authenticate(context.Background(), "ok")
	assert.NoError(t, err)
}

func TestJWTVerifierRoundTrip(t *testing.T) {
	v := NewJWTVerifier("secret", "mystery-tiles")
	now := time.Now()

	token, err := v.SignIDToken(IDTokenClaims{
		Email:         "u1@firegroup.io",
		EmailVerified: true,
		Name:          "U One",
		Picture:       "u1.png",
		AuthTime:      now.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	id, err := v.VerifyIDToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UID)
	assert.Equal(t, "u1@firegroup.io", id.Email)
	assert.True(t, id.EmailVerified)
	assert.Equal(t, "U One", id.Name)
	assert.Equal(t, "mystery-tiles", id.Issuer)
	assert.Equal(t, now.Unix(), id.AuthTime.Unix())
}

func TestJWTVerifierRejects(t *testing.T) {
	v := NewJWTVerifier("secret", "mystery-tiles")
	ctx := context.Background()
	valid := jwt.RegisteredClaims{Subject: "u1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}

	expired, err := v.SignIDToken(IDTokenClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}})
	require.NoError(t, err)
	_, err = v.VerifyIDToken(ctx, expired)
	assert.Error(t, err)

	noExp, err := v.SignIDToken(IDTokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u1"}})
	require.NoError(t, err)
	_, err = v.VerifyIDToken(ctx, noExp)
	assert.Error(t, err)

	foreign, err := NewJWTVerifier("other-secret", "mystery-tiles").SignIDToken(IDTokenClaims{RegisteredClaims: valid})
	require.NoError(t, err)
	_, err = v.VerifyIDToken(ctx, foreign)
	assert.Error(t, err)

	wrongIssuer, err := NewJWTVerifier("secret", "someone-else").SignIDToken(IDTokenClaims{RegisteredClaims: valid})
	require.NoError(t, err)
	_, err = v.VerifyIDToken(ctx, wrongIssuer)
	assert.Error(t, err)
}

func TestAuthServiceClientVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/verify-id-token", r.URL.Path)
		assert.Equal(t, "Bearer service-token", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["id_token"] != "good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"bad token"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(VerifyResponse{
			UID:           "u1",
			Email:         "u1@firegroup.io",
			EmailVerified: true,
			Name:          "U One",
			Picture:       "u1.png",
			ExpiresAt:     1900000000,
		})
	}))
	defer srv.Close()

	client := NewAuthServiceClient(srv.URL+"/", "service-token")

	id, err := client.VerifyIDToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UID)
	assert.True(t, id.EmailVerified)
	assert.Equal(t, int64(1900000000), id.ExpiresAt.Unix())
	assert.True(t, id.AuthTime.IsZero())

	_, err = client.VerifyIDToken(context.Background(), "bad")
	assert.Error(t, err)
}
