package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// Identity is the decoded claim set returned by the identity provider.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
	Issuer        string
	AuthTime      time.Time
	IssuedAt      time.Time
	ExpiresAt     time.Time
}

// IdentityVerifier decodes an opaque ID token. Implementations are black boxes
// to the rest of the server: an external verification service or a local JWT check.
type IdentityVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (*Identity, error)
}

// Authenticator runs the login policy gates in order: token validity,
// verified email, allowed email domain.
type Authenticator struct {
	verifier      IdentityVerifier
	allowedSuffix string
}

// NewAuthenticator builds the gate chain. An empty allowedSuffix disables the domain gate.
func NewAuthenticator(verifier IdentityVerifier, allowedSuffix string) *Authenticator {
	return &Authenticator{
		verifier:      verifier,
		allowedSuffix: strings.ToLower(strings.TrimPrefix(strings.TrimSpace(allowedSuffix), "@")),
	}
}

func (a *Authenticator) Authenticate(ctx context.Context, rawToken string) (*Identity, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, ErrInvalidToken
	}

	id, err := a.verifier.VerifyIDToken(ctx, token)
	if err != nil {
		log.Printf("[AUTH] ❌ Token verification failed (len=%d): %v", len(token), err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if id == nil || id.UID == "" || id.Email == "" {
		return nil, ErrInvalidToken
	}
	if !id.EmailVerified {
		return nil, ErrUnverifiedContact
	}
	if !a.domainAllowed(id.Email) {
		return nil, ErrDomainNotAllowed
	}
	return id, nil
}

// domainAllowed accepts the configured domain and its subdomains only, so
// "evilfiregroup.io" does not pass for "firegroup.io".
func (a *Authenticator) domainAllowed(email string) bool {
	if a.allowedSuffix == "" {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	return domain == a.allowedSuffix || strings.HasSuffix(domain, "."+a.allowedSuffix)
}
