// mystery-tiles/services/auth_service_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"mystery-tiles/utils"
)

// AuthServiceClient delegates ID token verification to an external identity service.
type AuthServiceClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

type VerifyResponse struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Issuer        string `json:"iss"`
	AuthTime      int64  `json:"auth_time"`
	IssuedAt      int64  `json:"iat"`
	ExpiresAt     int64  `json:"exp"`
}

func NewAuthServiceClient(baseURL, token string) *AuthServiceClient {
	return &AuthServiceClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  utils.NewHTTPClient(10 * time.Second),
	}
}

// VerifyIDToken calls /auth/verify-id-token on the identity service.
func (c *AuthServiceClient) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	url := fmt.Sprintf("%s/auth/verify-id-token", c.BaseURL)

	jsonData, err := json.Marshal(map[string]string{"id_token": idToken})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, fmt.Errorf("read identity service response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[AUTH] Identity service /verify-id-token returned %d: %.200s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("token verification failed: %d", resp.StatusCode)
	}

	var out VerifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode identity service response: %w", err)
	}

	return &Identity{
		UID:           out.UID,
		Email:         out.Email,
		EmailVerified: out.EmailVerified,
		Name:          out.Name,
		Picture:       out.Picture,
		Issuer:        out.Issuer,
		AuthTime:      unixOrZero(out.AuthTime),
		IssuedAt:      unixOrZero(out.IssuedAt),
		ExpiresAt:     unixOrZero(out.ExpiresAt),
	}, nil
}

func unixOrZero(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
