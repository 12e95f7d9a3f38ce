package gate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-adoption-service/internal/platform/httpclient"
	"pet-adoption-service/internal/ports/auth"
)

var (
	ErrGateNotConfigured = errors.New("gate client not configured")
	ErrGateUnauthorized  = errors.New("gate unauthorized")
	ErrGateUpstream      = errors.New("gate upstream error")
)

// Config del cliente del IAM (Gate).
// BaseURL y APIKey normalmente vienen de env vars en quien lo instancia.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header donde va la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	apiKey       string
	apiKeyHeader string
	http         *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// VerifyToken llama al IAM para verificar un token y traer claims.
// El rol/refugio pueden venir vacíos en tokens mínimos; el resolver
// hace fallback a la base en ese caso.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrGateNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrGateUnauthorized
	}

	var out struct {
		UserID        string `json:"user_id"`
		Email         string `json:"email"`
		Role          string `json:"role"`
		ShelterID     string `json:"shelter_id"`
		AccountStatus string `json:"account_status"`
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/tokens/verify",
		map[string]string{
			c.apiKeyHeader:  c.apiKey,
			"Authorization": "Bearer " + token,
		},
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) {
			if he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrGateUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrGateUpstream, he.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrGateUpstream, err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, errors.New("gate response missing user_id")
	}

	return auth.Claims{
		UserID:        out.UserID,
		Email:         strings.TrimSpace(out.Email),
		Role:          strings.TrimSpace(out.Role),
		ShelterID:     strings.TrimSpace(out.ShelterID),
		AccountStatus: strings.TrimSpace(out.AccountStatus),
	}, nil
}
