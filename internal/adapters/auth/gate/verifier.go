package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pet-adoption-service/internal/ports/auth"
)

var (
	ErrTokenEmpty = errors.New("token is empty")
)

// Verifier implementa auth.AuthVerifier contra el IAM (Gate).
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrGateNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		// Normalizamos un poco, sin inventar semántica.
		// El middleware ya decide si corta o no.
		return auth.Claims{}, fmt.Errorf("gate verify failed: %w", err)
	}

	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return auth.Claims{}, errors.New("gate claims missing user id")
	}

	return claims, nil
}
