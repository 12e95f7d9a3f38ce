package courier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-adoption-service/internal/platform/httpclient"
	"pet-adoption-service/internal/ports/notify"
)

var (
	ErrCourierNotConfigured = errors.New("courier client not configured")
	ErrCourierUpstream      = errors.New("courier upstream error")
)

// Config del relay de notificaciones (Courier).
// El envío real de email/SMS (SMTP, Twilio) vive detrás de este servicio;
// este core solo conoce el contrato notify.Dispatcher.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header donde va la API key. Vacío => "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

// Dispatcher implementa notify.Dispatcher vía HTTP.
type Dispatcher struct {
	apiKey       string
	apiKeyHeader string
	http         *httpclient.Client
}

func NewDispatcher(cfg Config) (*Dispatcher, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Dispatcher{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
		http:         hc,
	}, nil
}

func (d *Dispatcher) IsConfigured() bool {
	return d != nil && d.http != nil && d.http.BaseURL != "" && d.apiKey != ""
}

type messageRequest struct {
	ToName  string `json:"to_name,omitempty"`
	ToEmail string `json:"to_email,omitempty"`
	ToPhone string `json:"to_phone,omitempty"`

	ApplicationID string `json:"application_id"`
	PetName       string `json:"pet_name,omitempty"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
	Notes         string `json:"notes,omitempty"`
}

type messageResponse struct {
	EmailSent bool `json:"email_sent"`
	SMSSent   bool `json:"sms_sent"`
}

// Notify manda el cambio de estado al relay. Los flags del response son
// informativos; un error acá nunca debe frenar la revisión (el workflow
// lo trata como best-effort).
func (d *Dispatcher) Notify(ctx context.Context, to notify.Recipient, p notify.Payload) (notify.Result, error) {
	if !d.IsConfigured() {
		return notify.Result{}, ErrCourierNotConfigured
	}

	// Sin canal de contacto no hay nada que despachar.
	if strings.TrimSpace(to.Email) == "" && strings.TrimSpace(to.Phone) == "" {
		return notify.Result{}, nil
	}

	var out messageResponse
	err := d.http.DoJSON(ctx, http.MethodPost, "/v1/messages",
		map[string]string{d.apiKeyHeader: d.apiKey},
		messageRequest{
			ToName:        to.Name,
			ToEmail:       to.Email,
			ToPhone:       to.Phone,
			ApplicationID: p.ApplicationID,
			PetName:       p.PetName,
			OldStatus:     p.OldStatus,
			NewStatus:     p.NewStatus,
			Notes:         p.Notes,
		},
		&out,
	)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) {
			return notify.Result{}, fmt.Errorf("%w: status=%d", ErrCourierUpstream, he.StatusCode)
		}
		return notify.Result{}, fmt.Errorf("%w: %v", ErrCourierUpstream, err)
	}

	return notify.Result{
		EmailSent: out.EmailSent,
		SMSSent:   out.SMSSent,
	}, nil
}
