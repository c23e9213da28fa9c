package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/jobberconnect/internal/observability/logger"
)

const maxVerdictBody = 16 << 10

// tokenPayload is the wire format the n8n token webhook expects.
type tokenPayload struct {
	ClientID     string `json:"client_id"`
	PhoneNumber  string `json:"phone_number"`
	AccessToken  string `json:"jobber_access_token"`
	RefreshToken string `json:"jobber_refresh_token,omitempty"`
	ExpiresIn    int    `json:"jobber_expires_in"`
	ExpiresAt    int64  `json:"jobber_expires_at"`
}

type disconnectPayload struct {
	Trigger string `json:"trigger"`
	Phone   string `json:"phone"`
}

// Webhook is the production Forwarder: single POST per call, fixed timeout,
// no retries.
type Webhook struct {
	url          string
	allowMissing bool
	http         *http.Client
	now          func() time.Time
}

// NewWebhook creates a Webhook forwarder. url may be empty; allowMissing
// then decides whether token forwarding succeeds (permissive, for local
// testing) or fails closed (default).
func NewWebhook(url string, timeout time.Duration, allowMissing bool) *Webhook {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Webhook{
		url:          strings.TrimSpace(url),
		allowMissing: allowMissing,
		http:         &http.Client{Timeout: timeout},
		now:          time.Now,
	}
}

// ForwardTokens implements Forwarder.
func (w *Webhook) ForwardTokens(ctx context.Context, d TokenDelivery) bool {
	log := logger.From(ctx).With(logger.Layer("sink"), logger.Op("ForwardTokens"))

	payload := tokenPayload{
		ClientID:     d.ClientID,
		PhoneNumber:  d.PhoneNumber,
		AccessToken:  d.AccessToken,
		RefreshToken: d.RefreshToken,
		ExpiresIn:    d.ExpiresIn,
		ExpiresAt:    w.now().Add(time.Duration(d.ExpiresIn) * time.Second).Unix(),
	}

	if w.url == "" {
		if w.allowMissing {
			log.Debug("webhook not configured, permissive mode",
				logger.ClientID(d.ClientID),
				logger.Phone(d.PhoneNumber),
			)
			return true
		}
		log.Warn("webhook not configured, failing closed",
			logger.ClientID(d.ClientID),
			logger.Phone(d.PhoneNumber),
		)
		return false
	}

	status, body, err := w.post(ctx, payload)
	if err != nil {
		log.Error("webhook post failed", logger.Err(err))
		return false
	}

	ok := Verdict(status, body)
	log.Info("tokens forwarded",
		logger.ClientID(d.ClientID),
		logger.Phone(d.PhoneNumber),
		logger.Status(status),
		logger.Verdict(ok),
	)
	return ok
}

// ForwardDisconnect implements Forwarder.
func (w *Webhook) ForwardDisconnect(ctx context.Context, phoneNumber, trigger string) error {
	log := logger.From(ctx).With(logger.Layer("sink"), logger.Op("ForwardDisconnect"))

	if w.url == "" {
		return ErrUnconfigured
	}
	if trigger == "" {
		trigger = "jobber_disconnect"
	}

	status, _, err := w.post(ctx, disconnectPayload{Trigger: trigger, Phone: phoneNumber})
	if err != nil {
		log.Error("webhook post failed", logger.Err(err))
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if status >= 300 {
		log.Warn("webhook rejected disconnect", logger.Status(status), logger.Phone(phoneNumber))
		return fmt.Errorf("webhook returned status %d", status)
	}

	log.Info("disconnect forwarded", logger.Phone(phoneNumber), logger.String("trigger", trigger))
	return nil
}

func (w *Webhook) post(ctx context.Context, payload any) (int, string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(raw))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxVerdictBody))
	return resp.StatusCode, strings.TrimSpace(string(body)), nil
}
