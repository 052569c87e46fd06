package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/psds-microservice/helpdesk-cli/internal/errs"
	"github.com/psds-microservice/helpdesk-cli/internal/session"
)

var timeNow = time.Now

// Requester — то, что нужно сервисам от клиента (для подмены в тестах).
type Requester interface {
	Request(ctx context.Context, method, path string, body, out any) error
}

// Client отправляет запросы к API хелпдеска с токеном из сессии.
// Повторов, таймаутов и кэша нет: каждый вызов одноразовый, отмена только через ctx.
type Client struct {
	rc       *resty.Client
	sessions session.Provider
	log      zerolog.Logger
}

// New returns a client rooted at baseURL. The token is read from sessions on
// every call, so a re-import is picked up without rebuilding the client.
func New(baseURL string, sessions session.Provider, log zerolog.Logger) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{log: log})
	return &Client{rc: rc, sessions: sessions, log: log}
}

func (c *Client) token() string {
	s, ok := c.sessions.Session()
	if !ok {
		return ""
	}
	if session.Expired(s.Token, timeNow()) {
		c.log.Warn().Msg("session token looks expired; sending anyway")
	}
	return s.Token
}

// Request issues one call and decodes a JSON response into out (when non-nil).
// Any non-2xx answer becomes *errs.RequestError; so does a transport failure,
// with Status 0.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	reqID := uuid.NewString()
	req := c.rc.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.token()).
		SetHeader("X-Request-ID", reqID)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", reqID).Msg("api: transport failure")
		return &errs.RequestError{Method: method, Path: path, Err: err}
	}
	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode()).
		Str("request_id", reqID).Dur("took", resp.Time()).Msg("api: response")

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		msg := serverMessage(resp.Body(), resp.StatusCode())
		c.log.Warn().Str("method", method).Str("path", path).Int("status", resp.StatusCode()).
			Str("request_id", reqID).Str("message", msg).Msg("api: request failed")
		return &errs.RequestError{Method: method, Path: path, Status: resp.StatusCode(), Message: msg}
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &errs.RequestError{Method: method, Path: path, Status: resp.StatusCode(),
			Message: "malformed response", Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// serverMessage pulls "message" or "error" out of a JSON body, falling back to
// the raw text and then the status text.
func serverMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "{") {
		return text
	}
	return http.StatusText(status)
}

type restyLogger struct{ log zerolog.Logger }

func (l restyLogger) Errorf(format string, v ...any) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...any)  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...any) { l.log.Debug().Msgf(format, v...) }
