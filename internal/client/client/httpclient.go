package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/duemate/internal/client/models"
	"github.com/dmitrijs2005/duemate/internal/common"
	"github.com/dmitrijs2005/duemate/internal/netx"
)

const statusSuccess = "success"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 4 << 20

// envelope is the common shape of every backend response.
type envelope struct {
	Status      string          `json:"status"`
	Message     string          `json:"message"`
	AccessToken string          `json:"access_token"`
	UserID      models.ID       `json:"user_id"`
	Data        json.RawMessage `json:"data"`
}

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

// NewHTTPClient builds a client for baseURL. transport may be nil; timeout 0
// means requests are bounded only by their context.
func NewHTTPClient(baseURL string, transport http.RoundTripper, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Transport: transport, Timeout: timeout},
	}, nil
}

func (c *HTTPClient) Login(ctx context.Context, id models.Identity) error {
	body := map[string]string{id.Channel.BodyKey(): id.Identifier}

	code, env, err := c.do(ctx, http.MethodPost, "/api/auth/login", "/api/auth/login", "", nil, body)
	if err != nil {
		return err
	}
	if !is2xx(code) {
		return responseError(code, env)
	}
	return nil
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, id models.Identity, otp string) (models.AuthSession, error) {
	body := map[string]string{"otp": otp, id.Channel.BodyKey(): id.Identifier}

	code, env, err := c.do(ctx, http.MethodPost, "/api/auth/verify_otp", "/api/auth/verify_otp", "", nil, body)
	if err != nil {
		return models.AuthSession{}, err
	}
	if env.Status != statusSuccess {
		return models.AuthSession{}, responseError(code, env)
	}
	return models.AuthSession{Token: env.AccessToken, UserID: env.UserID}, nil
}

func (c *HTTPClient) ListPayments(ctx context.Context, token string, q models.Query) (*models.PaymentsPage, error) {
	code, env, err := c.do(ctx, http.MethodGet, "/api/payments", "/api/payments", token, q.Values(), nil)
	if err != nil {
		return nil, err
	}
	if err := checkSuccess(code, env); err != nil {
		return nil, err
	}

	var page models.PaymentsPage
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &page); err != nil {
			return nil, &ResponseError{StatusCode: code, Status: env.Status}
		}
	}
	return &page, nil
}

func (c *HTTPClient) CreatePayment(ctx context.Context, token string, p models.NewPayment) error {
	code, env, err := c.do(ctx, http.MethodPost, "/api/payments", "/api/payments", token, nil, p)
	if err != nil {
		return err
	}
	return checkSuccess(code, env)
}

func (c *HTTPClient) UpdatePaymentStatus(ctx context.Context, token string, id models.ID, status models.Status) error {
	path := "/api/payment/" + url.PathEscape(id.String()) + "/status"
	body := map[string]models.Status{"status": status}

	code, env, err := c.do(ctx, http.MethodPatch, path, "/api/payment/{id}/status", token, nil, body)
	if err != nil {
		return err
	}
	return checkSuccess(code, env)
}

func (c *HTTPClient) DeletePayment(ctx context.Context, token string, id models.ID) error {
	path := "/api/payments/" + url.PathEscape(id.String())

	code, env, err := c.do(ctx, http.MethodDelete, path, "/api/payments/{id}", token, nil, nil)
	if err != nil {
		return err
	}
	return checkSuccess(code, env)
}

// do sends one request and decodes the envelope. A body that is not JSON
// yields a zero envelope, so callers fall back to their generic message.
func (c *HTTPClient) do(ctx context.Context, method, path, route, token string, query url.Values, body any) (int, envelope, error) {
	var env envelope

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, env, fmt.Errorf("encode %s %s: %w", method, route, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(netx.WithRoute(ctx, route), method, u.String(), reader)
	if err != nil {
		return 0, env, fmt.Errorf("build %s %s: %w", method, route, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, env, fmt.Errorf("%s %s: %w: %w", method, route, common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, env, fmt.Errorf("%s %s: read body: %w: %w", method, route, common.ErrUnavailable, err)
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			env = envelope{}
		}
	}
	return resp.StatusCode, env, nil
}

func is2xx(code int) bool {
	return code >= 200 && code < 300
}

func checkSuccess(code int, env envelope) error {
	if is2xx(code) && env.Status == statusSuccess {
		return nil
	}
	return responseError(code, env)
}

func responseError(code int, env envelope) error {
	return &ResponseError{StatusCode: code, Status: env.Status, Message: env.Message}
}

// IsUnavailable reports whether err is a transport failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, common.ErrUnavailable)
}
