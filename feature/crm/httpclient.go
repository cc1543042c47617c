package crm

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

	"lead-reconciler/feature/leads"

	"go.uber.org/zap"
)

// HTTPClient implements Client against the CRM REST API with retry/backoff
// and response-shape validation.
type HTTPClient struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	maxAttempts int
	backoff     time.Duration
	logger      *zap.Logger
}

// NewHTTPClient creates a configured HTTPClient.
func NewHTTPClient(cfg Config, logger *zap.Logger) (*HTTPClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/")
	if baseURL == "" {
		return nil, errors.New("crm: endpoint is required")
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 20
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	backoff := cfg.BackoffMS
	if backoff < 0 {
		backoff = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		httpClient:  &http.Client{Timeout: time.Duration(timeout) * time.Second},
		maxAttempts: maxAttempts,
		backoff:     time.Duration(backoff) * time.Millisecond,
		logger:      logger,
	}, nil
}

// Lookup fetches a lead by email. A 404 status and an explicit found=false
// flag are unified into a single KindNotFound outcome.
func (c *HTTPClient) Lookup(ctx context.Context, email string) (*leads.Lead, error) {
	q := url.Values{}
	q.Set("email", email)
	body, err := c.invoke(ctx, "lookup", http.MethodGet, "/leads/lookup", q, nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Found bool            `json:"found"`
		Lead  json.RawMessage `json:"lead"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &Error{Kind: KindMalformed, Message: "lookup response is not valid JSON", cause: err}
	}
	if !envelope.Found {
		return nil, &Error{Kind: KindNotFound, Message: "lead not found"}
	}
	if len(envelope.Lead) == 0 {
		return nil, &Error{Kind: KindMalformed, Message: "lookup reported found but carried no lead"}
	}
	return decodeLead(envelope.Lead)
}

// Create registers a new lead with the remote store.
func (c *HTTPClient) Create(ctx context.Context, lead leads.Lead) (*leads.Lead, error) {
	body, err := c.invoke(ctx, "create", http.MethodPost, "/leads", nil, lead)
	if err != nil {
		return nil, err
	}
	return decodeLead(body)
}

// Update replaces the remote lead identified by the lead's dedupe key.
func (c *HTTPClient) Update(ctx context.Context, lead leads.Lead) (*leads.Lead, error) {
	path := "/leads/" + url.PathEscape(lead.DedupeKey())
	body, err := c.invoke(ctx, "update", http.MethodPut, path, nil, lead)
	if err != nil {
		return nil, err
	}
	return decodeLead(body)
}

// invoke performs one operation with up to maxAttempts attempts. Only
// transient failures (rate limit, 5xx, connection-class transport errors)
// are retried; everything else propagates on the first attempt with no delay.
func (c *HTTPClient) invoke(ctx context.Context, op, method, path string, query url.Values, payload any) ([]byte, error) {
	var encoded []byte
	if payload != nil {
		var err error
		encoded, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("crm: marshal %s payload: %w", op, err)
		}
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		var bodyReader io.Reader
		if encoded != nil {
			bodyReader = bytes.NewReader(encoded)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("crm: build %s request: %w", op, err)
		}
		if encoded != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Connection-class transport failures are retryable.
			lastErr = err
			c.logRetry(op, attempt, 0, err)
			if attempt == c.maxAttempts {
				break
			}
			if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
				return nil, sleepErr
			}
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("crm: read %s response: %w", op, readErr)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}

		remoteErr := classifyStatus(resp.StatusCode, data)
		if !retryableStatus(resp.StatusCode) {
			return nil, remoteErr
		}
		lastErr = remoteErr
		c.logRetry(op, attempt, resp.StatusCode, remoteErr)
		if attempt == c.maxAttempts {
			break
		}
		if sleepErr := c.sleep(ctx, attempt); sleepErr != nil {
			return nil, sleepErr
		}
	}

	return nil, &Error{
		Kind:     KindTransient,
		Attempts: c.maxAttempts,
		Message:  op + " failed",
		cause:    lastErr,
	}
}

// sleep waits base * 2^(attempt-1) or until the context is done.
func (c *HTTPClient) sleep(ctx context.Context, attempt int) error {
	delay := c.backoff * time.Duration(1<<(attempt-1))
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *HTTPClient) logRetry(op string, attempt, status int, err error) {
	c.logger.Warn("crm call failed",
		zap.String("operation", op),
		zap.Int("attempt", attempt),
		zap.Int("status", status),
		zap.Error(err),
	)
}

func retryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status <= 599
}

func classifyStatus(status int, body []byte) *Error {
	msg := remoteMessage(body)
	switch {
	case status == http.StatusNotFound:
		return &Error{Kind: KindNotFound, Status: status, Message: orDefault(msg, "lead not found")}
	case status == http.StatusConflict:
		return &Error{Kind: KindConflict, Status: status, Message: orDefault(msg, "lead already exists")}
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindTransient, Status: status, Message: orDefault(msg, "rate limited")}
	case status >= 500:
		return &Error{Kind: KindTransient, Status: status, Message: orDefault(msg, fmt.Sprintf("server error %d", status))}
	default:
		return &Error{Kind: KindInvalid, Status: status, Message: orDefault(msg, fmt.Sprintf("request rejected with status %d", status))}
	}
}

// remoteMessage extracts the error field from a JSON error body, best effort.
func remoteMessage(body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return parsed.Error
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// decodeLead validates the response contract: after optional unwrapping of a
// nested "lead" field, the reply must expose at least name and email.
func decodeLead(body []byte) (*leads.Lead, error) {
	var envelope struct {
		Lead *leads.Lead `json:"lead"`
	}
	_ = json.Unmarshal(body, &envelope)

	lead := envelope.Lead
	if lead == nil {
		lead = &leads.Lead{}
		if err := json.Unmarshal(body, lead); err != nil {
			return nil, &Error{Kind: KindMalformed, Message: "response is not a lead", cause: err}
		}
	}
	if lead.Name == "" || lead.Email == "" {
		return nil, &Error{Kind: KindMalformed, Message: "response lead is missing name or email"}
	}
	return lead, nil
}
