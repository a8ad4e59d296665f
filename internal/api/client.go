// Package api implements the HTTP client for the Mergington activities
// backend. The backend owns all state: the client fetches full snapshots and
// submits mutations, nothing more.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mergington/enroll/internal/activity"
	"github.com/mergington/enroll/internal/log"
)

// DefaultTimeout bounds every request issued by the client.
const DefaultTimeout = 10 * time.Second

// Client talks to the activities backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient creates a client for the backend at baseURL.
// A zero timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("github.com/mergington/enroll/internal/api"),
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// activityPayload mirrors the wire shape of a single activity.
type activityPayload struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Activities fetches the full activity collection.
// The server returns a JSON object keyed by activity name; key order is the
// display order, so the object is decoded token by token rather than into a
// Go map. Every text field is sanitized before it leaves this package.
func (c *Client) Activities(ctx context.Context) (activity.Collection, error) {
	var collection activity.Collection

	ctx, span := c.tracer.Start(ctx, "api.Activities")
	defer span.End()

	body, err := c.do(ctx, span, http.MethodGet, c.baseURL+"/activities")
	if err != nil {
		return collection, err
	}

	activities, err := decodeActivities(body)
	if err != nil {
		span.SetStatus(codes.Error, "decode failed")
		log.ErrorErr(log.CatAPI, "Failed to decode activities response", err)
		return collection, fmt.Errorf("decoding activities: %w", err)
	}

	span.SetAttributes(attribute.Int("activities.count", len(activities)))
	log.Debug(log.CatAPI, "Fetched activities", "count", len(activities))
	return activity.NewCollection(activities), nil
}

// Signup registers email for the named activity.
// Returns the server's confirmation message.
func (c *Client) Signup(ctx context.Context, name, email string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "api.Signup",
		trace.WithAttributes(attribute.String("activity.name", name)))
	defer span.End()

	u := fmt.Sprintf("%s/activities/%s/signup?email=%s",
		c.baseURL, url.PathEscape(name), url.QueryEscape(email))
	return c.mutate(ctx, span, http.MethodPost, u)
}

// Unregister removes email from the named activity's roster.
// Returns the server's confirmation message.
func (c *Client) Unregister(ctx context.Context, name, email string) (string, error) {
	ctx, span := c.tracer.Start(ctx, "api.Unregister",
		trace.WithAttributes(attribute.String("activity.name", name)))
	defer span.End()

	u := fmt.Sprintf("%s/activities/%s/unregister?email=%s",
		c.baseURL, url.PathEscape(name), url.QueryEscape(email))
	return c.mutate(ctx, span, http.MethodDelete, u)
}

// mutate issues a mutation request and decodes the {"message": ...} body.
func (c *Client) mutate(ctx context.Context, span trace.Span, method, u string) (string, error) {
	body, err := c.do(ctx, span, method, u)
	if err != nil {
		return "", err
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return activity.Sanitize(payload.Message), nil
}

// do executes a single request and returns the response body on 2xx.
// Non-2xx responses are turned into *Error carrying the server detail.
func (c *Client) do(ctx context.Context, span trace.Span, method, u string) ([]byte, error) {
	requestID := uuid.NewString()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("request.id", requestID),
	)

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		log.ErrorErr(log.CatAPI, "Request failed", err, "method", method, "request_id", requestID)
		return nil, fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "server error")
		apiErr := newError(resp.StatusCode, body)
		log.Warn(log.CatAPI, "Server rejected request",
			"method", method, "status", resp.StatusCode, "detail", apiErr.Detail, "request_id", requestID)
		return nil, apiErr
	}

	return body, nil
}

// decodeActivities parses the activities object preserving key order.
func decodeActivities(data []byte) ([]activity.Activity, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var activities []activity.Activity
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}

		var payload activityPayload
		if err := dec.Decode(&payload); err != nil {
			return nil, fmt.Errorf("decoding activity %q: %w", name, err)
		}

		activities = append(activities, activity.Activity{
			Name:            name,
			Description:     payload.Description,
			Schedule:        payload.Schedule,
			MaxParticipants: payload.MaxParticipants,
			Participants:    payload.Participants,
		}.Sanitized())
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return activities, nil
}
