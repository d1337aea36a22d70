// Package functions calls the hosted serverless functions that perform
// privileged account operations on behalf of the signed-in user.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Function names.
const (
	DeleteRestaurant  = "delete-restaurant"
	DeleteUser        = "delete-user"
	TransferOwnership = "transfer-ownership"
	CreateUser        = "create-user"
)

// Error is a non-2xx answer from a function.
type Error struct {
	Function   string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("function %s failed with status %d: %s", e.Function, e.StatusCode, e.Message)
}

// Client defines the privileged operations delegated to functions.
type Client interface {
	DeleteRestaurant(ctx context.Context, token string, restaurantID uuid.UUID) error
	DeleteUser(ctx context.Context, token string, userID uuid.UUID) error
	TransferOwnership(ctx context.Context, token string, restaurantID uuid.UUID, newOwnerEmail string) error
	CreateUser(ctx context.Context, token string, req CreateUserInput) (uuid.UUID, error)
}

// CreateUserInput is the create-user payload.
type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type httpClient struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient creates a functions client posting to {baseURL}/{name}.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) Client {
	return &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger.With().Str("component", "functions").Logger(),
	}
}

func (c *httpClient) DeleteRestaurant(ctx context.Context, token string, restaurantID uuid.UUID) error {
	return c.invoke(ctx, token, DeleteRestaurant, map[string]any{"restaurantId": restaurantID}, nil)
}

func (c *httpClient) DeleteUser(ctx context.Context, token string, userID uuid.UUID) error {
	return c.invoke(ctx, token, DeleteUser, map[string]any{"userId": userID}, nil)
}

func (c *httpClient) TransferOwnership(ctx context.Context, token string, restaurantID uuid.UUID, newOwnerEmail string) error {
	return c.invoke(ctx, token, TransferOwnership, map[string]any{
		"restaurantId":  restaurantID,
		"newOwnerEmail": newOwnerEmail,
	}, nil)
}

func (c *httpClient) CreateUser(ctx context.Context, token string, req CreateUserInput) (uuid.UUID, error) {
	var out struct {
		UserID uuid.UUID `json:"userId"`
	}
	if err := c.invoke(ctx, token, CreateUser, req, &out); err != nil {
		return uuid.Nil, err
	}
	return out.UserID, nil
}

// invoke posts body as JSON and decodes a 2xx answer into out when given.
// Failures are not retried.
func (c *httpClient) invoke(ctx context.Context, token, name string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+name, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("function", name).Msg("function call failed")
		return fmt.Errorf("failed to call %s: %w", name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", name, err)
	}

	c.logger.Info().
		Str("function", name).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("function called")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Function: name, StatusCode: resp.StatusCode, Message: errorMessage(raw, resp.Status)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", name, err)
		}
	}
	return nil
}

// errorMessage pulls "error" or "message" out of a JSON body, falling back
// to the raw text and then the status line.
func errorMessage(raw []byte, status string) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return status
}
