// Package postgrest talks to the Supabase REST gateway for deployments that only
// have the project URL and anon key, not a direct Postgres DSN.
package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

// Error is a non-2xx answer from the gateway.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("postgrest: status %d", e.Status)
	}
	return fmt.Sprintf("postgrest: status %d: %s", e.Status, e.Message)
}

// Client issues table requests against {project}/rest/v1.
type Client struct {
	baseURL string
	apiKey  string
	timeout time.Duration
}

// NewClient builds a client. A non-positive timeout uses 10s.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// Eq builds the filter for column = value.
func Eq(column, value string) url.Values {
	return url.Values{column: []string{"eq." + value}}
}

// Select reads rows of table matching filter into out, which must point to a slice.
func (c *Client) Select(ctx context.Context, table, columns string, filter url.Values, out any) error {
	query := cloneValues(filter)
	query.Set("select", columns)
	return c.do(ctx, fiber.Get(c.tableURL(table, query)), out)
}

// Update patches matching rows with body and decodes the changed rows into out.
func (c *Client) Update(ctx context.Context, table string, filter url.Values, body any, out any) error {
	agent := fiber.Patch(c.tableURL(table, filter)).
		Set("Prefer", "return=representation").
		JSON(body)
	return c.do(ctx, agent, out)
}

// Delete removes matching rows and decodes their prior values into out.
func (c *Client) Delete(ctx context.Context, table string, filter url.Values, out any) error {
	agent := fiber.Delete(c.tableURL(table, filter)).
		Set("Prefer", "return=representation")
	return c.do(ctx, agent, out)
}

// Ping checks that the gateway answers for table.
func (c *Client) Ping(ctx context.Context, table string) error {
	var rows []json.RawMessage
	query := url.Values{"limit": []string{"1"}}
	return c.Select(ctx, table, "*", query, &rows)
}

func (c *Client) tableURL(table string, query url.Values) string {
	u := c.baseURL + "/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, agent *fiber.Agent, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent.Set("apikey", c.apiKey).
		Set(fiber.HeaderAuthorization, "Bearer "+c.apiKey).
		Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON).
		Timeout(timeout)
	if err := agent.Parse(); err != nil {
		return fmt.Errorf("postgrest: prepare request: %w", err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("postgrest: request: %w", errors.Join(errs...))
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		apiErr := &Error{Status: status}
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("postgrest: decode response: %w", err)
	}
	return nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v)+1)
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
