// Package homeassistant implements core.ActionExecutor against the
// Home Assistant REST API service-call endpoint.
package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jdelaire/runbot/core"
)

const httpTimeout = 30 * time.Second

// Client calls Home Assistant services over its REST API using a
// long-lived access token.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a Home Assistant client. baseURL is the instance root,
// e.g. "http://homeassistant.local:8123".
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// Execute calls the service for the given action on one entity:
// activate maps to the domain's turn_on service, trigger to the
// automation trigger service.
func (c *Client) Execute(ctx context.Context, domain, action, entityID string) error {
	service, err := serviceFor(action)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"entity_id": entityID})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/services/%s/%s", c.baseURL, domain, service)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("home assistant request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("home assistant API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func serviceFor(action string) (string, error) {
	switch action {
	case core.ActionTrigger:
		return "trigger", nil
	case core.ActionActivate:
		return "turn_on", nil
	}
	return "", fmt.Errorf("unknown action %q", action)
}
