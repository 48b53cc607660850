// Package client is a typed Go client for the desk API, used by bots and
// internal tooling that talk to the server instead of to Mongo directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nextalk-desk/internal/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call desk api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("desk api returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("desk api returned %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	var tickets []models.Ticket
	if err := c.do(ctx, http.MethodGet, "/api/tickets", nil, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *Client) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := c.do(ctx, http.MethodGet, "/api/tickets/"+id, nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *Client) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	var created models.Ticket
	if err := c.do(ctx, http.MethodPost, "/api/tickets", ticket, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

type sendMessageResponse struct {
	Success bool          `json:"success"`
	Ticket  models.Ticket `json:"ticket"`
}

// SendMessage delivers an agent message through the server. The returned
// ticket is the server's authoritative state after delivery.
func (c *Client) SendMessage(ctx context.Context, id string, msg models.Message) (*models.Ticket, error) {
	body := map[string]any{"message": msg}
	var resp sendMessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/tickets/"+id+"/messages", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Ticket, nil
}

func (c *Client) PickUpTicket(ctx context.Context, id, agentName string) (*models.Ticket, error) {
	body := map[string]string{"agentName": agentName}
	var ticket models.Ticket
	if err := c.do(ctx, http.MethodPut, "/api/tickets/"+id+"/pickup", body, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (c *Client) CloseTicket(ctx context.Context, id string) (*models.Ticket, error) {
	var ticket models.Ticket
	if err := c.do(ctx, http.MethodPut, "/api/tickets/"+id+"/close", nil, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}
