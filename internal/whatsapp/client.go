package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const graphBaseURL = "https://graph.facebook.com"

// Error codes the Graph API returns when a free-form message cannot be
// delivered. Both are treated as "window closed": the message stays
// persisted and no error is surfaced to the caller.
const (
	CodeWindowClosed  = 131047
	CodeGenericFailed = 131026
	CodeBadParameter  = 131009
)

// SendError is a delivery failure reported by the Graph API.
type SendError struct {
	Code      int    `json:"code"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	FbtraceID string `json:"fbtrace_id"`
}

func (e *SendError) Error() string {
	return fmt.Sprintf("whatsapp send failed: code=%d type=%s message=%s", e.Code, e.Type, e.Message)
}

// WindowClosed reports whether the failure is one of the two codes the
// send policy swallows.
func (e *SendError) WindowClosed() bool {
	return e.Code == CodeWindowClosed || e.Code == CodeGenericFailed
}

type Client struct {
	baseURL       string
	token         string
	phoneNumberID string
	apiVersion    string
	httpClient    *http.Client
}

func NewClient(token, phoneNumberID, apiVersion string) *Client {
	return &Client{
		baseURL:       graphBaseURL,
		token:         token,
		phoneNumberID: phoneNumberID,
		apiVersion:    apiVersion,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether outbound delivery can be attempted at all.
func (c *Client) Configured() bool {
	return c.token != "" && c.phoneNumberID != ""
}

type textPayload struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	Body string `json:"body"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *SendError `json:"error"`
}

// SendText delivers a free-form text message. A non-2xx Graph response is
// returned as *SendError so callers can inspect the code.
func (c *Client) SendText(ctx context.Context, to, text string) (string, error) {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: text},
	}
	var out sendResponse
	if err := c.post(ctx, &payload, &out); err != nil {
		return "", err
	}
	if out.Error != nil {
		return "", out.Error
	}
	if len(out.Messages) == 0 {
		return "", nil
	}
	return out.Messages[0].ID, nil
}

type readPayload struct {
	MessagingProduct string `json:"messaging_product"`
	Status           string `json:"status"`
	MessageID        string `json:"message_id"`
}

// MarkRead flags an inbound message as read. Failures are reported but
// callers treat them as best-effort.
func (c *Client) MarkRead(ctx context.Context, messageID string) error {
	payload := readPayload{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	}
	var out sendResponse
	if err := c.post(ctx, &payload, &out); err != nil {
		return err
	}
	if out.Error != nil {
		return out.Error
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload any, out *sendResponse) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call whatsapp api: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode whatsapp response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 && out.Error == nil {
		out.Error = &SendError{Code: resp.StatusCode, Message: "unexpected response"}
	}
	return nil
}
