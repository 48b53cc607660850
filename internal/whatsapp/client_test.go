package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(serverURL string) *Client {
	c := NewClient("test-token", "123456", "v24.0")
	c.baseURL = serverURL
	return c
}

func TestSendText_Success(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"messages": []map[string]string{{"id": "wamid.ABC"}},
		})
	}))
	defer server.Close()

	c := testClient(server.URL)
	id, err := c.SendText(context.Background(), "5511999990000", "Olá")
	if err != nil {
		t.Fatalf("SendText failed: %v", err)
	}

	if id != "wamid.ABC" {
		t.Errorf("message id = %q", id)
	}
	if gotPath != "/v24.0/123456/messages" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBody["messaging_product"] != "whatsapp" || gotBody["to"] != "5511999990000" {
		t.Errorf("body = %v", gotBody)
	}
	text, _ := gotBody["text"].(map[string]any)
	if text["body"] != "Olá" {
		t.Errorf("text body = %v", gotBody["text"])
	}
}

func TestSendText_WindowClosedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    131047,
				"type":    "OAuthException",
				"message": "Re-engagement message",
			},
		})
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := c.SendText(context.Background(), "5511999990000", "Olá")
	if err == nil {
		t.Fatal("expected an error")
	}

	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("err is %T, want *SendError", err)
	}
	if sendErr.Code != CodeWindowClosed {
		t.Errorf("code = %d, want %d", sendErr.Code, CodeWindowClosed)
	}
	if !sendErr.WindowClosed() {
		t.Error("WindowClosed() = false for code 131047")
	}
}

func TestSendText_NonWindowError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 131009, "message": "Parameter value is not valid"},
		})
	}))
	defer server.Close()

	c := testClient(server.URL)
	_, err := c.SendText(context.Background(), "5511999990000", "Olá")

	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("err is %T, want *SendError", err)
	}
	if sendErr.WindowClosed() {
		t.Error("WindowClosed() = true for code 131009")
	}
}

func TestMarkRead(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	c := testClient(server.URL)
	if err := c.MarkRead(context.Background(), "wamid.XYZ"); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if gotBody["status"] != "read" || gotBody["message_id"] != "wamid.XYZ" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestConfigured(t *testing.T) {
	if NewClient("", "", "v24.0").Configured() {
		t.Error("empty client reports configured")
	}
	if !NewClient("tok", "123", "v24.0").Configured() {
		t.Error("complete client reports unconfigured")
	}
}
