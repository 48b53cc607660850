package payments

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreatePaymentRelaysUpstreamResponse(t *testing.T) {
	var gotSecret, gotPath string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("x-internal-secret")
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"paymentId":"abc"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "s3cret")
	status, resp, err := client.CreatePayment(context.Background(), []byte(`{"amount":100}`))
	if err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
	if status != http.StatusCreated {
		t.Errorf("status = %d, want %d", status, http.StatusCreated)
	}
	if string(resp) != `{"paymentId":"abc"}` {
		t.Errorf("body = %s", resp)
	}
	if gotSecret != "s3cret" {
		t.Errorf("x-internal-secret = %q", gotSecret)
	}
	if gotPath != "/api/create" {
		t.Errorf("path = %q", gotPath)
	}
	if string(gotBody) != `{"amount":100}` {
		t.Errorf("forwarded body = %s", gotBody)
	}
}

func TestCreatePaymentRelaysUpstreamFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"invalid amount"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "s3cret")
	status, resp, err := client.CreatePayment(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("CreatePayment() error = %v", err)
	}
	if status != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", status, http.StatusUnprocessableEntity)
	}
	if string(resp) != `{"error":"invalid amount"}` {
		t.Errorf("body = %s", resp)
	}
}

func TestCreatePaymentFailsWhenServiceUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "s3cret")
	if _, _, err := client.CreatePayment(context.Background(), []byte(`{}`)); err == nil {
		t.Fatal("expected error for unreachable service")
	}
}

func TestConfigured(t *testing.T) {
	if NewClient("", "").Configured() {
		t.Error("empty base URL should not report configured")
	}
	if !NewClient("http://payments.internal", "s3cret").Configured() {
		t.Error("set base URL should report configured")
	}
}
