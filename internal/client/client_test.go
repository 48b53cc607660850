package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nextalk-desk/internal/models"
)

func TestSendMessage_UnwrapsEnvelope(t *testing.T) {
	ticketID := primitive.NewObjectID()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tickets/"+ticketID.Hex()+"/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"ticket":  models.Ticket{ID: ticketID, CustomerName: "Maria"},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	ticket, err := c.SendMessage(context.Background(), ticketID.Hex(), models.Message{
		Text: "Olá", Sender: models.SenderAgent,
	})
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if ticket.CustomerName != "Maria" {
		t.Errorf("ticket = %+v", ticket)
	}
}

func TestDo_SurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.GetTicket(context.Background(), "abc")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want the server's error text surfaced", err)
	}
}

func TestListTickets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Ticket{{ID: primitive.NewObjectID()}})
	}))
	defer server.Close()

	tickets, err := New(server.URL).ListTickets(context.Background())
	if err != nil {
		t.Fatalf("ListTickets failed: %v", err)
	}
	if len(tickets) != 1 {
		t.Errorf("tickets = %d, want 1", len(tickets))
	}
}
