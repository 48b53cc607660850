package webhook

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"nextalk-desk/internal/models"
)

// Handler exposes the Meta webhook endpoints. Degraded is set when
// MongoDB was unreachable at startup: verification keeps working but
// inbound messages are acknowledged without persistence.
type Handler struct {
	processor   *Processor
	verifyToken string
	degraded    bool
	startedAt   time.Time
}

func NewHandler(processor *Processor, verifyToken string, degraded bool) *Handler {
	return &Handler{
		processor:   processor,
		verifyToken: verifyToken,
		degraded:    degraded,
		startedAt:   time.Now(),
	}
}

// Verify answers the Meta subscription handshake.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		log.Println("Webhook verified by Meta")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(challenge))
		return
	}
	log.Println("Webhook verification failed")
	w.WriteHeader(http.StatusForbidden)
}

// Receive ingests a WhatsApp event payload.
func (h *Handler) Receive(w http.ResponseWriter, r *http.Request) {
	var payload Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, err)
		return
	}

	if h.degraded {
		log.Println("MongoDB unavailable, webhook event dropped")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.processor.Process(r.Context(), &payload); err != nil {
		if errors.Is(err, models.ErrValidation) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		log.Printf("Error processing webhook: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	database := "connected"
	if h.degraded {
		database = "disconnected"
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":    "online",
		"service":   "NexTalk Desk - WhatsApp Webhook",
		"database":  database,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"uptime":  time.Since(h.startedAt).Seconds(),
		"mongodb": !h.degraded,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, err error) {
	respondWithJSON(w, code, map[string]string{"error": err.Error()})
}
