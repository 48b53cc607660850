package handler

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PaymentProxy interface {
	Configured() bool
	CreatePayment(ctx context.Context, body []byte) (int, json.RawMessage, error)
}

type PaymentHandler struct {
	proxy PaymentProxy
}

func NewPaymentHandler(proxy PaymentProxy) *PaymentHandler {
	return &PaymentHandler{proxy: proxy}
}

// CreatePayment relays the request body to the payment service as-is and
// mirrors back whatever status and body it answers with.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	if !h.proxy.Configured() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Serviço de pagamento indisponível no momento."})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	status, resp, err := h.proxy.CreatePayment(c.Request.Context(), body)
	if err != nil {
		log.Printf("payment proxy failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Serviço de pagamento indisponível no momento."})
		return
	}
	c.Data(status, "application/json", resp)
}
