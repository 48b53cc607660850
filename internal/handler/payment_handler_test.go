package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPaymentProxy struct {
	configured bool
	status     int
	resp       json.RawMessage
	err        error
	gotBody    []byte
}

func (s *stubPaymentProxy) Configured() bool {
	return s.configured
}

func (s *stubPaymentProxy) CreatePayment(ctx context.Context, body []byte) (int, json.RawMessage, error) {
	s.gotBody = body
	return s.status, s.resp, s.err
}

func newPaymentRouter(proxy *stubPaymentProxy) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/payments/create", NewPaymentHandler(proxy).CreatePayment)
	return r
}

func TestCreatePayment_Unconfigured(t *testing.T) {
	r := newPaymentRouter(&stubPaymentProxy{configured: false})

	rec := doJSON(r, http.MethodPost, "/api/payments/create", `{"amount":100}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Serviço de pagamento indisponível no momento.")
}

func TestCreatePayment_ProxyError(t *testing.T) {
	r := newPaymentRouter(&stubPaymentProxy{configured: true, err: errors.New("connection refused")})

	rec := doJSON(r, http.MethodPost, "/api/payments/create", `{"amount":100}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Serviço de pagamento indisponível no momento.")
}

func TestCreatePayment_RelaysStatusAndBody(t *testing.T) {
	proxy := &stubPaymentProxy{
		configured: true,
		status:     http.StatusUnprocessableEntity,
		resp:       json.RawMessage(`{"error":"invalid amount"}`),
	}
	r := newPaymentRouter(proxy)

	rec := doJSON(r, http.MethodPost, "/api/payments/create", `{"amount":-1}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"invalid amount"}`, rec.Body.String())
	assert.Equal(t, `{"amount":-1}`, string(proxy.gotBody))
}
