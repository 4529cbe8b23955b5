package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	order "github.com/craftline/marketplace/internal/order/domain"
	"github.com/craftline/marketplace/internal/payment/application"
	"github.com/craftline/marketplace/internal/payment/domain"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	log     *slog.Logger
	service *application.Service
	tracer  trace.Tracer
}

func NewHandler(log *slog.Logger, service *application.Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
		tracer:  otel.Tracer("payment-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/orders/{id}/payment-intent", h.createIntent)
	r.Post("/payments/verify", h.verify)
	return r
}

func (h *Handler) createIntent(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CreatePaymentIntent")
	defer span.End()

	actorID := r.Header.Get("X-Actor-Id")
	checkout, err := h.service.CreatePaymentIntent(ctx, actorID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"key_id":            checkout.KeyID,
		"external_order_id": checkout.ExternalOrderID,
		"amount_cents":      checkout.AmountCents,
		"currency":          checkout.Currency,
	})
}

type verifyReq struct {
	ExternalOrderID   string `json:"external_order_id"`
	ExternalPaymentID string `json:"external_payment_id"`
	Signature         string `json:"signature"`
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "VerifyPayment")
	defer span.End()

	var req verifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	o, err := h.service.VerifyPayment(ctx, req.ExternalOrderID, req.ExternalPaymentID, req.Signature)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order_id": o.ID,
		"is_paid":  o.IsPaid,
		"paid_at":  o.PaidAt,
	})
}

// Integrity failures are 422 and logged upstream as suspicious; they carry
// no detail about which check failed.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrVerificationFailed), errors.Is(err, domain.ErrUnknownIntent):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "payment verification failed"})
	case errors.Is(err, order.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, order.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, order.ErrAlreadyPaid):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		h.log.Error("payment request failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
