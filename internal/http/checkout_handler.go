package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fjod/storefront/internal/checkout"
	"go.uber.org/zap"
)

type Checkouter interface {
	Checkout(ctx context.Context) (*checkout.Receipt, error)
}

type CheckoutHandler struct {
	responder
	checkout Checkouter
	timeout  time.Duration
}

func NewCheckoutHandler(c Checkouter, timeout time.Duration, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		responder: newResponder(logger),
		checkout:  c,
		timeout:   timeout,
	}
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	receipt, err := h.checkout.Checkout(ctx)
	switch {
	case err == nil:
		h.respondJSON(w, http.StatusCreated, receipt)
	case errors.Is(err, checkout.ErrEmptyCart):
		h.respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
	case errors.Is(err, context.DeadlineExceeded):
		h.respondError(w, http.StatusGatewayTimeout, "timeout", "checkout timed out")
	default:
		h.logger.Error("checkout failed",
			zap.String("request_id", requestIDFrom(r)),
			zap.Error(err),
		)
		h.respondError(w, http.StatusServiceUnavailable, "checkout_unavailable", "order could not be placed")
	}
}
