package http

import (
	"errors"
	"net/http"

	basket "github.com/craftline/marketplace/internal/basket/domain"
	"github.com/craftline/marketplace/internal/order/domain"
)

// writeError maps the domain error taxonomy onto status codes: validation
// 400, authorization 403, not-found 404, conflicts 409. Authorization
// failures are reported uniformly so callers cannot probe which check
// failed.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var insufficient *domain.InsufficientStockError
	var unavailable *domain.ProductUnavailableError
	var missingAddr *domain.MissingAddressError
	var badTransition *domain.InvalidTransitionError

	switch {
	case errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, basket.ErrInvalidQuantity),
		errors.As(err, &missingAddr):
		writeJSON(w, http.StatusBadRequest, errBody(err))
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errBody(domain.ErrForbidden))
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, basket.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, errBody(err))
	case errors.Is(err, domain.ErrEmptyBasket),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, basket.ErrProductUnavailable),
		errors.As(err, &insufficient),
		errors.As(err, &unavailable),
		errors.As(err, &badTransition):
		writeJSON(w, http.StatusConflict, errBody(err))
	default:
		h.log.Error("request failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
	}
}

func errBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
