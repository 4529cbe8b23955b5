package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	basketapp "github.com/craftline/marketplace/internal/basket/application"
	"github.com/craftline/marketplace/internal/order/application"
	"github.com/craftline/marketplace/internal/order/domain"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Handler exposes the basket and order endpoints. Actor identity arrives
// from the session layer as X-Actor-Id / X-Actor-Role headers.
type Handler struct {
	log         *slog.Logger
	baskets     *basketapp.Service
	placement   *application.PlacementService
	fulfillment *application.FulfillmentService
	tracer      trace.Tracer
}

func NewHandler(log *slog.Logger, baskets *basketapp.Service, placement *application.PlacementService, fulfillment *application.FulfillmentService) *Handler {
	return &Handler{
		log:         log,
		baskets:     baskets,
		placement:   placement,
		fulfillment: fulfillment,
		tracer:      otel.Tracer("order-http"),
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/basket", func(r chi.Router) {
		r.Get("/", h.getBasket)
		r.Post("/items", h.addItem)
		r.Patch("/items/{productID}", h.updateQuantity)
		r.Delete("/items/{productID}", h.removeItem)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.placeOrder)
		r.Get("/", h.listOrders)
		r.Get("/{id}", h.getOrder)
		r.Post("/{id}/status", h.updateStatus)
	})
	return r
}

func actor(r *http.Request) (string, domain.Role) {
	return r.Header.Get("X-Actor-Id"), domain.Role(r.Header.Get("X-Actor-Role"))
}

type basketItemReq struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AddBasketItem")
	defer span.End()

	actorID, _ := actor(r)
	var req basketItemReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.baskets.AddItem(ctx, actorID, req.ProductID, req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateBasketQuantity")
	defer span.End()

	actorID, _ := actor(r)
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.baskets.UpdateQuantity(ctx, actorID, chi.URLParam(r, "productID"), req.Quantity); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RemoveBasketItem")
	defer span.End()

	actorID, _ := actor(r)
	if err := h.baskets.RemoveItem(ctx, actorID, chi.URLParam(r, "productID")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getBasket(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetBasket")
	defer span.End()

	actorID, _ := actor(r)
	b, err := h.baskets.Get(ctx, actorID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	items := make([]basketItemReq, 0, len(b.Items))
	for _, item := range b.Items {
		items = append(items, basketItemReq{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer_id": b.CustomerID, "items": items})
}

type placeOrderReq struct {
	ShippingAddress struct {
		Line       string `json:"line"`
		City       string `json:"city"`
		State      string `json:"state"`
		PostalCode string `json:"postal_code"`
		Country    string `json:"country"`
	} `json:"shipping_address"`
	PaymentMethod string `json:"payment_method"`
	DeliveryType  string `json:"delivery_type"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlaceOrder")
	defer span.End()

	actorID, _ := actor(r)
	var req placeOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	addr := domain.ShippingAddress{
		Line:       req.ShippingAddress.Line,
		City:       req.ShippingAddress.City,
		State:      req.ShippingAddress.State,
		PostalCode: req.ShippingAddress.PostalCode,
		Country:    req.ShippingAddress.Country,
	}
	o, err := h.placement.PlaceOrder(ctx, actorID, addr, domain.PaymentMethod(req.PaymentMethod), domain.DeliveryType(req.DeliveryType))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListOrders")
	defer span.End()

	actorID, role := actor(r)
	var orders []domain.Order
	var err error
	switch role {
	case domain.RoleAdmin:
		orders, err = h.fulfillment.AllOrders(ctx, role)
	case domain.RoleSeller:
		orders, err = h.fulfillment.OrdersForSeller(ctx, actorID)
	default:
		orders, err = h.fulfillment.OrdersForCustomer(ctx, actorID)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GetOrder")
	defer span.End()

	actorID, role := actor(r)
	o, err := h.fulfillment.Order(ctx, actorID, role, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "UpdateOrderStatus")
	defer span.End()

	actorID, role := actor(r)
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	o, err := h.fulfillment.UpdateStatus(ctx, actorID, role, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

type orderResponse struct {
	ID              string         `json:"id"`
	CustomerID      string         `json:"customer_id"`
	Items           []itemResponse `json:"items"`
	ShippingAddress addressJSON    `json:"shipping_address"`
	TotalCents      int64          `json:"total_cents"`
	Status          string         `json:"status"`
	PaymentMethod   string         `json:"payment_method"`
	DeliveryType    string         `json:"delivery_type"`
	IsPaid          bool           `json:"is_paid"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type itemResponse struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	SellerID       string `json:"seller_id"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type addressJSON struct {
	Line       string `json:"line"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func toOrderResponse(o domain.Order) orderResponse {
	items := make([]itemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, itemResponse{
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			SellerID:       item.SellerID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}
	return orderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Items:      items,
		ShippingAddress: addressJSON{
			Line:       o.ShippingAddress.Line,
			City:       o.ShippingAddress.City,
			State:      o.ShippingAddress.State,
			PostalCode: o.ShippingAddress.PostalCode,
			Country:    o.ShippingAddress.Country,
		},
		TotalCents:    o.TotalCents,
		Status:        string(o.Status),
		PaymentMethod: string(o.PaymentMethod),
		DeliveryType:  string(o.DeliveryType),
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
