package rest

import (
	"context"
	"net/http"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/pkg/httpx"
	"github.com/gin-gonic/gin"
)

// Радиус поиска заказов рядом, метры.
const (
	defaultNearbyRadius = 3000
	maxNearbyRadius     = 50000
)

func (h *Handler) listActiveOrders(c *gin.Context) {
	page, err := h.svc.Queries.ActiveOrders(c.Request.Context(), httpx.ParsePage(c))
	if err != nil {
		h.respondError(c, "list active orders", err)
		return
	}
	c.JSON(http.StatusOK, ordersPage{
		Data:       page.Orders,
		TotalPages: page.TotalPages,
		NoOfOrders: len(page.Orders),
	})
}

func (h *Handler) nearbyOrders(c *gin.Context) {
	lat, okLat := httpx.ParseFloat(c, "lat")
	lng, okLng := httpx.ParseFloat(c, "lng")
	if !okLat || !okLng || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		fail(c, http.StatusUnprocessableEntity, "lat and lng must be valid coordinates")
		return
	}
	radius := httpx.ParseRadius(c, defaultNearbyRadius, maxNearbyRadius)

	orders, err := h.svc.Queries.Nearby(c.Request.Context(), domain.Point{Lat: lat, Lng: lng}, radius)
	if err != nil {
		h.respondError(c, "nearby orders", err)
		return
	}
	ok(c, http.StatusOK, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.svc.Queries.Order(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, "get order", err)
		return
	}
	ok(c, http.StatusOK, order)
}

func (h *Handler) createOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	order, err := h.svc.Lifecycle.Create(c.Request.Context(), actorID(c), req.draft())
	if err != nil {
		h.respondError(c, "create order", err)
		return
	}
	ok(c, http.StatusCreated, order)
}

func (h *Handler) modifyOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	order, err := h.svc.Lifecycle.Modify(c.Request.Context(), actorID(c), c.Param("id"), req.draft())
	if err != nil {
		h.respondError(c, "modify order", err)
		return
	}
	ok(c, http.StatusOK, order)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	h.transition(c, "delete order", h.svc.Lifecycle.Delete)
}

func (h *Handler) acceptOrder(c *gin.Context) {
	h.transition(c, "accept order", h.svc.Lifecycle.Accept)
}

func (h *Handler) rejectOrder(c *gin.Context) {
	h.transition(c, "reject order", h.svc.Lifecycle.Reject)
}

func (h *Handler) completeOrder(c *gin.Context) {
	h.transition(c, "complete order", h.svc.Lifecycle.Complete)
}

// transition — переходы без тела запроса: актор из токена, id заказа из пути.
func (h *Handler) transition(
	c *gin.Context,
	op string,
	fn func(ctx context.Context, actorID, orderID string) (*domain.Order, error),
) {
	order, err := fn(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, op, err)
		return
	}
	ok(c, http.StatusOK, order)
}
