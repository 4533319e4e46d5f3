package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.svc.Users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, "list users", err)
		return
	}
	ok(c, http.StatusOK, users)
}

func (h *Handler) userDetails(c *gin.Context) {
	user, err := h.svc.Users.Details(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, "user details", err)
		return
	}
	ok(c, http.StatusOK, user)
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	user, err := h.svc.Users.UpdateProfile(c.Request.Context(), actorID(c), req.update())
	if err != nil {
		h.respondError(c, "update profile", err)
		return
	}
	ok(c, http.StatusOK, user)
}

func (h *Handler) createdOrders(c *gin.Context) {
	orders, err := h.svc.Queries.CreatedBy(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, "created orders", err)
		return
	}
	ok(c, http.StatusOK, orders)
}

func (h *Handler) acceptedOrders(c *gin.Context) {
	orders, err := h.svc.Queries.AcceptedBy(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, "accepted orders", err)
		return
	}
	ok(c, http.StatusOK, orders)
}

func (h *Handler) latestAccepted(c *gin.Context) {
	order, err := h.svc.Queries.LatestAccepted(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, "latest accepted order", err)
		return
	}
	ok(c, http.StatusOK, order)
}

func (h *Handler) activity(c *gin.Context) {
	orders, err := h.svc.Queries.Activity(c.Request.Context(), actorID(c))
	if err != nil {
		h.respondError(c, "activity", err)
		return
	}
	ok(c, http.StatusOK, orders)
}
