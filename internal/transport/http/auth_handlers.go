package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	user, err := h.svc.Auth.Signup(c.Request.Context(), req.input())
	if err != nil {
		h.respondError(c, "signup", err)
		return
	}
	ok(c, http.StatusCreated, user)
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	token, userID, err := h.svc.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, "login", err)
		return
	}
	ok(c, http.StatusOK, loginResponse{Token: token, ID: userID})
}
