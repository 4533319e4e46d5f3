package rest

import (
	"errors"
	"net/http"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Msg string `json:"msg"`
}

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Msg: msg}})
}

// respondError — отображение доменных ошибок в HTTP-статусы. Сообщения ожидаемых отказов
// отдаются клиенту как есть; детали сбоев остаются в логе.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		fail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrStateConflict):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, "Not authorized")
	case errors.Is(err, domain.ErrAlreadyExists):
		fail(c, http.StatusConflict, "User already exists")
	default:
		h.log.Errorf(c.Request.Context(), "%s failed err=%v", op, err)
		fail(c, http.StatusInternalServerError, "Server error")
	}
}
