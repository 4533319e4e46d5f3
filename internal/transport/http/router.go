package rest

import (
	"net/http"
	"time"

	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/Gunvolt24/peerkart/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Services — прикладные сервисы, которые обслуживает HTTP-слой.
type Services struct {
	Lifecycle ports.OrderLifecycle
	Queries   ports.OrderQueries
	Users     ports.UserService
	Auth      ports.AuthService
}

// Handler — HTTP-обработчики API.
type Handler struct {
	svc            Services
	log            ports.Logger
	handlerTimeout time.Duration
	adminToken     string
}

// NewHandler — handlerTimeout <= 0 отключает таймаут; пустой adminToken закрывает GET /users.
func NewHandler(svc Services, log ports.Logger, handlerTimeout time.Duration, adminToken string) *Handler {
	return &Handler{svc: svc, log: log, handlerTimeout: handlerTimeout, adminToken: adminToken}
}

// NewRouter — gin-роутер с middleware (recovery, otel при непустом otelServiceName,
// request id, логирование) и маршрутами /api/v1.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.NoRoute(func(c *gin.Context) { fail(c, http.StatusNotFound, "route not found") })
	r.NoMethod(func(c *gin.Context) { fail(c, http.StatusMethodNotAllowed, "method not allowed") })

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1", h.withTimeout())

	auth := api.Group("/auth")
	auth.POST("/signup", h.signup)
	auth.POST("/login", h.login)

	// чтение списка и карточки заказа доступно без токена
	api.GET("/orders", h.listActiveOrders)
	api.GET("/orders/:id", h.getOrder)

	orders := api.Group("/orders", h.authRequired())
	orders.GET("/nearby", h.nearbyOrders)
	orders.POST("", h.createOrder)
	orders.PUT("/:id", h.modifyOrder)
	orders.DELETE("/:id", h.deleteOrder)
	orders.PUT("/:id/accept", h.acceptOrder)
	orders.PUT("/:id/reject", h.rejectOrder)
	orders.PUT("/:id/complete", h.completeOrder)

	api.GET("/users", h.adminOnly(), h.listUsers)
	users := api.Group("/users", h.authRequired())
	users.GET("/details", h.userDetails)
	users.PUT("/update", h.updateProfile)
	users.GET("/orders/created", h.createdOrders)
	users.GET("/orders/accepted", h.acceptedOrders)
	users.GET("/orders/latestaccepted", h.latestAccepted)
	users.GET("/activity", h.activity)

	return r
}
