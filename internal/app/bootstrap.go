package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/peerkart/config"
	"github.com/Gunvolt24/peerkart/internal/auth"
	"github.com/Gunvolt24/peerkart/internal/cache"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/Gunvolt24/peerkart/internal/repo/postgres"
	rest "github.com/Gunvolt24/peerkart/internal/transport/http"
	"github.com/Gunvolt24/peerkart/internal/usecase"
	"github.com/Gunvolt24/peerkart/pkg/logger"
	"github.com/Gunvolt24/peerkart/pkg/metrics"
	"github.com/Gunvolt24/peerkart/pkg/telemetry"
	"github.com/Gunvolt24/peerkart/pkg/validate"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App — собранное приложение и его внешние интерфейсы (HTTP, metrics, consumer).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP API
	MetricsServer   *http.Server          // отдельный listener Prometheus; nil — не запускается
	KafkaConsumer   ports.MessageConsumer // консьюмер событий; nil при обработке в процессе
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Ресурсы, закрываемые в обратном порядке при ошибке и в Cleanup.
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}
	fail := func(err error) (*App, Cleanup, error) {
		closeAll()
		return nil, func() {}, err
	}

	metrics.MustRegister()

	tokens, err := auth.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	if err != nil {
		return fail(err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, pool.Close)

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	if cfg.Tracing.Enabled {
		shutdownTrace, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			closers = append(closers, func() {
				if terr := shutdownTrace(context.Background()); terr != nil {
					logg.Warnf(ctx, "shutdown tracing: %v", terr)
				}
			})
		}
	}

	// Кэш: недоступное хранилище не мешает старту, слой работает в обход.
	store, err := newCacheStore(&cfg.Cache)
	if err != nil {
		return fail(err)
	}
	connectCache(ctx, store, cfg.Cache.ConnectTimeout, logg)
	closers = append(closers, func() {
		if cerr := store.Close(); cerr != nil {
			logg.Warnf(ctx, "cache close: %v", cerr)
		}
	})
	layer := cache.NewLayer(store, cfg.Cache.TTL, logg)

	orderRepo := postgres.NewOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	geocodeSvc := usecase.NewGeocodeService(orderRepo, newGeocoder(ctx, &cfg.Geocoder, logg), layer, logg)
	events, consumer := newEvents(&cfg.Kafka, geocodeSvc, logg)
	closers = append(closers, func() {
		if cerr := events.Close(); cerr != nil {
			logg.Warnf(ctx, "event publisher close: %v", cerr)
		}
	})

	lifecycle := usecase.NewLifecycle(orderRepo, userRepo, validate.NewOrderValidator(), layer, events, logg)
	queries := usecase.NewQueries(orderRepo, layer, logg)
	users := usecase.NewUserService(userRepo, layer, logg)
	authSvc := usecase.NewAuthService(userRepo, auth.NewBcrypt(cfg.Auth.BcryptCost), tokens, layer, logg)

	queries.WarmUp(ctx)

	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}
	if cfg.Auth.AdminToken == "" {
		logg.Warnf(ctx, "admin token is empty, GET /api/v1/users is disabled")
	}

	httpHandler := rest.NewHandler(rest.Services{
		Lifecycle: lifecycle,
		Queries:   queries,
		Users:     users,
		Auth:      authSvc,
	}, logg, cfg.HTTP.HandlerTimeout, cfg.Auth.AdminToken)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	var metricsSrv *http.Server
	if addr := cfg.Metrics.Addr; addr != "" && addr != cfg.HTTP.Addr {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		}
	}

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		MetricsServer:   metricsSrv,
		KafkaConsumer:   consumer,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}

	return app, closeAll, nil
}

// Run — запускает HTTP-серверы и консьюмера; ждёт отмены контекста или ошибки и останавливает их.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 3)

	if a.KafkaConsumer != nil {
		go func() {
			a.Logger.Infof(ctx, "kafka consumer starting")
			if err := a.KafkaConsumer.Run(ctx); err != nil {
				errCh <- err
			}
		}()
	}

	for _, srv := range a.servers() {
		go func() {
			a.Logger.Infof(ctx, "http server starting (addr=%s)", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	// Ожидание сигнала остановки или фоновой ошибки.
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			a.Logger.Infof(ctx, "background component stopped: %v", err)
		} else {
			a.Logger.Warnf(ctx, "background error: %v", err)
		}
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	for _, srv := range a.servers() {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warnf(ctx, "http server %s shutdown failed: %v", srv.Addr, err)
		} else {
			a.Logger.Infof(ctx, "http server %s stopped gracefully", srv.Addr)
		}
	}

	if a.KafkaConsumer != nil {
		if err := a.KafkaConsumer.Close(); err != nil {
			a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
		}
	}

	a.Logger.Infof(ctx, "service stopped")
	return nil
}

func (a *App) servers() []*http.Server {
	out := []*http.Server{a.HTTPServer}
	if a.MetricsServer != nil {
		out = append(out, a.MetricsServer)
	}
	return out
}
