//go:build !integration

package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/Gunvolt24/peerkart/internal/testutil"
)

// --- Бенчмарки ---

// Один заказ — сравниваем LEAN vs FULL пайплайн (auth, request id, логирование)
func BenchmarkHTTP_GetOrder(b *testing.B) {
	ord := testutil.MakeOrder("bench-user")
	h := NewHandler(Services{Queries: queriesStub{list: []*domain.Order{&ord}}, Auth: authStub{}}, nopLogger{}, 2*time.Second, "")

	lean := makeLeanRouter(h)
	full := makeFullRouter(h)

	b.Run("lean/no-mw", func(b *testing.B) {
		benchServeGET(b, lean, "/orders/"+ord.ID)
	})
	b.Run("full/prod-mw", func(b *testing.B) {
		benchServeGET(b, full, "/api/v1/orders/"+ord.ID)
	})
}

// Страница активных заказов: размер закэшированного списка не влияет на ответ (страница — 10)
func BenchmarkHTTP_ActiveOrdersPage(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run("N="+strconv.Itoa(n), func(b *testing.B) {
			list := make([]*domain.Order, 0, n)
			for i := 0; i < n; i++ {
				o := testutil.MakeOrder("bench-user", testutil.WithItems(3))
				list = append(list, &o)
			}
			h := NewHandler(Services{Queries: queriesStub{list: list}, Auth: authStub{}}, nopLogger{}, 2*time.Second, "")
			benchServeGET(b, makeLeanRouter(h), "/orders?page=1")
		})
	}
}

// --- nopLogger — логгер, который не делает ничего. ---

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// --- Стабы ---

type authStub struct{ ports.AuthService }

func (authStub) Verify(string) (string, error) { return "bench-user", nil }

// queriesStub — заранее подготовленная выборка (без аллокаций на каждом вызове)
type queriesStub struct {
	ports.OrderQueries
	list []*domain.Order
}

func (s queriesStub) Order(context.Context, string) (*domain.Order, error) { return s.list[0], nil }

func (s queriesStub) ActiveOrders(_ context.Context, page int) (ports.OrderPage, error) {
	start := min((page-1)*10, len(s.list))
	end := min(start+10, len(s.list))
	return ports.OrderPage{Orders: s.list[start:end], TotalPages: (len(s.list) + 9) / 10}, nil
}

// --- функции-помощники ---

func makeLeanRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New() // без Recovery/otel/logger/auth — получаем меньшую аллокацию
	r.GET("/orders/:id", h.getOrder)
	r.GET("/orders", h.listActiveOrders)
	return r
}

func makeFullRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	return NewRouter(h, "")
}

func benchServeGET(b *testing.B, r *gin.Engine, path string) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()

	// Параллельный режим ближе к реальности без TCP
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("Authorization", "Bearer bench")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != http.StatusOK {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}
