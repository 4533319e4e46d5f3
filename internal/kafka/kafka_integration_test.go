//go:build integration

package kafka_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/peerkart/internal/cache"
	cachemem "github.com/Gunvolt24/peerkart/internal/cache/memory"
	"github.com/Gunvolt24/peerkart/internal/domain"
	ikafka "github.com/Gunvolt24/peerkart/internal/kafka"
	pgrepo "github.com/Gunvolt24/peerkart/internal/repo/postgres"
	"github.com/Gunvolt24/peerkart/internal/testutil"
	"github.com/Gunvolt24/peerkart/internal/usecase"
	"github.com/Gunvolt24/peerkart/pkg/logger"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

// fixedGeocoder — геокодер, всегда возвращающий одну точку.
type fixedGeocoder struct{ p domain.Point }

func (g fixedGeocoder) Geocode(context.Context, string) ([]domain.Point, error) {
	return []domain.Point{g.p}, nil
}

type stack struct {
	ctx    context.Context
	orders *pgrepo.OrderRepository
	users  *pgrepo.UserRepository
	geo    *usecase.GeocodeService
	log    *logger.ZapLogger
	kf     *testutil.KafkaEnv
}

// 1) Событие created из Publisher доходит до Consumer, координаты сохраняются
func TestKafka_CreatedEvent_Geocoded_TC(t *testing.T) {
	s := newStack(t)
	topic, group := testutil.UniqueTopicAndGroup(s.kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(s.ctx, s.kf.Brokers[0], topic))

	order := s.seedOrder(t)
	s.runConsumer(t, topic, group, "first")

	pub := ikafka.NewPublisher(&ikafka.PublisherConfig{Brokers: s.kf.Brokers, Topic: topic})
	t.Cleanup(func() { _ = pub.Close() })
	require.NoError(t, pub.Publish(s.ctx, domain.OrderEvent{
		Type: domain.EventOrderCreated, OrderID: order.ID, ActorID: order.RequesterID,
		Address: order.Address.Text, OccurredAt: time.Now().UTC(),
	}))

	s.waitLocation(t, order.ID)
}

// 2) Не-JSON сообщение пропускается, валидное после него обрабатывается
func TestKafka_Skip_InvalidJSON_Then_HandleValid_TC(t *testing.T) {
	s := newStack(t)
	topic, group := testutil.UniqueTopicAndGroup(s.kf.BaseTopic + "-invalid-json-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(s.ctx, s.kf.Brokers[0], topic))

	order := s.seedOrder(t)
	s.runConsumer(t, topic, group, "first")

	writeMsg(t, s.ctx, s.kf.Brokers, topic, []byte("not-a-json"))
	writeMsg(t, s.ctx, s.kf.Brokers, topic,
		[]byte(`{"type":"order.created","orderId":"`+order.ID+`","actorId":"x","address":"`+order.Address.Text+`","occurredAt":"2024-05-01T00:00:00Z"}`))

	s.waitLocation(t, order.ID)
}

// 3) At-least-once через рестарт: временная ошибка без коммита → передоставка той же группе
func TestKafka_Redelivery_AfterRestart_NoCommit_TC(t *testing.T) {
	s := newStack(t)
	topic, group := testutil.UniqueTopicAndGroup(s.kf.BaseTopic + "-redelivery-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(s.ctx, s.kf.Brokers[0], topic))

	order := s.seedOrder(t)
	writeMsg(t, s.ctx, s.kf.Brokers, topic,
		[]byte(`{"type":"order.created","orderId":"`+order.ID+`","actorId":"x","address":"`+order.Address.Text+`","occurredAt":"2024-05-01T00:00:00Z"}`))

	// Фаза 1: всегда временная ошибка => оффсет НЕ коммитится
	failing := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        s.kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    "first",
		ProcessTimeout: 300 * time.Millisecond,
		RetryInitial:   100 * time.Millisecond,
		RetryMax:       300 * time.Millisecond,
	}, alwaysTempFailHandler{}, s.log)

	runCtx1, cancelRun1 := context.WithCancel(s.ctx)
	go func() { _ = failing.Run(runCtx1) }()
	time.Sleep(2 * time.Second)
	cancelRun1()
	_ = failing.Close()

	// Фаза 2: нормальный обработчик в той же группе получает некоммиченное
	s.runConsumer(t, topic, group, "first")
	s.waitLocation(t, order.ID)
}

// -----------------функции-помощники-----------------

func newStack(t *testing.T) *stack {
	t.Helper()

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancelStart)

	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	kf, stopKF, err := testutil.StartKafkaTC(ctxStart, "order-events-itc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopKF(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	t.Cleanup(cancel)

	pool, err := pgxpool.New(ctx, pg.DSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logg, closer, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	mem := cachemem.NewStore(100, time.Minute)
	require.NoError(t, mem.Connect(ctx))
	layer := cache.NewLayer(mem, time.Minute, logg)

	orders := pgrepo.NewOrderRepository(pool)
	return &stack{
		ctx:    ctx,
		orders: orders,
		users:  pgrepo.NewUserRepository(pool),
		geo:    usecase.NewGeocodeService(orders, fixedGeocoder{p: domain.Point{Lat: 12.97, Lng: 77.59}}, layer, logg),
		log:    logg,
		kf:     kf,
	}
}

func (s *stack) seedOrder(t *testing.T) domain.Order {
	t.Helper()
	u := testutil.MakeUser()
	require.NoError(t, s.users.Create(s.ctx, &u))
	o := testutil.MakeOrder(u.ID, testutil.WithItems(2))
	require.NoError(t, s.orders.Create(s.ctx, &o))
	return o
}

func (s *stack) runConsumer(t *testing.T, topic, group, offset string) {
	t.Helper()
	c := ikafka.NewConsumer(&ikafka.ConsumerConfig{
		Brokers:        s.kf.Brokers,
		Topic:          topic,
		GroupID:        group,
		StartOffset:    offset,
		ProcessTimeout: 3 * time.Second,
		RetryInitial:   200 * time.Millisecond,
		RetryMax:       2 * time.Second,
	}, s.geo, s.log)

	runCtx, cancelRun := context.WithCancel(s.ctx)
	t.Cleanup(func() {
		cancelRun()
		_ = c.Close()
	})
	go func() { _ = c.Run(runCtx) }()

	// даём консьюмеру присоединиться к группе/получить assignment
	time.Sleep(1500 * time.Millisecond)
}

func (s *stack) waitLocation(t *testing.T, orderID string) {
	t.Helper()
	deadline := time.Now().Add(20 * time.Second)
	for {
		got, err := s.orders.GetByID(s.ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, got)
		if got.Address.Location != nil {
			require.InDelta(t, 12.97, got.Address.Location.Lat, 1e-9)
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("order %s not geocoded in time", orderID)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func writeMsg(t *testing.T, ctx context.Context, brokers []string, topic string, payload []byte) {
	t.Helper()
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
	}
	defer w.Close()
	require.NoError(t, w.WriteMessages(ctx, kafka.Message{Value: payload}))
}

// временная "сетеподобная" ошибка
type tempNetErr struct{}

func (tempNetErr) Error() string   { return "temporary failure" }
func (tempNetErr) Temporary() bool { return true }
func (tempNetErr) Timeout() bool   { return true }

type alwaysTempFailHandler struct{}

func (alwaysTempFailHandler) HandleMessage(context.Context, []byte) error {
	return tempNetErr{}
}
