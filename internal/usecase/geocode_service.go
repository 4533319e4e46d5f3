package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gunvolt24/peerkart/internal/cache"
	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/Gunvolt24/peerkart/pkg/metrics"
)

// GeocodeService — асинхронная привязка координат к адресу заказа по событиям created/modified.
// Сбой геокодера не ошибка: заказ просто остаётся без координат.
type GeocodeService struct {
	orders   ports.OrderRepository
	geocoder ports.Geocoder
	cache    *cache.Layer
	log      ports.Logger
}

func NewGeocodeService(orders ports.OrderRepository, geocoder ports.Geocoder, layer *cache.Layer, log ports.Logger) *GeocodeService {
	return &GeocodeService{orders: orders, geocoder: geocoder, cache: layer, log: log}
}

// HandleMessage — строгий разбор события из брокера. Невалидное сообщение оборачивает
// domain.ErrValidation (коммитится и пропускается), ошибка хранилища — временная.
func (s *GeocodeService) HandleMessage(ctx context.Context, raw []byte) error {
	var ev domain.OrderEvent
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		return fmt.Errorf("invalid event json: %v: %w", err, domain.ErrValidation)
	}
	if ev.OrderID == "" || ev.Type == "" {
		return fmt.Errorf("event without order id or type: %w", domain.ErrValidation)
	}
	return s.Handle(ctx, ev)
}

// Handle — геокодирует адрес события и сохраняет первую найденную точку.
func (s *GeocodeService) Handle(ctx context.Context, ev domain.OrderEvent) error {
	if !ev.NeedsGeocoding() || s.geocoder == nil {
		return nil
	}

	points, err := s.geocoder.Geocode(ctx, ev.Address)
	if err != nil {
		metrics.GeocodeRequests.WithLabelValues("error").Inc()
		s.log.Warnf(ctx, "geocode failed order_id=%s err=%v", ev.OrderID, err)
		return nil
	}
	if len(points) == 0 {
		metrics.GeocodeRequests.WithLabelValues("empty").Inc()
		s.log.Infof(ctx, "geocode: no coordinates order_id=%s", ev.OrderID)
		return nil
	}
	metrics.GeocodeRequests.WithLabelValues("found").Inc()

	order, err := s.orders.SetLocation(ctx, ev.OrderID, ev.Address, points[0])
	if err != nil {
		return fmt.Errorf("set location: %w", err)
	}
	if order == nil {
		// заказ удалён или адрес уже другой: событие устарело
		return nil
	}

	s.cache.Write(ctx, cache.OrderKey(order.ID), order)
	s.cache.Invalidate(ctx, geocodeEffect(order)...)
	return nil
}
