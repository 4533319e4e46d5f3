package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
)

// DraftFromJSON — строгий разбор и валидация черновика заказа из JSON.
func DraftFromJSON(ctx context.Context, validator ports.OrderDraftValidator, raw []byte) (*domain.OrderDraft, error) {
	var draft domain.OrderDraft
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&draft); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("invalid json: trailing data")
	}
	if err := validator.Validate(ctx, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}
