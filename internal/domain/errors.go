package domain

import "errors"

// Базовые (sentinel) ошибки доменного слоя; оборачиваются через %w.
var (
	// ErrValidation — некорректный ввод, отклоняется до изменения состояния.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound — заказ или пользователь не найден.
	ErrNotFound = errors.New("not found")
	// ErrStateConflict — переход не разрешён в текущем состоянии или для этого пользователя.
	ErrStateConflict = errors.New("action not permitted")
	// ErrUnauthorized — неверные учётные данные или токен.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAlreadyExists — нарушение уникальности (email/username).
	ErrAlreadyExists = errors.New("already exists")
)
