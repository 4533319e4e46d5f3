package ports

import (
	"context"
	"time"
)

// CacheStore — хранилище «ключ → строка» с TTL и явным жизненным циклом подключения.
// Создаётся один раз на процесс и передаётся по ссылке; слой кэша проверяет IsConnected
// перед каждой операцией.
type CacheStore interface {
	// Connect — однократное подключение при старте; ошибка не блокирует работу сервиса.
	Connect(ctx context.Context) error
	// IsConnected — доступно ли хранилище сейчас.
	IsConnected() bool
	// Close — освобождение ресурсов.
	Close() error

	// Get — (value, true, nil) при попадании, ("", false, nil) при промахе.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set — перезаписать значение целиком.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete — удалить ключи (отсутствующие ключи не ошибка).
	Delete(ctx context.Context, keys ...string) error
}
