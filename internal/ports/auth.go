package ports

// TokenManager — выпуск и проверка токенов доступа.
type TokenManager interface {
	Issue(userID string) (string, error)
	Parse(token string) (userID string, err error)
}

// PasswordHasher — хеширование и сверка паролей.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
