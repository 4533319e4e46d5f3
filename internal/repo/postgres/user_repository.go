package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository — пользователи; контакты, адреса и способы оплаты лежат в JSONB-массивах.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository { return &UserRepository{pool: pool} }

const selectUser = `
	SELECT id, username, email, password_hash, contacts, payment_methods, addresses, points
	FROM users
`

// Create — регистрация; занятые email/username дают domain.ErrAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	contacts, payments, addresses, err := encodeProfile(user)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, contacts, payment_methods, addresses, points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, user.ID, user.Username, user.Email, user.PasswordHash, contacts, payments, addresses, user.Points)
	if isUniqueViolation(err) {
		return fmt.Errorf("user %s: %w", user.Email, domain.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, selectUser+` WHERE email = $1`, email)
}

// List — все пользователи в порядке регистрации.
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx, selectUser+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users rows: %w", err)
	}
	return users, nil
}

// AppendProfile — дописывает переданные поля в конец соответствующих массивов одним UPDATE.
// (nil, nil), если пользователя нет.
func (r *UserRepository) AppendProfile(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.User, error) {
	var contact, address, payment []byte
	var err error
	if upd.Contact != nil {
		if contact, err = json.Marshal([]string{*upd.Contact}); err != nil {
			return nil, err
		}
	}
	if upd.Address != nil {
		if address, err = json.Marshal([]domain.Address{{Text: *upd.Address}}); err != nil {
			return nil, err
		}
	}
	if upd.PaymentMethod != nil {
		if payment, err = json.Marshal([]domain.PaymentMethod{*upd.PaymentMethod}); err != nil {
			return nil, err
		}
	}

	u, err := r.getOne(ctx, `
		UPDATE users SET
			contacts        = contacts        || COALESCE($2::jsonb, '[]'::jsonb),
			addresses       = addresses       || COALESCE($3::jsonb, '[]'::jsonb),
			payment_methods = payment_methods || COALESCE($4::jsonb, '[]'::jsonb)
		WHERE id = $1
		RETURNING id, username, email, password_hash, contacts, payment_methods, addresses, points
	`, id, contact, address, payment)
	if err != nil {
		return nil, fmt.Errorf("append profile: %w", err)
	}
	return u, nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u                            domain.User
		contacts, payments, addrsRaw []byte
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&contacts, &payments, &addrsRaw, &u.Points); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(contacts, &u.Contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}
	if err := json.Unmarshal(payments, &u.PaymentMethods); err != nil {
		return nil, fmt.Errorf("decode payment methods: %w", err)
	}
	if err := json.Unmarshal(addrsRaw, &u.Addresses); err != nil {
		return nil, fmt.Errorf("decode addresses: %w", err)
	}
	return &u, nil
}

func encodeProfile(u *domain.User) (contacts, payments, addresses []byte, err error) {
	if contacts, err = json.Marshal(nonNil(u.Contacts)); err != nil {
		return nil, nil, nil, err
	}
	if payments, err = json.Marshal(nonNil(u.PaymentMethods)); err != nil {
		return nil, nil, nil, err
	}
	if addresses, err = json.Marshal(nonNil(u.Addresses)); err != nil {
		return nil, nil, nil, err
	}
	return contacts, payments, addresses, nil
}

// nonNil — nil-слайс кодируется как [], а не null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
