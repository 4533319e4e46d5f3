package domain

// InitialPoints — стартовый баланс нового пользователя.
const InitialPoints = 100

// User — пользователь маркетплейса (и заказчик, и исполнитель).
type User struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	PasswordHash   string          `json:"-"`
	Contacts       []string        `json:"contact"`
	PaymentMethods []PaymentMethod `json:"paymentMethod"`
	Addresses      []Address       `json:"address"`
	Points         int             `json:"points"`
}

// CanFulfil — заполнен ли профиль настолько, чтобы брать заказы.
func (u *User) CanFulfil() bool {
	return len(u.Contacts) > 0 && len(u.Addresses) > 0 && len(u.PaymentMethods) > 0
}

// ProfileUpdate — явное описание частичного обновления профиля:
// nil-поле означает «не передано».
type ProfileUpdate struct {
	Contact       *string
	Address       *string
	PaymentMethod *PaymentMethod
}

// Empty — нет ни одного изменения.
func (p ProfileUpdate) Empty() bool {
	return p.Contact == nil && p.Address == nil && p.PaymentMethod == nil
}
