package rest

import (
	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
)

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (r signupRequest) input() ports.SignupInput {
	return ports.SignupInput{Username: r.Username, Email: r.Email, Password: r.Password}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	ID    string `json:"id"`
}

type paymentDTO struct {
	PaymentType string `json:"paymentType" binding:"required"`
	PaymentID   string `json:"paymentId" binding:"required"`
}

func (p paymentDTO) domain() domain.PaymentMethod {
	return domain.PaymentMethod{PaymentType: p.PaymentType, PaymentID: p.PaymentID}
}

// orderRequest — тело POST/PUT заказа. Полная проверка полей — в pkg/validate.
type orderRequest struct {
	Name          string        `json:"name" binding:"required"`
	Category      string        `json:"category" binding:"required"`
	Items         []domain.Item `json:"items" binding:"required,min=1"`
	Address       string        `json:"address" binding:"required"`
	PaymentMethod paymentDTO    `json:"paymentMethod" binding:"required"`
	Contact       string        `json:"contact" binding:"required"`
}

func (r orderRequest) draft() *domain.OrderDraft {
	return &domain.OrderDraft{
		Name:          r.Name,
		Category:      domain.Category(r.Category),
		Items:         r.Items,
		Address:       r.Address,
		PaymentMethod: r.PaymentMethod.domain(),
		Contact:       r.Contact,
	}
}

// profileRequest — любое подмножество полей; отсутствующее поле не меняется.
type profileRequest struct {
	Contact       *string     `json:"contact"`
	Address       *string     `json:"address"`
	PaymentMethod *paymentDTO `json:"paymentMethod"`
}

func (r profileRequest) update() domain.ProfileUpdate {
	upd := domain.ProfileUpdate{Contact: r.Contact, Address: r.Address}
	if r.PaymentMethod != nil {
		pm := r.PaymentMethod.domain()
		upd.PaymentMethod = &pm
	}
	return upd
}

type ordersPage struct {
	Data       []*domain.Order `json:"data"`
	TotalPages int             `json:"totalPages"`
	NoOfOrders int             `json:"noOfOrders"`
}
