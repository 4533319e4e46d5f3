package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/Gunvolt24/peerkart/internal/domain"
	"github.com/Gunvolt24/peerkart/internal/ports"
	"github.com/Gunvolt24/peerkart/internal/ports/mocks"
	rest "github.com/Gunvolt24/peerkart/internal/transport/http"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

const (
	testToken  = "good-token"
	testActor  = "user-1"
	adminToken = "admin-secret"
)

type apiMocks struct {
	lifecycle *mocks.MockOrderLifecycle
	queries   *mocks.MockOrderQueries
	users     *mocks.MockUserService
	auth      *mocks.MockAuthService
	router    *gin.Engine
}

func newAPI(t *testing.T) *apiMocks {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	m := &apiMocks{
		lifecycle: mocks.NewMockOrderLifecycle(ctrl),
		queries:   mocks.NewMockOrderQueries(ctrl),
		users:     mocks.NewMockUserService(ctrl),
		auth:      mocks.NewMockAuthService(ctrl),
	}
	m.auth.EXPECT().Verify(testToken).Return(testActor, nil).AnyTimes()
	m.auth.EXPECT().Verify(gomock.Not(testToken)).Return("", domain.ErrUnauthorized).AnyTimes()

	h := rest.NewHandler(rest.Services{
		Lifecycle: m.lifecycle,
		Queries:   m.queries,
		Users:     m.users,
		Auth:      m.auth,
	}, noopLogger{}, 2*time.Second, adminToken)
	m.router = rest.NewRouter(h, "")
	return m
}

func (m *apiMocks) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	m.router.ServeHTTP(w, req)
	return w
}

func (m *apiMocks) authed(method, path, body string) *httptest.ResponseRecorder {
	return m.do(method, path, body, "Authorization", "Bearer "+testToken)
}

func errorMsg(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var got struct {
		Error struct {
			Msg string `json:"msg"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got), w.Body.String())
	return got.Error.Msg
}

const validOrderBody = `{
	"name": "Weekly groceries",
	"category": "Grocery",
	"items": [{"name":"Milk","quantity":2,"unit":"l"},{"name":"Bread","quantity":1},{"name":"Eggs","quantity":12}],
	"address": "7 Park Street, Kolkata",
	"paymentMethod": {"paymentType":"UPI","paymentId":"req-1"},
	"contact": "+91-90000-00000"
}`

func TestPing(t *testing.T) {
	m := newAPI(t)
	w := m.do(http.MethodGet, "/ping", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "pong", w.Body.String())
	require.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthRequired(t *testing.T) {
	m := newAPI(t)

	w := m.do(http.MethodPost, "/api/v1/orders", validOrderBody)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Not authorized", errorMsg(t, w))

	w = m.do(http.MethodGet, "/api/v1/orders/nearby?lat=1&lng=2", "", "Authorization", "Bearer forged")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = m.do(http.MethodGet, "/api/v1/users/details", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderReads_Public(t *testing.T) {
	m := newAPI(t)
	m.queries.EXPECT().ActiveOrders(gomock.Any(), 1).Return(ports.OrderPage{
		Orders:     []*domain.Order{{ID: "o1"}},
		TotalPages: 1,
	}, nil)
	m.queries.EXPECT().Order(gomock.Any(), "o1").Return(&domain.Order{ID: "o1"}, nil)

	w := m.do(http.MethodGet, "/api/v1/orders", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = m.do(http.MethodGet, "/api/v1/orders/o1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestListActiveOrders_Page(t *testing.T) {
	m := newAPI(t)
	m.queries.EXPECT().ActiveOrders(gomock.Any(), 2).Return(ports.OrderPage{
		Orders:     []*domain.Order{{ID: "o11"}, {ID: "o12"}},
		TotalPages: 2,
	}, nil)

	w := m.authed(http.MethodGet, "/api/v1/orders?page=2", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		Data       []domain.Order `json:"data"`
		TotalPages int            `json:"totalPages"`
		NoOfOrders int            `json:"noOfOrders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, 2, got.TotalPages)
	require.Equal(t, 2, got.NoOfOrders)
	require.Equal(t, "o11", got.Data[0].ID)
}

func TestCreateOrder(t *testing.T) {
	m := newAPI(t)
	m.lifecycle.EXPECT().Create(gomock.Any(), testActor, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, d *domain.OrderDraft) (*domain.Order, error) {
			_, hasDeadline := ctx.Deadline()
			require.True(t, hasDeadline, "handler timeout must be applied")
			require.Len(t, d.Items, 3)
			require.Equal(t, domain.CategoryGrocery, d.Category)
			return &domain.Order{ID: "o1", Points: domain.PointsFor(len(d.Items)), State: domain.StateActive}, nil
		})

	w := m.authed(http.MethodPost, "/api/v1/orders", validOrderBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got struct {
		Data domain.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, 15, got.Data.Points)
}

func TestCreateOrder_BadBody(t *testing.T) {
	m := newAPI(t)
	w := m.authed(http.MethodPost, "/api/v1/orders", `{"name":"x","items":[]}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Contains(t, errorMsg(t, w), "invalid request body")
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"conflict", fmt.Errorf("user must have contact, address and payment method: %w", domain.ErrStateConflict), http.StatusForbidden, ""},
		{"not found", fmt.Errorf("order o1: %w", domain.ErrNotFound), http.StatusNotFound, ""},
		{"validation", fmt.Errorf("%w: bad", domain.ErrValidation), http.StatusUnprocessableEntity, ""},
		{"store", errors.New("pg: connection refused"), http.StatusInternalServerError, "Server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newAPI(t)
			m.lifecycle.EXPECT().Accept(gomock.Any(), testActor, "o1").Return(nil, tt.err)

			w := m.authed(http.MethodPut, "/api/v1/orders/o1/accept", "")
			require.Equal(t, tt.status, w.Code)
			if tt.msg != "" {
				require.Equal(t, tt.msg, errorMsg(t, w))
			} else {
				require.Equal(t, tt.err.Error(), errorMsg(t, w))
			}
		})
	}
}

func TestTransitions_RouteToLifecycle(t *testing.T) {
	m := newAPI(t)
	gomock.InOrder(
		m.lifecycle.EXPECT().Reject(gomock.Any(), testActor, "o1").Return(&domain.Order{ID: "o1", State: domain.StateActive}, nil),
		m.lifecycle.EXPECT().Complete(gomock.Any(), testActor, "o2").Return(&domain.Order{ID: "o2", State: domain.StateComplete}, nil),
		m.lifecycle.EXPECT().Delete(gomock.Any(), testActor, "o3").Return(&domain.Order{ID: "o3"}, nil),
		m.lifecycle.EXPECT().Modify(gomock.Any(), testActor, "o4", gomock.Any()).Return(&domain.Order{ID: "o4"}, nil),
	)

	require.Equal(t, http.StatusOK, m.authed(http.MethodPut, "/api/v1/orders/o1/reject", "").Code)
	require.Equal(t, http.StatusOK, m.authed(http.MethodPut, "/api/v1/orders/o2/complete", "").Code)
	require.Equal(t, http.StatusOK, m.authed(http.MethodDelete, "/api/v1/orders/o3", "").Code)
	require.Equal(t, http.StatusOK, m.authed(http.MethodPut, "/api/v1/orders/o4", validOrderBody).Code)
}

func TestGetOrder(t *testing.T) {
	m := newAPI(t)
	m.queries.EXPECT().Order(gomock.Any(), "o1").Return(&domain.Order{ID: "o1"}, nil)
	m.queries.EXPECT().Order(gomock.Any(), "missing").Return(nil, fmt.Errorf("order missing: %w", domain.ErrNotFound))

	require.Equal(t, http.StatusOK, m.authed(http.MethodGet, "/api/v1/orders/o1", "").Code)
	require.Equal(t, http.StatusNotFound, m.authed(http.MethodGet, "/api/v1/orders/missing", "").Code)
}

func TestNearby(t *testing.T) {
	m := newAPI(t)

	w := m.authed(http.MethodGet, "/api/v1/orders/nearby?lat=abc&lng=77.5", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	m.queries.EXPECT().Nearby(gomock.Any(), domain.Point{Lat: 12.97, Lng: 77.59}, 3000.0).
		Return([]*domain.Order{{ID: "near"}}, nil)
	w = m.authed(http.MethodGet, "/api/v1/orders/nearby?lat=12.97&lng=77.59", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestListUsers_AdminOnly(t *testing.T) {
	m := newAPI(t)

	w := m.do(http.MethodGet, "/api/v1/users", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = m.do(http.MethodGet, "/api/v1/users", "", rest.AdminTokenHeader, "wrong")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	m.users.EXPECT().List(gomock.Any()).Return([]*domain.User{{ID: "u1"}, {ID: "u2"}}, nil)
	w = m.do(http.MethodGet, "/api/v1/users", "", rest.AdminTokenHeader, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	m := newAPI(t)
	m.users.EXPECT().UpdateProfile(gomock.Any(), testActor, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, upd domain.ProfileUpdate) (*domain.User, error) {
			require.NotNil(t, upd.Address)
			require.Equal(t, "12 MG Road", *upd.Address)
			require.Nil(t, upd.Contact)
			require.Nil(t, upd.PaymentMethod)
			return &domain.User{ID: testActor, PasswordHash: "secret"}, nil
		})

	w := m.authed(http.MethodPut, "/api/v1/users/update", `{"address":"12 MG Road"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotContains(t, w.Body.String(), "secret")
}

func TestUserViews(t *testing.T) {
	m := newAPI(t)
	m.users.EXPECT().Details(gomock.Any(), testActor).Return(&domain.User{ID: testActor}, nil)
	m.queries.EXPECT().CreatedBy(gomock.Any(), testActor).Return([]*domain.Order{}, nil)
	m.queries.EXPECT().AcceptedBy(gomock.Any(), testActor).Return([]*domain.Order{}, nil)
	m.queries.EXPECT().LatestAccepted(gomock.Any(), testActor).Return(nil, fmt.Errorf("none: %w", domain.ErrNotFound))
	m.queries.EXPECT().Activity(gomock.Any(), testActor).Return([]*domain.Order{}, nil)

	require.Equal(t, http.StatusOK, m.authed(http.MethodGet, "/api/v1/users/details", "").Code)
	require.Equal(t, http.StatusOK, m.authed(http.MethodGet, "/api/v1/users/orders/created", "").Code)
	require.Equal(t, http.StatusOK, m.authed(http.MethodGet, "/api/v1/users/orders/accepted", "").Code)
	require.Equal(t, http.StatusNotFound, m.authed(http.MethodGet, "/api/v1/users/orders/latestaccepted", "").Code)
	require.Equal(t, http.StatusOK, m.authed(http.MethodGet, "/api/v1/users/activity", "").Code)
}

func TestSignupAndLogin(t *testing.T) {
	m := newAPI(t)
	m.auth.EXPECT().Signup(gomock.Any(), ports.SignupInput{Username: "neo", Email: "neo@example.com", Password: "password1"}).
		Return(nil, domain.ErrAlreadyExists)
	m.auth.EXPECT().Login(gomock.Any(), "neo@example.com", "password1").Return("jwt", "u1", nil)
	m.auth.EXPECT().Login(gomock.Any(), "neo@example.com", "nope").Return("", "", domain.ErrUnauthorized)

	w := m.do(http.MethodPost, "/api/v1/auth/signup", `{"username":"neo","email":"neo@example.com","password":"password1"}`)
	require.Equal(t, http.StatusConflict, w.Code)

	w = m.do(http.MethodPost, "/api/v1/auth/signup", `{"username":"neo","email":"not-an-email","password":"x"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = m.do(http.MethodPost, "/api/v1/auth/login", `{"email":"neo@example.com","password":"password1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Data struct {
			Token string `json:"token"`
			ID    string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, "jwt", got.Data.Token)
	require.Equal(t, "u1", got.Data.ID)

	w = m.do(http.MethodPost, "/api/v1/auth/login", `{"email":"neo@example.com","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMethodNotAllowedAndNoRoute(t *testing.T) {
	m := newAPI(t)

	w := m.do(http.MethodPost, "/ping", "")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.Equal(t, "method not allowed", errorMsg(t, w))

	w = m.do(http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
