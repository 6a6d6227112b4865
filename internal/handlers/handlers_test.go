package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "evento/internal/errors"
	"evento/internal/models"
	"evento/internal/service"
)

func TestWriteErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"event not found", apperrors.ErrEventNotFound, http.StatusNotFound},
		{"ticket type not found", apperrors.ErrTicketTypeNotFound, http.StatusNotFound},
		{"ticket not found", apperrors.ErrTicketNotFound, http.StatusNotFound},
		{"invalid date", apperrors.ErrInvalidDate, http.StatusBadRequest},
		{"invalid card", apperrors.ErrInvalidCard, http.StatusBadRequest},
		{"seats not supported", apperrors.ErrSeatsNotSupported, http.StatusBadRequest},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"not paid", apperrors.ErrNotPaid, http.StatusPaymentRequired},
		{"insufficient inventory", apperrors.ErrInsufficientInventory, http.StatusConflict},
		{"seat taken", apperrors.ErrSeatTaken, http.StatusConflict},
		{"already paid", apperrors.ErrAlreadyPaid, http.StatusConflict},
		{"already used", apperrors.ErrAlreadyUsed, http.StatusConflict},
		{"expired", apperrors.ErrExpired, http.StatusConflict},
		{"wrapped sentinel", fmt.Errorf("failed to get event: %w", apperrors.ErrEventNotFound), http.StatusNotFound},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			writeError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

// Stub stores for exercising handlers over httptest without a database.

type stubTicketGetter map[int64]*models.Ticket

func (s stubTicketGetter) GetByID(_ context.Context, id int64) (*models.Ticket, error) {
	return s[id], nil
}

type stubPaymentStore map[int64]*models.Payment

func (s stubPaymentStore) Record(_ context.Context, _ *models.Payment) error {
	return apperrors.ErrAlreadyPaid
}

func (s stubPaymentStore) GetByTicket(_ context.Context, ticketID int64) (*models.Payment, error) {
	return s[ticketID], nil
}

type stubTypeStore struct{}

func (stubTypeStore) Create(_ context.Context, _ *models.TicketType) error { return nil }
func (stubTypeStore) GetByID(_ context.Context, _ int64) (*models.TicketType, error) {
	return nil, nil
}
func (stubTypeStore) ListByEvent(_ context.Context, _ int64) ([]models.TicketType, error) {
	return nil, nil
}

type stubPublisher struct{}

func (stubPublisher) Publish(_ string, _ interface{}) error { return nil }

func paymentTestRouter(user *models.User, tickets stubTicketGetter, payments stubPaymentStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewHandlers(&service.Services{
		Payments: service.NewPaymentService(payments, tickets, stubTypeStore{}, stubPublisher{}),
	})

	router := gin.New()
	router.GET("/api/tickets/:id/payment", func(c *gin.Context) {
		if user != nil {
			c.Set("user", user)
		}
		c.Next()
	}, h.GetPayment)
	return router
}

func TestGetPaymentOwnerAndStaffOnly(t *testing.T) {
	owner := &models.User{ID: 1, Email: "owner@example.com"}
	stranger := &models.User{ID: 2, Email: "other@example.com"}
	staff := &models.User{ID: 3, Email: "door@example.com", IsStaff: true}

	tickets := stubTicketGetter{7: {ID: 7, UserID: owner.ID, IsPaid: true}}
	payments := stubPaymentStore{7: {ID: 11, TicketID: 7, UserID: owner.ID,
		Amount: decimal.NewFromInt(120), Method: models.MethodCash, Status: models.PaymentCompleted}}

	tests := []struct {
		name   string
		user   *models.User
		path   string
		status int
	}{
		{"owner reads own payment", owner, "/api/tickets/7/payment", http.StatusOK},
		{"staff reads any payment", staff, "/api/tickets/7/payment", http.StatusOK},
		{"stranger is rejected", stranger, "/api/tickets/7/payment", http.StatusForbidden},
		{"unknown ticket", owner, "/api/tickets/99/payment", http.StatusNotFound},
		{"unauthenticated", nil, "/api/tickets/7/payment", http.StatusUnauthorized},
		{"bad ticket id", owner, "/api/tickets/abc/payment", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := paymentTestRouter(tt.user, tickets, payments)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestGetPaymentUnpaidTicketIs402(t *testing.T) {
	owner := &models.User{ID: 1}
	tickets := stubTicketGetter{7: {ID: 7, UserID: owner.ID}}
	router := paymentTestRouter(owner, tickets, stubPaymentStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/tickets/7/payment", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusPaymentRequired, w.Code)
}
