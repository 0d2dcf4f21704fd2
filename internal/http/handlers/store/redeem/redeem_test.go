package redeem

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fanlist/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fanlist/internal/models"
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// MockService реализует интерфейс redeem.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Redeem(ctx context.Context, storeItemID int, userUID string) (*models.StoreRedemption, error) {
	args := m.Called(ctx, storeItemID, userUID)
	if redemption, ok := args.Get(0).(*models.StoreRedemption); ok {
		return redemption, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestRedeemHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		itemID         string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешный выкуп",
			itemID:  "3",
			userUID: "uid-fan",
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, 3, "uid-fan").Return(&models.StoreRedemption{
					ID:          11,
					StoreItemID: 3,
					UserUID:     "uid-fan",
					CreatorUID:  "uid-creator",
					PointsSpent: 20,
					Status:      models.RedemptionPending,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"Status":"pending"`,
		},
		{
			name:           "отсутствует авторизация",
			itemID:         "3",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:           "некорректный id в url",
			itemID:         "abc",
			userUID:        "uid-fan",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid item id"}`,
		},
		{
			name:    "товар не найден",
			itemID:  "99",
			userUID: "uid-fan",
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, 99, "uid-fan").Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"store item not found"}`,
		},
		{
			name:    "недостаточно баллов",
			itemID:  "3",
			userUID: "uid-fan",
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, 3, "uid-fan").Return(nil, storage.ErrInsufficientPoints)
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `{"status":"Error","error":"insufficient points"}`,
		},
		{
			name:    "товар недоступен",
			itemID:  "3",
			userUID: "uid-fan",
			setupMock: func(m *MockService) {
				m.On("Redeem", mock.Anything, 3, "uid-fan").Return(nil, storage.ErrUnavailable)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"store item unavailable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/store/items/"+tt.itemID+"/redemptions", nil)

			ctx := req.Context()
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.itemID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
