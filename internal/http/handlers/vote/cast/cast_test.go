package cast

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
	"github.com/magabrotheeeer/fanlist/internal/storage"
)

// MockService реализует интерфейс cast.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Vote(ctx context.Context, ideaID int, voterUID string) (int, error) {
	args := m.Called(ctx, ideaID, voterUID)
	return args.Int(0), args.Error(1)
}

func TestCastHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		ideaID         string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешный голос",
			ideaID:  "42",
			userUID: "uid-voter",
			setupMock: func(m *MockService) {
				m.On("Vote", mock.Anything, 42, "uid-voter").Return(7, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"votes":7`,
		},
		{
			name:           "отсутствует авторизация",
			ideaID:         "42",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:           "некорректный id в url",
			ideaID:         "abc",
			userUID:        "uid-voter",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid idea id"}`,
		},
		{
			name:    "идея не найдена",
			ideaID:  "99",
			userUID: "uid-voter",
			setupMock: func(m *MockService) {
				m.On("Vote", mock.Anything, 99, "uid-voter").Return(0, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"idea not found"}`,
		},
		{
			name:    "повторный голос",
			ideaID:  "42",
			userUID: "uid-voter",
			setupMock: func(m *MockService) {
				m.On("Vote", mock.Anything, 42, "uid-voter").Return(0, storage.ErrConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"status":"Error","error":"already voted for this idea"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/ideas/"+tt.ideaID+"/votes", nil)

			ctx := req.Context()
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.ideaID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
