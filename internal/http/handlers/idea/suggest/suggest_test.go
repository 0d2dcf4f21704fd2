package suggest

import (
	"bytes"
	"context"
	"encoding/json"
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

// MockService реализует интерфейс suggest.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Suggest(ctx context.Context, creatorUID, suggesterUID string, req models.DummyIdea) (int, error) {
	args := m.Called(ctx, creatorUID, suggesterUID, req)
	return args.Int(0), args.Error(1)
}

// MockUserProvider реализует интерфейс suggest.UserProvider
type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*models.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSuggestHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	creator := &models.User{UID: "uid-creator", Username: "creator"}

	tests := []struct {
		name           string
		username       string
		requestBody    interface{}
		userUID        string
		setupMocks     func(*MockService, *MockUserProvider)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное предложение",
			username:    "creator",
			requestBody: models.DummyIdea{Title: "Стрим про Go"},
			userUID:     "uid-fan",
			setupMocks: func(s *MockService, u *MockUserProvider) {
				u.On("GetUserByUsername", mock.Anything, "creator").Return(creator, nil)
				s.On("Suggest", mock.Anything, "uid-creator", "uid-fan",
					mock.AnythingOfType("models.DummyIdea")).Return(15, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":15`,
		},
		{
			name:           "отсутствует авторизация",
			username:       "creator",
			requestBody:    models.DummyIdea{Title: "Стрим про Go"},
			userUID:        "",
			setupMocks:     func(_ *MockService, _ *MockUserProvider) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:        "автор не найден",
			username:    "ghost",
			requestBody: models.DummyIdea{Title: "Стрим про Go"},
			userUID:     "uid-fan",
			setupMocks: func(_ *MockService, u *MockUserProvider) {
				u.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, storage.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"creator not found"}`,
		},
		{
			name:        "некорректный JSON",
			username:    "creator",
			requestBody: "not a json",
			userUID:     "uid-fan",
			setupMocks: func(_ *MockService, u *MockUserProvider) {
				u.On("GetUserByUsername", mock.Anything, "creator").Return(creator, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:        "ошибка валидации",
			username:    "creator",
			requestBody: models.DummyIdea{Title: ""},
			userUID:     "uid-fan",
			setupMocks: func(_ *MockService, u *MockUserProvider) {
				u.On("GetUserByUsername", mock.Anything, "creator").Return(creator, nil)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Title is a required field`,
		},
		{
			name:        "недостаточно баллов",
			username:    "creator",
			requestBody: models.DummyIdea{Title: "Стрим про Go"},
			userUID:     "uid-fan",
			setupMocks: func(s *MockService, u *MockUserProvider) {
				u.On("GetUserByUsername", mock.Anything, "creator").Return(creator, nil)
				s.On("Suggest", mock.Anything, "uid-creator", "uid-fan",
					mock.AnythingOfType("models.DummyIdea")).Return(0, storage.ErrInsufficientPoints)
			},
			expectedStatus: http.StatusPaymentRequired,
			expectedBody:   `{"status":"Error","error":"insufficient points"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			mockUsers := new(MockUserProvider)
			tt.setupMocks(mockService, mockUsers)

			handler := New(logger, mockService, mockUsers)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/creators/"+tt.username+"/suggestions", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			ctx := req.Context()
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("username", tt.username)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
			mockUsers.AssertExpectations(t)
		})
	}
}
