package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-interview-backend/internal/delivery/http/middleware"
	"go-interview-backend/internal/delivery/http/response"
	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type MockAuthUsecase struct {
	mock.Mock
}

func (m *MockAuthUsecase) EnsureUserExists(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockAuthUsecase) AssignRole(ctx context.Context, userID string, role string) error {
	return m.Called(ctx, userID, role).Error(0)
}

func (m *MockAuthUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func signHS256(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func authRouter(users domain.AuthUsecase) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	r.Use(middleware.AuthMiddleware(middleware.AuthConfig{JWTSecret: testSecret, Users: users}))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":       c.GetString(string(domain.KeyUserID)),
			"email":    c.GetString(string(domain.KeyUserEmail)),
			"role":     c.GetString(string(domain.KeyUserRole)),
			"ctx_role": c.Request.Context().Value(domain.KeyUserRole),
		})
	})
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAuthMiddleware_RoleComesFromDatabase(t *testing.T) {
	users := new(MockAuthUsecase)
	users.On("GetCurrentUser", mock.Anything, "u-1").
		Return(&domain.User{ID: "u-1", Email: "rec@example.com", Role: domain.RoleRecruiter}, nil)

	token := signHS256(t, jwt.MapClaims{
		"sub":   "u-1",
		"email": "Rec@Example.com",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authRouter(users).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "u-1", body["id"])
	assert.Equal(t, "rec@example.com", body["email"])
	assert.Equal(t, domain.RoleRecruiter, body["role"])
	assert.Equal(t, domain.RoleRecruiter, body["ctx_role"])
}

func TestAuthMiddleware_UnknownUserIsCandidate(t *testing.T) {
	users := new(MockAuthUsecase)
	users.On("GetCurrentUser", mock.Anything, "new-user").
		Return(nil, apperror.New(http.StatusNotFound, "User not found", domain.ErrNotFound))

	token := signHS256(t, jwt.MapClaims{"sub": "new-user", "email": "c@example.com", "exp": time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()
	authRouter(users).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.RoleCandidate, decode(t, w)["role"])
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	expired := signHS256(t, jwt.MapClaims{"sub": "u-1", "exp": time.Now().Add(-time.Hour).Unix()})
	wrongKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u-1"}).SignedString([]byte("other"))
	noSub := signHS256(t, jwt.MapClaims{"email": "x@example.com"})

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"garbage", "Bearer not-a-token"},
		{"expired", "Bearer " + expired},
		{"wrong key", "Bearer " + wrongKey},
		{"no subject", "Bearer " + noSub},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockAuthUsecase)
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			authRouter(users).ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, false, decode(t, w)["success"])
			users.AssertNotCalled(t, "GetCurrentUser", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthMiddleware_DatabaseFailureIs500(t *testing.T) {
	users := new(MockAuthUsecase)
	users.On("GetCurrentUser", mock.Anything, "u-1").Return(nil, errors.New("connection reset"))

	token := signHS256(t, jwt.MapClaims{"sub": "u-1", "exp": time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authRouter(users).ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestErrorHandler_RendersDetails(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	r.GET("/conflict", func(c *gin.Context) {
		c.Error(apperror.Conflict("Interview already completed").WithDetails(gin.H{"status": "completed"}))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/conflict", nil))

	require.Equal(t, http.StatusConflict, w.Code)
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Interview already completed", body.Message)
	assert.Equal(t, map[string]interface{}{"status": "completed"}, body.Error)
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, body.RequestID, w.Header().Get("X-Request-ID"))
}

func TestRequestID_ReusesValidIncomingID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) { response.Success(c, http.StatusOK, "ok", nil) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "7f1c5a2e-8a53-4c43-9a55-1b2f1f6f3c11")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "7f1c5a2e-8a53-4c43-9a55-1b2f1f6f3c11", w.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Header().Get("X-Request-ID"))
}

func TestRateLimiter_InMemory(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := middleware.NewRateLimiter(ctx, nil, nil)

	r := gin.New()
	r.Use(rl.Limit(middleware.GlobalRateLimitConfig(2, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = w.Code
		if i == 2 {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestSubmitRateLimit_KeyedByUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := middleware.NewRateLimiter(ctx, nil, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(domain.KeyUserID), c.GetHeader("X-User"))
		c.Next()
	})
	r.Use(rl.Limit(middleware.SubmitRateLimitConfig(1, time.Minute)))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("a"))
	assert.Equal(t, http.StatusTooManyRequests, send("a"))
	assert.Equal(t, http.StatusOK, send("b"))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORSMiddleware("https://app.example.com", true))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	ok := preflight("https://app.example.com")
	assert.Equal(t, http.StatusNoContent, ok.Code)
	assert.Equal(t, "https://app.example.com", ok.Header().Get("Access-Control-Allow-Origin"))

	// localhost is development only
	assert.Equal(t, http.StatusForbidden, preflight("http://localhost:3000").Code)
}
