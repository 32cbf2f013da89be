package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"vibro/internal/handlers"
	"vibro/internal/models"
)

type stubSessions struct{}

func (stubSessions) GenerateToken() (string, error) { return "", nil }

func (stubSessions) OpenToken(string) ([]byte, error) { return nil, nil }

func (stubSessions) Establish(string, bool) (*models.Session, error) { return nil, nil }

func (stubSessions) Validate(string) (*models.Session, error) { return nil, nil }

func (stubSessions) Revoke(string) error { return nil }

type stubUsers struct{}

func (stubUsers) Register(string, string, string, string) (*models.User, error) { return nil, nil }

func (stubUsers) ConfirmRegistration(string, string, string) error { return nil }

func (stubUsers) GetByEmail(string) (*models.User, error) { return nil, nil }

func (stubUsers) GetByID(int) (*models.User, error) { return nil, nil }

func (stubUsers) FindOrCreateVerified(string, string, string) (*models.User, error) {
	return nil, nil
}

func (stubUsers) UpdateProfile(int, string, string, string) (*models.User, error) {
	return nil, nil
}

// wiredRouter builds the production route table the way app.Run does,
// including the 405 fallback.
func wiredRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true

	users := stubUsers{}
	sessions := stubSessions{}
	return SetupRoutes(
		r,
		handlers.NewAuthHandler(nil, nil, users, sessions, 86400, 7776000),
		handlers.NewUserHandler(users, nil),
		handlers.NewVideoHandler(nil),
		handlers.NewCommentHandler(nil),
		sessions,
		users,
	)
}

func TestWrongMethodIs405(t *testing.T) {
	r := wiredRouter()

	for _, path := range []string{"/auth/login", "/auth/register"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, "GET %s", path)
	}
}

func TestUnknownPathIs404(t *testing.T) {
	r := wiredRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/no/such/route", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicRoutesSkipSessionCheck(t *testing.T) {
	r := wiredRouter()

	// malformed body stops in the handler's validation, not in auth middleware
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("not-json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	r := wiredRouter()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/auth/me"},
		{http.MethodPut, "/profile"},
		{http.MethodPost, "/uploads/grant"},
		{http.MethodDelete, "/videos/some-id"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}
