package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kuppi/internal/domain/user"
	"kuppi/internal/infrastructure/auth"
	"kuppi/internal/shared/authorization"
	"kuppi/internal/shared/logger"
)

type stubUserRepo struct {
	bySID map[string]*user.User
}

func (r *stubUserRepo) Create(context.Context, *user.User) error { return nil }
func (r *stubUserRepo) Update(context.Context, *user.User) error { return nil }
func (r *stubUserRepo) GetByID(context.Context, uint) (*user.User, error) {
	return nil, errors.New("not implemented")
}
func (r *stubUserRepo) GetByEmail(context.Context, string) (*user.User, error) {
	return nil, errors.New("not implemented")
}
func (r *stubUserRepo) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
func (r *stubUserRepo) List(context.Context, user.UserFilter) ([]*user.User, int64, error) {
	return nil, 0, nil
}

func (r *stubUserRepo) GetBySID(_ context.Context, sid string) (*user.User, error) {
	if u, ok := r.bySID[sid]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func storedUser(t *testing.T, id uint, sid string, isAdmin bool) *user.User {
	t.Helper()
	now := time.Now()
	u, err := user.ReconstructUser(id, sid, sid+"@example.com", "Test User", "hash", isAdmin, nil, 1, now, now)
	require.NoError(t, err)
	return u
}

func adminRouter(repo user.UserRepository, jwtSvc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(jwtSvc, repo, logger.NewLogger())
	r := gin.New()
	r.GET("/admin/ping", m.RequireAuth(), m.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func adminRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRequireAdmin_AllowsStoredAdmin(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", 15, 7)
	repo := &stubUserRepo{bySID: map[string]*user.User{
		"user_admin1": storedUser(t, 1, "user_admin1", true),
	}}
	pair, err := jwtSvc.Generate("user_admin1", authorization.RoleAdmin)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	adminRouter(repo, jwtSvc).ServeHTTP(w, adminRequest(pair.AccessToken))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_DemotionTakesEffectImmediately(t *testing.T) {
	// The token still carries the admin role, but the account on record
	// no longer has it. The stored account wins; a stale claim must not
	// keep the door open until the token expires.
	jwtSvc := auth.NewJWTService("test-secret", 15, 7)
	repo := &stubUserRepo{bySID: map[string]*user.User{
		"user_demoted": storedUser(t, 2, "user_demoted", false),
	}}
	pair, err := jwtSvc.Generate("user_demoted", authorization.RoleAdmin)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	adminRouter(repo, jwtSvc).ServeHTTP(w, adminRequest(pair.AccessToken))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_RejectsStudent(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", 15, 7)
	repo := &stubUserRepo{bySID: map[string]*user.User{
		"user_student": storedUser(t, 3, "user_student", false),
	}}
	pair, err := jwtSvc.Generate("user_student", authorization.RoleStudent)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	adminRouter(repo, jwtSvc).ServeHTTP(w, adminRequest(pair.AccessToken))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuth_RejectsUnknownAccount(t *testing.T) {
	jwtSvc := auth.NewJWTService("test-secret", 15, 7)
	repo := &stubUserRepo{bySID: map[string]*user.User{}}
	pair, err := jwtSvc.Generate("user_ghost", authorization.RoleStudent)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	adminRouter(repo, jwtSvc).ServeHTTP(w, adminRequest(pair.AccessToken))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
