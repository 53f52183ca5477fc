package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/gestao-obras/internal/adapter/api/dto"
	"github.com/hugohenrick/gestao-obras/internal/adapter/repository"
	"github.com/hugohenrick/gestao-obras/internal/domain/user"
	"github.com/hugohenrick/gestao-obras/pkg/auth"
	"github.com/hugohenrick/gestao-obras/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	byID      map[string]*user.User
	lastLogin []string
}

func newMemUsers(users ...*user.User) *memUsers {
	m := &memUsers{byID: map[string]*user.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *user.User) error {
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return repository.ErrUserDuplicateEmail
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.byID {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) UpdateLastLogin(_ context.Context, id string) error {
	m.lastLogin = append(m.lastLogin, id)
	return nil
}

func (m *memUsers) Count(context.Context) (int, error) {
	return len(m.byID), nil
}

func setupAuthRouter(t *testing.T, repo user.Repository) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService, err := auth.NewJWTService("segredo", 1)
	require.NoError(t, err)
	ctrl := NewAuthController(repo, jwtService, logger.NewNop())

	r := gin.New()
	r.POST("/auth/login", ctrl.Login)
	r.POST("/auth/refresh-token", ctrl.RefreshToken)
	r.GET("/auth/me", auth.JWTAuthMiddleware(jwtService), ctrl.Me)
	r.POST("/setup/admin", ctrl.SetupAdmin)
	return r, jwtService
}

func newTestUser(t *testing.T, status user.Status) *user.User {
	t.Helper()
	u, err := user.NewUser("Ana", "ana@obra.com", "senha-forte", user.RoleFinanceiro)
	require.NoError(t, err)
	u.Status = status
	return u
}

func TestAuthController_Login(t *testing.T) {
	active := newTestUser(t, user.StatusActive)
	repo := newMemUsers(active)
	r, jwtService := setupAuthRouter(t, repo)

	w := doJSON(r, http.MethodPost, "/auth/login", `{"email": "ANA@obra.com", "password": "senha-forte"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, active.ID, resp.User.ID)
	assert.Equal(t, []string{active.ID}, repo.lastLogin)

	claims, err := jwtService.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "financeiro", claims.Role)
}

func TestAuthController_LoginFailures(t *testing.T) {
	blocked := newTestUser(t, user.StatusBlocked)
	r, _ := setupAuthRouter(t, newMemUsers(blocked))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"corpo inválido", `{"email": "x"}`, http.StatusBadRequest},
		{"usuário inexistente", `{"email": "nao@obra.com", "password": "qualquer"}`, http.StatusUnauthorized},
		{"senha errada", `{"email": "ana@obra.com", "password": "errada"}`, http.StatusUnauthorized},
		{"usuário bloqueado", `{"email": "ana@obra.com", "password": "senha-forte"}`, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/auth/login", tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAuthController_RefreshAndMe(t *testing.T) {
	active := newTestUser(t, user.StatusActive)
	r, jwtService := setupAuthRouter(t, newMemUsers(active))

	token, _, err := jwtService.GenerateToken(active)
	require.NoError(t, err)

	w := doJSON(r, http.MethodPost, "/auth/refresh-token", `{"refresh_token": "`+token+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var refreshed dto.RefreshTokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)

	w = doJSON(r, http.MethodPost, "/auth/refresh-token", `{"refresh_token": "lixo"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := newAuthorizedRequest(http.MethodGet, "/auth/me", refreshed.AccessToken)
	me := serve(r, req)
	require.Equal(t, http.StatusOK, me.Code)

	var resp dto.UserResponse
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &resp))
	assert.Equal(t, "ana@obra.com", resp.Email)
}

func TestAuthController_SetupAdmin(t *testing.T) {
	repo := newMemUsers()
	r, _ := setupAuthRouter(t, repo)

	w := doJSON(r, http.MethodPost, "/setup/admin", `{"name": "Admin", "email": "admin@obra.com", "password": "12345678"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.Role)

	w = doJSON(r, http.MethodPost, "/setup/admin", `{"name": "Outro", "email": "outro@obra.com", "password": "12345678"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func newAuthorizedRequest(method, path, token string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
