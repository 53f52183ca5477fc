package dto

import (
	"time"
)

// LoginRequest representa os dados para login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"ana@obra.com"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse representa a resposta de login bem-sucedido
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// RefreshTokenRequest representa os dados para renovação de token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshTokenResponse representa a resposta de renovação de token bem-sucedida
type RefreshTokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SetupAdminRequest representa os dados do primeiro administrador do sistema
type SetupAdminRequest struct {
	Name     string `json:"name" binding:"required" example:"Administrador"`
	Email    string `json:"email" binding:"required,email" example:"admin@obra.com"`
	Password string `json:"password" binding:"required,min=8"`
}
