package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/gestao-obras/pkg/identity"
	"golang.org/x/crypto/bcrypt"
)

// Role representa o papel/função do usuário
type Role string

// Status representa o status do usuário
type Status string

// Constantes para Role
const (
	RoleAdmin      Role = identity.RoleAdmin      // Administrador do sistema
	RoleFinanceiro Role = identity.RoleFinanceiro // Setor financeiro
	RoleCompras    Role = identity.RoleCompras    // Setor de compras
	RoleEngenheiro Role = identity.RoleEngenheiro // Engenheiro de obra
)

// Constantes para Status
const (
	StatusActive   Status = "active"   // Usuário ativo
	StatusInactive Status = "inactive" // Usuário inativo
	StatusBlocked  Status = "blocked"  // Usuário bloqueado
)

var (
	ErrInvalidEmail    = errors.New("email inválido")
	ErrInvalidRole     = errors.New("papel de usuário inválido")
	ErrPasswordTooWeak = errors.New("senha deve ter pelo menos 8 caracteres")
)

// User representa um usuário do sistema
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Password    string     `json:"-"` // O campo senha não é retornado nas respostas JSON
	Role        Role       `json:"role"`
	Status      Status     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewUser cria um novo usuário ativo com a senha já convertida em hash
func NewUser(name, email, password string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooWeak
	}

	now := time.Now()
	u := &User{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Role:      role,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// Valid verifica se o papel é conhecido
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleFinanceiro, RoleCompras, RoleEngenheiro:
		return true
	}
	return false
}

// SetPassword configura a senha do usuário com hash
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifica se a senha fornecida é válida
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsActive verifica se o usuário está ativo
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// IsAdmin verifica se o usuário é um administrador
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor retorna a identidade usada nas operações do domínio
func (u *User) Actor() identity.Actor {
	return identity.Actor{UserID: u.ID, Name: u.Name, Role: string(u.Role)}
}
