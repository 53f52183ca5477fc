package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hugohenrick/gestao-obras/internal/domain/user"
)

// Erros específicos
var (
	ErrInvalidToken  = errors.New("token inválido")
	ErrExpiredToken  = errors.New("token expirado")
	ErrInvalidClaims = errors.New("claims inválidas")
	ErrMissingJWTKey = errors.New("chave secreta JWT não configurada")
)

const issuer = "gestao-obras-api"

// JWTClaims representa as claims personalizadas do token JWT
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService implementa serviços relacionados a tokens JWT
type JWTService struct {
	secretKey  []byte
	expiration time.Duration
	now        func() time.Time
}

// NewJWTService cria uma nova instância de JWTService.
// expirationHours <= 0 usa a duração padrão de 24 horas.
func NewJWTService(secretKey string, expirationHours int) (*JWTService, error) {
	if secretKey == "" {
		return nil, ErrMissingJWTKey
	}

	expiration := 24 * time.Hour
	if expirationHours > 0 {
		expiration = time.Duration(expirationHours) * time.Hour
	}

	return &JWTService{
		secretKey:  []byte(secretKey),
		expiration: expiration,
		now:        time.Now,
	}, nil
}

// GenerateToken gera um token JWT para o usuário e retorna também o instante de expiração
func (s *JWTService) GenerateToken(u *user.User) (string, time.Time, error) {
	now := s.now()
	expirationTime := now.Add(s.expiration)

	claims := JWTClaims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   u.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expirationTime, nil
}

// ValidateToken valida um token JWT e retorna as claims se for válido
func (s *JWTService) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Verificar o método de assinatura
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	return claims, nil
}

// RefreshToken renova um token válido ou apenas expirado e retorna o novo token e sua expiração
func (s *JWTService) RefreshToken(tokenString string) (string, time.Time, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		if !errors.Is(err, ErrExpiredToken) {
			return "", time.Time{}, err
		}
		// token expirado: ler as claims sem validar o prazo, a assinatura continua obrigatória
		claims, err = s.parseIgnoringExpiry(tokenString)
		if err != nil {
			return "", time.Time{}, err
		}
	}

	now := s.now()
	expirationTime := now.Add(s.expiration)
	claims.ExpiresAt = jwt.NewNumericDate(expirationTime)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	newTokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return newTokenString, expirationTime, nil
}

func (s *JWTService) parseIgnoringExpiry(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
