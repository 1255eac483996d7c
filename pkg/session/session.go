// Package session emite y valida el token de sesión firmado (JWT HS256).
// El token transporta solo identificadores opacos; el rol y los permisos se
// consultan en cada petición.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalid token mal formado, expirado o con firma incorrecta.
var ErrInvalid = errors.New("session: token inválido")

// Identity par usuario/workspace de una sesión, o AdminID para el panel de administración.
type Identity struct {
	UserID   int64
	TenantID int64
	AdminID  int64
}

// IsAdmin indica una sesión de administrador.
func (i Identity) IsAdmin() bool { return i.AdminID > 0 }

// Claims incluye los claims estándar JWT más los identificadores de la sesión.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64 `json:"user_id,omitempty"`
	TenantID int64 `json:"tenant_id,omitempty"`
	AdminID  int64 `json:"admin_id,omitempty"`
}

// Identity extrae los identificadores de los claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, TenantID: c.TenantID, AdminID: c.AdminID}
}

// Issuer firma tokens de sesión.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer construye el emisor. ttl <= 0 usa 24h.
func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("session: secret vacío")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// Issue genera un token firmado. Cada token lleva un jti único para poder revocarlo.
func (s *Issuer) Issue(id Identity) (string, *Claims, error) {
	now := s.now()
	subject := fmt.Sprintf("user:%d", id.UserID)
	if id.IsAdmin() {
		subject = fmt.Sprintf("admin:%d", id.AdminID)
	}
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:   id.UserID,
		TenantID: id.TenantID,
		AdminID:  id.AdminID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("session: firmar token: %w", err)
	}
	return signed, claims, nil
}

// Parse valida el token y devuelve sus claims.
func (s *Issuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

// WithClock reemplaza el reloj (tests).
func (s *Issuer) WithClock(now func() time.Time) *Issuer {
	cp := *s
	cp.now = now
	return &cp
}
