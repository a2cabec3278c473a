package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/EgehanKilicarslan/bookreview/internal/config"
)

// Identity is the authenticated principal carried inside a token.
type Identity struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// Claims is the JWT payload.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// Token errors. Every failure class wraps ErrInvalidToken.
var (
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrTokenMalformed        = fmt.Errorf("%w: malformed", ErrInvalidToken)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: signature invalid", ErrInvalidToken)
	ErrTokenExpired          = fmt.Errorf("%w: expired", ErrInvalidToken)
)

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	Issue(identity Identity) (string, time.Time, error)
	Verify(tokenString string) (Identity, error)
}

type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds an HS256 token service from the immutable config.
func NewTokenService(cfg *config.Config) TokenService {
	return NewTokenServiceWithClock(cfg, time.Now)
}

// NewTokenServiceWithClock is NewTokenService with an explicit clock.
func NewTokenServiceWithClock(cfg *config.Config, now func() time.Time) TokenService {
	return &jwtTokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.TokenExpiration) * time.Second,
		now:    now,
	}
}

func (s *jwtTokenService) Issue(identity Identity) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", identity.UserID),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: identity.UserID,
		Email:  identity.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func (s *jwtTokenService) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Identity{}, classify(err)
	}

	if !token.Valid || claims.UserID == 0 {
		return Identity{}, ErrTokenMalformed
	}

	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	default:
		return ErrTokenMalformed
	}
}
