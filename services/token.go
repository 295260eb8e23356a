package services

import (
	"errors"
	"fmt"
	"time"

	"noteflow/model"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "noteflow"

// TokenService mints and verifies the signed session credential. Possession
// of a validly signed, unexpired token is the sole authorization proof;
// there is no server-side revocation list.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Mint signs a session credential embedding whichever identity fields are
// known.
func (s *TokenService) Mint(id model.Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": tokenIssuer,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	if id.Email != "" {
		claims["email"] = id.Email
	}
	if id.Phone != "" {
		claims["phone"] = id.Phone
	}
	if id.Name != "" {
		claims["name"] = id.Name
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Resolve verifies a session credential and returns the identity it
// carries. Any verification failure, including expiry, yields an error the
// caller treats as "not logged in" rather than a fault.
func (s *TokenService) Resolve(tokenString string) (model.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return model.Identity{}, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, errors.New("invalid session claims")
	}

	id := model.Identity{}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if phone, ok := claims["phone"].(string); ok {
		id.Phone = phone
	}
	if name, ok := claims["name"].(string); ok {
		id.Name = name
	}
	if id.IsZero() {
		return model.Identity{}, errors.New("session token carries no identity")
	}
	return id, nil
}
