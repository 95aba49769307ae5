package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/barbearia-console/internal/models"
)

type Claims struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	LoginTime int64  `json:"loginTime"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 access token expiring with the session.
func IssueToken(secret string, sess models.Session) (string, error) {
	claims := Claims{
		Name:      sess.Name,
		Role:      sess.Role,
		LoginTime: sess.LoginTime.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.ID,
			IssuedAt:  jwt.NewNumericDate(sess.LoginTime),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("auth: invalid token")
	}
	return claims, nil
}
