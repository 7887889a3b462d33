package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
)

type Claims struct {
	UserID    string
	SessionID string
	Role      string
}

// Tokens signs HS256 session tokens. The token only names the session; the
// session record in redis decides whether it is still valid.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

func (t *Tokens) Issue(c Claims, now time.Time) (string, time.Time, error) {
	exp := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"sub":  c.UserID,
		"sid":  c.SessionID,
		"role": c.Role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (t *Tokens) Parse(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, httperr.Wrap(httperr.CodeUnauthenticated, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, httperr.ErrBusiness(httperr.CodeUnauthenticated)
	}

	userID, ok1 := claims["sub"].(string)
	sessionID, ok2 := claims["sid"].(string)
	role, _ := claims["role"].(string)
	if !ok1 || !ok2 || userID == "" || sessionID == "" {
		return Claims{}, httperr.ErrBusiness(httperr.CodeUnauthenticated)
	}

	return Claims{UserID: userID, SessionID: sessionID, Role: role}, nil
}
