package auth

import (
	"crypto/rand"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues and validates the signed session tokens stored in the
// auth_token cookie. HS256 with a server-side secret; the subject claim is the
// user id.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	key := []byte(secret)
	if len(key) == 0 {
		// Ephemeral key keeps local development working; sessions die on restart
		key = make([]byte, 32)
		_, _ = rand.Read(key)
	}
	return &TokenManager{secret: key, ttl: ttl}
}

func (m *TokenManager) Generate(userID int64, username string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    "survey-backend",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses the token and returns the bound user id and username.
func (m *TokenManager) Validate(tokenString string) (int64, string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return 0, "", err
	}
	if !token.Valid {
		return 0, "", jwt.ErrTokenInvalidClaims
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, "", jwt.ErrTokenInvalidSubject
	}
	return userID, claims.Username, nil
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}
