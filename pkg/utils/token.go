package utils

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type SessionClaims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"user"`
	jwt.RegisteredClaims
}

func SignToken(secret string, ttl time.Duration, userID int64, username string) (string, error) {
	jti, err := GenerateRandomString(16)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := SessionClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", ErrorHandler(err, "failed to sign token")
	}
	return signed, nil
}

// ParseToken verifies an HS256 session token and returns the caller it names.
func ParseToken(secret, tokenString string) (Identity, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return Identity{}, err
	}
	if !parsed.Valid || claims.UserID <= 0 {
		return Identity{}, errors.New("invalid login token")
	}
	return Identity{UserID: claims.UserID, Username: claims.Username}, nil
}
