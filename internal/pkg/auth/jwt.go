package auth

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

var jwtKey []byte

func init() {
	key := os.Getenv("JWT_KEY")
	if key == "" {
		log.Println("WARNING: JWT_KEY is not set - using insecure fallback. Set JWT_KEY in env for production!")
		key = "insecure-development-key-change-me"
	}
	jwtKey = []byte(key)
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

func GenerateToken(userID uint, email string) (string, error) {
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(jwtKey)
}

func ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		return jwtKey, nil
	})

	if err != nil {
		return nil, err
	}

	if !tkn.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return claims, nil
}

// CurrentIdentity возвращает email исполнителя из bearer-токена запроса.
// Для анонимных запросов возвращает ошибку: вызывающая сторона сама
// решает, какой sentinel подставить.
func CurrentIdentity(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("no authorization header")
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")
	claims, err := ValidateToken(tokenStr)
	if err != nil {
		return "", err
	}

	return claims.Email, nil
}
