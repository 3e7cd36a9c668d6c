package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/ougirez/coe-afectaciones/internal/pkg/constants"
	"github.com/spf13/viper"
)

// AuthTokenWrapper is the claim set carried by bearer tokens. ProvinciaID and
// CantonID are the user's own jurisdiction and seed the editor's selectors.
type AuthTokenWrapper struct {
	jwt.StandardClaims
	UserID      int64  `json:"user_id"`
	Username    string `json:"username,omitempty"`
	ProvinciaID int64  `json:"provincia_id,omitempty"`
	CantonID    int64  `json:"canton_id,omitempty"`
	Secret      string `json:"secret,omitempty"`
}

func GenerateAuthToken(token *AuthTokenWrapper, ttl time.Duration) (string, error) {
	return GenerateAuthTokenWithSecret(token, viper.GetString(constants.ViperSecretKey), ttl)
}

func GenerateAuthTokenWithSecret(token *AuthTokenWrapper, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("empty signing secret")
	}
	now := time.Now()
	token.IssuedAt = now.Unix()
	if ttl > 0 {
		token.ExpiresAt = now.Add(ttl).Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, token).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("SignedString: %w", err)
	}

	return signed, nil
}

func ParseAuthToken(tokenString string) (*AuthTokenWrapper, error) {
	return ParseAuthTokenWithSecret(tokenString, viper.GetString(constants.ViperSecretKey))
}

func ParseAuthTokenWithSecret(tokenString, secret string) (*AuthTokenWrapper, error) {
	claims := new(AuthTokenWrapper)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", constants.ErrUnauthorized, err.Error())
	}
	if !token.Valid {
		return nil, constants.ErrUnauthorized
	}

	return claims, nil
}

// PeekAuthToken reads the claims without verifying the signature. The CLI uses
// it to default the selectors; the server always verifies.
func PeekAuthToken(tokenString string) (*AuthTokenWrapper, error) {
	claims := new(AuthTokenWrapper)
	if _, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("ParseUnverified: %w", err)
	}
	return claims, nil
}
