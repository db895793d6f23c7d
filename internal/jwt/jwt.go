// Package jwt provides functions for generating and validating JWTs
package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultKID  = "1"
	JWTDuration = time.Hour
)

// Generate builds an HS256 token for the given user id, tagged
// with a key id so secrets can be rotated.
func Generate(userID int64, secret []byte, kid string) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(JWTDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = kid

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token, checking the key id
// against the expected version.
func Validate(rawToken, kid string, secret []byte) (*jwt.Token, error) {
	keyFunc := func(token *jwt.Token) (any, error) {
		kidVal, ok := token.Header["kid"].(string)
		if !ok {
			return nil, fmt.Errorf("missing/invalid kid value")
		}
		if kidVal != kid {
			return nil, fmt.Errorf("verifying kid value, value=%q", kidVal)
		}
		return secret, nil
	}

	token, err := jwt.Parse(rawToken, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Subject extracts the user id from a validated token.
func Subject(token *jwt.Token) (int64, error) {
	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("extracting subject: %w", err)
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing subject %q: %w", sub, err)
	}
	return userID, nil
}
