package exchange

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ShareClaims identify who shared which presets in an export envelope.
type ShareClaims struct {
	PresetIDs []string `json:"presetIds"`
	Author    string   `json:"author,omitempty"`
	jwt.RegisteredClaims
}

// MintShareToken signs a claim over the shared preset ids.
func (s *Service) MintShareToken(ids []string, author string) (string, error) {
	claims := ShareClaims{
		PresetIDs: ids,
		Author:    author,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   application,
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signKey)
	if err != nil {
		return "", fmt.Errorf("sign share token: %w", err)
	}
	return signed, nil
}

// VerifyShareToken checks the signature and returns the embedded claims.
func (s *Service) VerifyShareToken(tokenString string) (*ShareClaims, error) {
	claims := &ShareClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(_ *jwt.Token) (any, error) { return s.signKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(application),
	)
	if err != nil {
		return nil, fmt.Errorf("verify share token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("share token is not valid")
	}
	return claims, nil
}
