package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers malformed, unsigned and signature-mismatched tokens.
var ErrInvalidToken = errors.New("invalid token")

// Token is the decoded content of a signed token.
type Token struct {
	Subject   string
	ExpiresAt time.Time
}

// ExpiredAt reports whether the token is no longer valid at now.
func (t Token) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// TokenEncoder signs subject and expiration into a compact token.
type TokenEncoder interface {
	Encode(subject string, expiration time.Time) (string, error)
}

// TokenDecoder verifies a token and returns its claims.
type TokenDecoder interface {
	Decode(token string) (Token, error)
}

// JWTCodec encodes and decodes HS256 JWTs carrying only sub and exp.
type JWTCodec struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTCodec builds a codec bound to the shared secret.
func NewJWTCodec(secret []byte) *JWTCodec {
	return &JWTCodec{
		secret: secret,
		// Expiry is the caller's decision, so registered claims are not validated here.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Encode signs the subject and expiration. Expiration is stored with second precision.
func (c *JWTCodec) Encode(subject string, expiration time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": jwt.NewNumericDate(expiration),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and extracts sub and exp. It does not reject expired tokens.
func (c *JWTCodec) Decode(tokenStr string) (Token, error) {
	claims := jwt.MapClaims{}
	if _, err := c.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}); err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Token{}, fmt.Errorf("%w: missing sub claim", ErrInvalidToken)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Token{}, fmt.Errorf("%w: missing exp claim", ErrInvalidToken)
	}

	return Token{Subject: sub, ExpiresAt: exp.Time}, nil
}
