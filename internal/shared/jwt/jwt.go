package jwt

import (
	"errors"
	"time"

	jw "github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = 7 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID      string `json:"userId"`
	AccountType string `json:"accountType"`
	jw.RegisteredClaims
}

// Signer issues and verifies HS256 tokens with a single shared secret.
type Signer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	if secret == "" {
		// dev fallback; replace in prod
		secret = "replace-this-with-a-strong-secret"
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Signer) Make(userID, accountType string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:      userID,
		AccountType: accountType,
		RegisteredClaims: jw.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jw.NewNumericDate(now),
			ExpiresAt: jw.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jw.NewWithClaims(jw.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse validates the signature and expiry and returns the claims.
// Tokens without a userId fall back to the subject claim.
func (s *Signer) Parse(tok string) (*Claims, error) {
	var c Claims
	t, err := jw.ParseWithClaims(tok, &c, func(t *jw.Token) (any, error) {
		return s.secret, nil
	}, jw.WithValidMethods([]string{jw.SigningMethodHS256.Alg()}), jw.WithTimeFunc(s.now))
	if err != nil || !t.Valid {
		return nil, ErrInvalidToken
	}
	if c.UserID == "" {
		c.UserID = c.Subject
	}
	if c.UserID == "" {
		return nil, ErrInvalidToken
	}
	return &c, nil
}
