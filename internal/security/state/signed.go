package state

import (
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// stateClaims is the canonical signed form of a Payload. iat/exp ride in the
// registered claims; the identity fields keep their wire names.
type stateClaims struct {
	ClientID    string `json:"client_id"`
	PhoneNumber string `json:"phone_number"`
	jwtv5.RegisteredClaims
}

// SignedCodec signs payloads with HMAC-SHA256 under a server-held secret.
// The MAC comparison inside the verifier is constant-time.
type SignedCodec struct {
	secret []byte
	ttl    time.Duration
}

// NewSigned creates a SignedCodec. ttl bounds the lifetime of a token; a
// callback arriving later than issued_at+ttl is rejected as invalid.
func NewSigned(secret string, ttl time.Duration) *SignedCodec {
	return &SignedCodec{secret: []byte(secret), ttl: ttl}
}

func (c *SignedCodec) Strict() bool { return true }

// Encode serializes and signs the payload. A zero IssuedAt is stamped with
// the current time.
func (c *SignedCodec) Encode(p Payload) (string, error) {
	issued := p.IssuedAt
	if issued == 0 {
		issued = time.Now().Unix()
	}
	at := time.Unix(issued, 0)

	claims := stateClaims{
		ClientID:    p.ClientID,
		PhoneNumber: p.PhoneNumber,
		RegisteredClaims: jwtv5.RegisteredClaims{
			IssuedAt:  jwtv5.NewNumericDate(at),
			ExpiresAt: jwtv5.NewNumericDate(at.Add(c.ttl)),
		},
	}
	return jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the token and returns the original payload. Every failure
// mode (parse error, algorithm confusion, signature mismatch, expiry)
// collapses into ErrInvalidState so the response leaks nothing about which
// check failed.
func (c *SignedCodec) Decode(token string) (Payload, error) {
	if token == "" {
		return Payload{}, ErrInvalidState
	}

	var claims stateClaims
	parsed, err := jwtv5.ParseWithClaims(token, &claims,
		func(t *jwtv5.Token) (any, error) { return c.secret, nil },
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithIssuedAt(),
	)
	if err != nil || !parsed.Valid {
		return Payload{}, ErrInvalidState
	}

	var issued int64
	if claims.IssuedAt != nil {
		issued = claims.IssuedAt.Unix()
	}
	return Payload{
		ClientID:    claims.ClientID,
		PhoneNumber: claims.PhoneNumber,
		IssuedAt:    issued,
	}, nil
}
