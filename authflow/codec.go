package authflow

import (
	"crypto/sha256"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

const codecKeyInfo = "retro-poster/authflow/v1"

type flowClaims struct {
	State        string   `json:"st"`
	CodeVerifier string   `json:"cv"`
	RedirectURI  string   `json:"ru,omitempty"`
	Scopes       []string `json:"sc,omitempty"`
	jwt.RegisteredClaims
}

// Codec seals a Request into an HS256 token so the verifier can travel in a cookie without
// a server-side table. Expiry is checked by the Service, not here.
type Codec struct {
	key []byte
}

// NewCodec derives the signing key from secret with HKDF.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("[NewCodec] secret is required")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(codecKeyInfo)), key); err != nil {
		return nil, errors.Wrap(err, "[NewCodec] deriving key")
	}
	return &Codec{key: key}, nil
}

// Encode signs req.
func (c *Codec) Encode(req Request) (string, error) {
	claims := flowClaims{
		State:        req.State,
		CodeVerifier: req.CodeVerifier,
		RedirectURI:  req.RedirectURI,
		Scopes:       req.Scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(req.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(req.ExpiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", errors.Wrap(err, "[Codec Encode] signing")
	}
	return signed, nil
}

// Decode verifies the signature and returns the sealed Request, expired or not.
func (c *Codec) Decode(token string) (Request, error) {
	claims := &flowClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if err != nil {
		return Request{}, errors.Wrap(err, "[Codec Decode] invalid token")
	}
	if claims.State == "" || claims.CodeVerifier == "" || claims.ExpiresAt == nil {
		return Request{}, errors.New("[Codec Decode] token is missing fields")
	}

	req := Request{
		State:        claims.State,
		CodeVerifier: claims.CodeVerifier,
		RedirectURI:  claims.RedirectURI,
		Scopes:       claims.Scopes,
		ExpiresAt:    claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		req.CreatedAt = claims.IssuedAt.Time
	}
	return req, nil
}

// truncate drops sub-second precision, which NumericDate does not keep.
func truncate(t time.Time) time.Time {
	return t.Truncate(time.Second)
}
