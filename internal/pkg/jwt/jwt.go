package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// TokenTypeService marks tokens issued to other platform services.
const TokenTypeService = "service"

var ErrInvalidServiceToken = errors.New("invalid service token")

type Service interface {
	GenerateServiceToken(subject string, ttl time.Duration) (token string, expiresAt int64, err error)
	ValidateServiceToken(tokenString string) (subject string, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// GenerateServiceToken signs a token identifying the calling service.
func (j *JWTService) GenerateServiceToken(subject string, ttl time.Duration) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(ttl).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"sub":  subject,
		"type": TokenTypeService,
		"exp":  expiresAt,
	})
	return tokenString, expiresAt, err
}

// ValidateServiceToken checks signature, expiry and token type and returns
// the calling service name.
func (j *JWTService) ValidateServiceToken(tokenString string) (subject string, err error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return "", err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeService {
		return "", ErrInvalidServiceToken
	}

	return token.Subject(), nil
}
