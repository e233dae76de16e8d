package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campusgrid/grading-api/internal/models"
	appErrors "github.com/campusgrid/grading-api/pkg/errors"
)

// TokenService verifies grader identity tokens issued by the platform's auth
// service. This API never issues tokens itself.
type TokenService struct {
	secret []byte
}

// NewTokenService constructs TokenService.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *TokenService) ValidateToken(tokenString string) (*models.GraderClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.GraderClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	claims, ok := token.Claims.(*models.GraderClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.GraderID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token missing grader identity")
	}
	return claims, nil
}
