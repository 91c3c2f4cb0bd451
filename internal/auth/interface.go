package auth

import (
	"sitework/internal/domain/models"
)

// TokenVerifier validates bearer tokens and extracts claims. The production
// implementation fetches signing keys from a JWKS endpoint; tests substitute
// a stub.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*models.AccessClaims, error)
	Close() error
}
