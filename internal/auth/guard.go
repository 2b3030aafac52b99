package auth

import (
	"strings"

	"github.com/emilythestrangee/threadboard/backend/internal/apperr"
)

// Guard turns an Authorization header into an authenticated user id.
type Guard struct {
	tokens *TokenService
}

func NewGuard(tokens *TokenService) *Guard {
	return &Guard{tokens: tokens}
}

// Authenticate expects "Bearer <token>".
func (g *Guard) Authenticate(header string) (int, error) {
	if header == "" {
		return 0, apperr.Unauthenticated("Not authenticated")
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return 0, apperr.Unauthenticated("Invalid authentication credentials")
	}
	return g.tokens.Verify(token)
}

// AuthorizeOwner fails with Forbidden unless subjectID owns the entity.
func AuthorizeOwner(ownerID, subjectID int, msg string) error {
	if ownerID != subjectID {
		return apperr.Forbidden(msg)
	}
	return nil
}
