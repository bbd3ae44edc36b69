package services

import (
	"context"
	"strings"

	"presenceHub/configs"
	"presenceHub/internal/errs"
	"presenceHub/internal/models"
	"presenceHub/internal/utils"
)

// AuthenticationService verifies pre-issued tokens. Issuance belongs to the
// identity provider; any non-success here means the connection is rejected.
type AuthenticationService struct {
	config *configs.Config
}

func NewAuthenticationService(config *configs.Config) *AuthenticationService {
	return &AuthenticationService{
		config: config,
	}
}

// VerifyToken validates a signed token against the shared secret. The context
// bounds the check so a stalled verification can never wedge the accept path.
func (as *AuthenticationService) VerifyToken(ctx context.Context, jwtToken string) (*models.Claims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if jwtToken == "" {
		return nil, errs.ErrUnauthorized
	}
	jwtToken = strings.TrimPrefix(jwtToken, "Bearer ")

	claims, err := utils.VerifyToken(jwtToken, as.config.JwtKey())
	if err != nil {
		return nil, errs.ErrInvalidToken
	}
	if claims.ID == 0 {
		return nil, errs.ErrUnauthorized
	}
	return claims, nil
}
