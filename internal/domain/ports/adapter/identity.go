package adapter

import (
	"context"

	"recharge-inventory/internal/domain/model"
)

// IdentityVerifier turns a bearer credential issued by the identity provider
// into the signed-in user. Invalid or expired credentials yield domain.ErrUnauthorized.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*model.User, error)
}
