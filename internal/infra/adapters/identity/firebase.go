// Package identity resolves bearer credentials into signed-in users.
package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"recharge-inventory/internal/config"
	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/adapter"
	"recharge-inventory/internal/infra/logging"
)

var _ adapter.IdentityVerifier = (*FirebaseVerifier)(nil)

// tokenVerifier is the slice of *auth.Client used here.
type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier checks Firebase Auth ID tokens. The role comes from a
// custom claim; users without one are vendors.
type FirebaseVerifier struct {
	client    tokenVerifier
	roleClaim string
	log       *zerolog.Logger
}

func NewFirebaseVerifier(ctx context.Context, fb config.FirebaseConfig, roleClaim string, logger *zerolog.Logger) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if fb.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(fb.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: fb.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting auth client: %w", err)
	}
	return newFirebaseVerifier(client, roleClaim, logger), nil
}

func newFirebaseVerifier(client tokenVerifier, roleClaim string, logger *zerolog.Logger) *FirebaseVerifier {
	if roleClaim == "" {
		roleClaim = "role"
	}
	return &FirebaseVerifier{client: client, roleClaim: roleClaim, log: logger}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		v.log.Debug().Err(err).Str("token", logging.Redact(token, false)).Msg("firebase token rejected")
		return nil, domain.ErrUnauthorized
	}
	u := &model.User{ID: tok.UID, Role: model.RoleVendor}
	if s, ok := tok.Claims["email"].(string); ok {
		u.Email = s
	}
	if s, ok := tok.Claims["name"].(string); ok {
		u.Name = s
	}
	if s, ok := tok.Claims[v.roleClaim].(string); ok {
		if r := model.Role(s); r.Valid() {
			u.Role = r
		}
	}
	return u, nil
}
