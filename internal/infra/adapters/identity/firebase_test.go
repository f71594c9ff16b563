//go:build !integration

package identity

import (
	"context"
	"errors"
	"io"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"

	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
)

type fakeVerifier struct {
	tok *auth.Token
	err error
}

func (f fakeVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return f.tok, f.err
}

func TestFirebaseVerifier(t *testing.T) {
	logger := zerolog.New(io.Discard)
	ctx := context.Background()

	cases := []struct {
		name     string
		claims   map[string]interface{}
		wantRole model.Role
	}{
		{"admin claim", map[string]interface{}{"role": "admin", "email": "a@example.com"}, model.RoleAdmin},
		{"vendor claim", map[string]interface{}{"role": "vendor"}, model.RoleVendor},
		{"missing claim", map[string]interface{}{}, model.RoleVendor},
		{"unknown role", map[string]interface{}{"role": "root"}, model.RoleVendor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := newFirebaseVerifier(fakeVerifier{tok: &auth.Token{UID: "uid-1", Claims: tc.claims}}, "", &logger)
			u, err := v.Verify(ctx, "token")
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if u.ID != "uid-1" || u.Role != tc.wantRole {
				t.Errorf("got %+v, want role %s", u, tc.wantRole)
			}
		})
	}

	t.Run("custom claim name", func(t *testing.T) {
		v := newFirebaseVerifier(fakeVerifier{tok: &auth.Token{UID: "u", Claims: map[string]interface{}{"inventoryRole": "admin"}}}, "inventoryRole", &logger)
		u, err := v.Verify(ctx, "token")
		if err != nil || !u.IsAdmin() {
			t.Errorf("expected admin, got %+v %v", u, err)
		}
	})

	t.Run("rejected token is unauthorized", func(t *testing.T) {
		v := newFirebaseVerifier(fakeVerifier{err: errors.New("expired")}, "", &logger)
		if _, err := v.Verify(ctx, "token"); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
		if _, err := v.Verify(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized for empty token, got %v", err)
		}
	})
}
