//go:build !integration

package web

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"recharge-inventory/internal/domain"
	"recharge-inventory/internal/domain/model"
)

func TestAuthManager(t *testing.T) {
	ctx := context.Background()
	a := NewAuthManager("secret", "recharge-inventory", false, "", time.Hour)
	u := &model.User{ID: "u1", Email: "a@example.com", Name: "Ann", Role: model.RoleAdmin}

	t.Run("should round trip identity claims", func(t *testing.T) {
		tok, err := a.Mint(u)
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		got, err := a.Verify(ctx, tok)
		if err != nil {
			t.Fatalf("verify: %v", err)
		}
		if *got != *u {
			t.Errorf("got %+v, want %+v", got, u)
		}
	})

	t.Run("should reject tokens signed with another secret", func(t *testing.T) {
		other := NewAuthManager("other", "recharge-inventory", false, "", time.Hour)
		tok, _ := other.Mint(u)
		if _, err := a.Verify(ctx, tok); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("should reject expired tokens", func(t *testing.T) {
		expired := NewAuthManager("secret", "recharge-inventory", false, "", -time.Minute)
		tok, _ := expired.Mint(u)
		if _, err := a.Verify(ctx, tok); !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("should refuse to mint for unknown roles", func(t *testing.T) {
		if _, err := a.Mint(&model.User{ID: "x", Role: "root"}); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("should read bearer before cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer abc")
		if TokenFromRequest(req) != "abc" {
			t.Error("bearer token not read")
		}
	})

	t.Run("should scope the session cookie to the configured domain", func(t *testing.T) {
		secure := NewAuthManager("secret", "recharge-inventory", true, "shop.example.com", time.Hour)
		rec := httptest.NewRecorder()
		secure.SetCookie(rec, "tok")
		cookies := rec.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("expected one cookie, got %d", len(cookies))
		}
		c := cookies[0]
		if c.Value != "tok" || c.Domain != "shop.example.com" || !c.Secure || c.MaxAge != 3600 {
			t.Errorf("unexpected cookie %+v", c)
		}
	})
}
