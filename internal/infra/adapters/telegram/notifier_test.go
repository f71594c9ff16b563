//go:build !integration

package telegram

import (
	"context"
	"errors"
	"io"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/infra/i18n"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestSaleNotifier(t *testing.T) {
	logger := zerolog.New(io.Discard)
	tx := &model.Transaction{
		ID: "c1", CodeID: "c1", Code: "ABC123", Type: model.CodeTypeOneMonth, Platform: "Envato",
		SalePrice: 55000, Profit: 10000, SoldTo: "Jean",
	}

	t.Run("should send the localized message to the chat", func(t *testing.T) {
		fs := &fakeSender{}
		n := newSaleNotifier(fs, 42, i18n.MustDefault(), &logger)
		if err := n.NotifySale(context.Background(), tx); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		if len(fs.sent) != 1 || fs.sent[0].ChatID != 42 {
			t.Fatalf("unexpected sends %+v", fs.sent)
		}
		want := "Sold ABC123 (1 month, Envato) to Jean for 55000, profit 10000"
		if fs.sent[0].Text != want {
			t.Errorf("got %q, want %q", fs.sent[0].Text, want)
		}
	})

	t.Run("should surface send failures", func(t *testing.T) {
		n := newSaleNotifier(&fakeSender{err: errors.New("down")}, 42, i18n.MustDefault(), &logger)
		if err := n.NotifySale(context.Background(), tx); err == nil {
			t.Error("expected error")
		}
	})
}
