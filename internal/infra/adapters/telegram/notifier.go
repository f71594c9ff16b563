// Package telegram announces completed sales in a Telegram chat.
package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"recharge-inventory/internal/config"
	"recharge-inventory/internal/domain/model"
	"recharge-inventory/internal/domain/ports/adapter"
)

var _ adapter.SaleNotifier = (*SaleNotifier)(nil)

// sender is the slice of *tgbotapi.BotAPI used here.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// SaleNotifier posts one message per sale to a fixed chat.
type SaleNotifier struct {
	bot    sender
	chatID int64
	tr     adapter.Translator
	log    *zerolog.Logger
}

func NewSaleNotifier(cfg config.TelegramConfig, tr adapter.Translator, logger *zerolog.Logger) (*SaleNotifier, error) {
	if cfg.Token == "" || cfg.ChatID == 0 {
		return nil, errors.New("telegram token and chat id are required")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return newSaleNotifier(bot, cfg.ChatID, tr, logger), nil
}

func newSaleNotifier(bot sender, chatID int64, tr adapter.Translator, logger *zerolog.Logger) *SaleNotifier {
	return &SaleNotifier{bot: bot, chatID: chatID, tr: tr, log: logger}
}

func (n *SaleNotifier) NotifySale(ctx context.Context, t *model.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, n.Message(t))
	if _, err := n.bot.Send(msg); err != nil {
		return err
	}
	n.log.Debug().Str("code_id", t.CodeID).Int64("chat_id", n.chatID).Msg("sale notification sent")
	return nil
}

// Message renders the sale announcement in the configured locale.
func (n *SaleNotifier) Message(t *model.Transaction) string {
	return n.tr.T("notify.sale",
		t.Code,
		n.tr.T("duration."+string(t.Type)),
		t.Platform,
		t.SoldTo,
		amount(t.SalePrice),
		amount(t.Profit),
	)
}

func amount(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

var _ adapter.SaleNotifier = NoopNotifier{}

// NoopNotifier is used when Telegram is not configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifySale(context.Context, *model.Transaction) error { return nil }
