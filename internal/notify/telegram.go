// Package notify pushes booking events to the owner's Telegram chat.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"manzil/internal/booking"
	"manzil/internal/models"
)

// Notifier sends owner notifications. A nil *TelegramNotifier is a valid
// no-op implementation.
type Notifier interface {
	BookingCreated(ctx context.Context, b *models.Booking, unitName string)
	BookingCancelled(ctx context.Context, b *models.Booking, unitName string)
}

// TelegramNotifier delivers notifications through a Telegram bot to one
// owner chat. Delivery failures are logged, never propagated; the booking
// flow does not depend on Telegram being up.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zerolog.Logger
}

// NewTelegramNotifier connects the bot.
func NewTelegramNotifier(token string, chatID int64, debug bool, log *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram connect: %w", err)
	}
	bot.Debug = debug
	log.Info().Str("bot", bot.Self.UserName).Msg("telegram notifier connected")
	return &TelegramNotifier{bot: bot, chatID: chatID, log: log}, nil
}

func (n *TelegramNotifier) send(text string) {
	if n == nil || n.bot == nil {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Error().Err(err).Msg("failed to send telegram notification")
	}
}

// BookingCreated announces a new booking.
func (n *TelegramNotifier) BookingCreated(_ context.Context, b *models.Booking, unitName string) {
	n.send(formatBookingCreated(b, unitName))
}

// BookingCancelled announces a cancellation.
func (n *TelegramNotifier) BookingCancelled(_ context.Context, b *models.Booking, unitName string) {
	n.send(formatBookingCancelled(b, unitName))
}

func formatBookingCreated(b *models.Booking, unitName string) string {
	msg := fmt.Sprintf("✅ New booking #%d\n\n🏠 %s\n👤 %s\n📅 %s (%d nights)\n💰 %d",
		b.ID, unitName, b.TenantName,
		booking.FormatRange(b.StartDate, b.EndDate, "en"),
		b.Nights, b.TotalAmount,
	)
	if b.DepositTaken {
		msg += fmt.Sprintf("\n🔐 Deposit: %d (refundable)", b.DepositAmount)
	}
	return msg
}

func formatBookingCancelled(b *models.Booking, unitName string) string {
	return fmt.Sprintf("❌ Booking #%d cancelled\n\n🏠 %s\n👤 %s\n📅 %s",
		b.ID, unitName, b.TenantName,
		booking.FormatRange(b.StartDate, b.EndDate, "en"),
	)
}
