package bot

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/school-bot/internal/dialog"
	"github.com/Spok95/school-bot/internal/domain/bookings"
	"github.com/Spok95/school-bot/internal/domain/instructors"
	"github.com/Spok95/school-bot/internal/domain/packages"
	"github.com/Spok95/school-bot/internal/domain/payments"
	"github.com/Spok95/school-bot/internal/domain/referrals"
	"github.com/Spok95/school-bot/internal/domain/users"
	paysvc "github.com/Spok95/school-bot/internal/infra/payments"
	"github.com/Spok95/school-bot/internal/infra/metrics"
)

type Bot struct {
	api         *tgbotapi.BotAPI
	log         *slog.Logger
	users       *users.Repo
	states      *dialog.Repo
	adminChat   int64
	bookings    *bookings.Repo
	instructors *instructors.Repo
	payments    *payments.Repo
	packages    *packages.Repo
	referrals   *referrals.Repo
	pay         *paysvc.Service
}

func New(api *tgbotapi.BotAPI, log *slog.Logger,
	usersRepo *users.Repo, statesRepo *dialog.Repo,
	adminChatID int64, bookingsRepo *bookings.Repo,
	instructorsRepo *instructors.Repo, paymentsRepo *payments.Repo,
	packagesRepo *packages.Repo, referralsRepo *referrals.Repo,
	pay *paysvc.Service) *Bot {

	return &Bot{
		api: api, log: log, users: usersRepo, states: statesRepo,
		adminChat: adminChatID, bookings: bookingsRepo,
		instructors: instructorsRepo, payments: paymentsRepo,
		packages: packagesRepo, referrals: referralsRepo, pay: pay,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			metrics.BotUpdates.Inc()
			if upd.Message != nil {
				b.onMessage(ctx, upd)
			} else if upd.CallbackQuery != nil {
				b.onCallback(ctx, upd)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string, alert bool) error {
	resp := tgbotapi.NewCallback(cb.ID, text)
	resp.ShowAlert = alert
	_, err := b.api.Request(resp)
	return err
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}
