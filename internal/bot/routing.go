package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/school-bot/internal/dialog"
	"github.com/Spok95/school-bot/internal/domain/economics"
	"github.com/Spok95/school-bot/internal/domain/instructors"
	"github.com/Spok95/school-bot/internal/domain/users"
)

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Кнопки нижней панели
	switch msg.Text {
	case "Брони":
		if b.requireRole(ctx, msg.From.ID, chatID, users.RoleAdmin) {
			b.showBookingsList(ctx, chatID)
		}
		return
	case "Статистика":
		if b.requireRole(ctx, msg.From.ID, chatID, users.RoleAdmin) {
			b.showStats(ctx, chatID)
		}
		return
	case "Выгрузка в Excel":
		if b.requireRole(ctx, msg.From.ID, chatID, users.RoleAdmin) {
			b.exportExcel(ctx, chatID)
		}
		return
	case "Новый пакет":
		if b.requireRole(ctx, msg.From.ID, chatID, users.RoleAdmin) {
			b.startNewPackage(ctx, chatID)
		}
		return
	case "Новая бронь":
		if b.requireRole(ctx, msg.From.ID, chatID, users.RoleAdmin) {
			b.startNewBooking(ctx, chatID)
		}
		return
	case "Новый реферал":
		if b.requireRole(ctx, msg.From.ID, chatID, users.RoleAdmin) {
			b.startNewReferral(ctx, chatID)
		}
		return
	case "Выплата инструктору":
		if b.requireRole(ctx, msg.From.ID, chatID, users.RoleAdmin) {
			b.startPayout(ctx, chatID)
		}
		return
	case "Мои занятия":
		if b.requireRole(ctx, msg.From.ID, chatID, users.RoleInstructor) {
			b.showMyLessons(ctx, chatID, msg.From.ID)
		}
		return
	case "Мой заработок":
		if b.requireRole(ctx, msg.From.ID, chatID, users.RoleInstructor) {
			b.showMyEarnings(ctx, chatID, msg.From.ID)
		}
		return
	}

	// Текстовый ввод по состоянию диалога
	st, _ := b.states.Get(ctx, chatID)
	switch st.State {
	case dialog.StateAwaitFIO:
		fio := strings.TrimSpace(msg.Text)
		if fio == "" {
			b.send(tgbotapi.NewMessage(chatID, "Введите ФИО текстом."))
			return
		}
		_ = b.states.Set(ctx, chatID, dialog.StateAwaitConfirm, dialog.Payload{"fio": fio})
		m := tgbotapi.NewMessage(chatID, fmt.Sprintf("Отправить заявку инструктора?\n\nФИО: %s", fio))
		m.ReplyMarkup = confirmKeyboard()
		b.send(m)

	default:
		if !adminFlowState(st.State) {
			return
		}
		// создание пакетов/броней/событий и денежные шаги — только админ
		if b.requireRole(ctx, msg.From.ID, chatID, users.RoleAdmin) {
			b.onAdminText(ctx, msg, st)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tgID := msg.From.ID

	switch msg.Command() {
	case "start":
		// не затираем роль, если пользователь уже существует
		existing, _ := b.users.GetByTelegramID(ctx, tgID)
		defaultRole := users.RoleInstructor
		if existing != nil && existing.Role != "" {
			defaultRole = existing.Role
		}

		u, err := b.users.UpsertFromTelegram(ctx, users.Telegram{
			ID: tgID, Username: msg.From.UserName,
			FirstName: msg.From.FirstName, LastName: msg.From.LastName,
		}, defaultRole)
		if err != nil {
			b.send(tgbotapi.NewMessage(chatID, "Ошибка: не удалось сохранить профиль"))
			return
		}

		// авто-админ
		if tgID == b.adminChat && (u.Role != users.RoleAdmin || u.Status != users.StatusApproved) {
			if u2, err2 := b.users.Approve(ctx, tgID, users.RoleAdmin); err2 == nil {
				u = u2
			}
		}

		switch {
		case u.Role == users.RoleAdmin && u.Status == users.StatusApproved:
			m := tgbotapi.NewMessage(chatID, "Привет, админ! Брони, статистика и выгрузки — в меню снизу.")
			m.ReplyMarkup = adminReplyKeyboard()
			b.send(m)
		case u.Role == users.RoleInstructor && u.Status == users.StatusApproved:
			m := tgbotapi.NewMessage(chatID, "Готово! Занятия и заработок — в меню снизу.")
			m.ReplyMarkup = instructorReplyKeyboard()
			b.send(m)
		case u.Status == users.StatusRejected:
			b.send(tgbotapi.NewMessage(chatID, "Заявка отклонена. Можно подать заново: введите ФИО."))
			_ = b.states.Set(ctx, chatID, dialog.StateAwaitFIO, dialog.Payload{})
		default:
			b.send(tgbotapi.NewMessage(chatID, "Для доступа введите ФИО — заявка уйдёт админу школы."))
			_ = b.states.Set(ctx, chatID, dialog.StateAwaitFIO, dialog.Payload{})
		}

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"Команды:\n/start — начать регистрацию/работу\n/help — помощь"))
	}
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	cb := upd.CallbackQuery
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	data := cb.Data

	switch {
	case data == "nav:cancel":
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, msgID, "Отменено.")
		_ = b.answerCallback(cb, "", false)

	case data == "nav:back":
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, msgID, "Ок, вернулись в меню.")
		_ = b.answerCallback(cb, "", false)

	case data == "rq:send":
		st, _ := b.states.Get(ctx, chatID)
		fio, _ := dialog.GetString(st.Payload, "fio")
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, msgID, "Заявка отправлена, ждите подтверждения.")
		m := tgbotapi.NewMessage(b.adminChat, fmt.Sprintf("Заявка инструктора:\n%s", fio))
		m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✅ Принять", fmt.Sprintf("adm:approve:%d", cb.From.ID)),
				tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", fmt.Sprintf("adm:reject:%d", cb.From.ID)),
			),
		)
		b.send(m)
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "adm:approve:"):
		tgID, _ := strconv.ParseInt(strings.TrimPrefix(data, "adm:approve:"), 10, 64)
		u, err := b.users.Approve(ctx, tgID, users.RoleInstructor)
		if err != nil {
			_ = b.answerCallback(cb, "Не удалось подтвердить", true)
			return
		}
		b.editTextAndClear(chatID, msgID, "Инструктор подтверждён.")
		b.send(tgbotapi.NewMessage(tgID, "Вас подтвердили! Жмите /start."))
		// у нового инструктора должен появиться профиль со ставкой
		if ins, _ := b.instructors.GetByTelegramID(ctx, tgID); ins == nil {
			name := strings.TrimSpace(u.FirstName + " " + u.LastName)
			if name == "" {
				name = u.Username
			}
			id, err := b.instructors.Create(ctx, instructors.Instructor{
				TelegramID: &tgID, Name: name,
				RateKind: economics.RateFixed, RateValue: 0, Active: true,
			})
			if err != nil {
				b.log.Error("create instructor", "telegram_id", tgID, "err", err)
			} else {
				_ = b.states.Set(ctx, chatID, dialog.StateInstrRate, dialog.Payload{"instr_id": float64(id)})
				b.send(tgbotapi.NewMessage(chatID,
					fmt.Sprintf("Задайте ставку для %s: «fixed 20» или «percentage 25».", name)))
			}
		}
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "adm:reject:"):
		tgID, _ := strconv.ParseInt(strings.TrimPrefix(data, "adm:reject:"), 10, 64)
		_ = b.users.Reject(ctx, tgID)
		b.editTextAndClear(chatID, msgID, "Заявка отклонена.")
		b.send(tgbotapi.NewMessage(tgID, "Заявку отклонили. Уточните детали у админа школы."))
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "bk:open:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "bk:open:"), 10, 64)
		if err != nil {
			_ = b.answerCallback(cb, "Не понял, какой букинг", true)
			return
		}
		b.showBookingCard(ctx, chatID, msgID, id)
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "bk:pay:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "bk:pay:"), 10, 64)
		if err != nil {
			_ = b.answerCallback(cb, "Не понял, какой букинг", true)
			return
		}
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Ссылка на оплату:\n%s", b.pay.PaymentURL(id))))
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "bk:paid:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "bk:paid:"), 10, 64)
		if err != nil {
			_ = b.answerCallback(cb, "Не понял, какой букинг", true)
			return
		}
		_ = b.states.Set(ctx, chatID, dialog.StatePayAmount, dialog.Payload{"booking_id": float64(id)})
		b.editTextAndClear(chatID, msgID, fmt.Sprintf("Букинг #%d — сумма оплаты:", id))
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "pk:pick:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "pk:pick:"), 10, 64)
		if err != nil {
			_ = b.answerCallback(cb, "Не понял, какой пакет", true)
			return
		}
		b.pickBookingPackage(ctx, chatID, msgID, id)
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "ls:new:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "ls:new:"), 10, 64)
		if err != nil {
			_ = b.answerCallback(cb, "Не понял, какой букинг", true)
			return
		}
		b.startLessonPick(ctx, chatID, msgID, id)
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "ls:pick:"):
		parts := strings.Split(strings.TrimPrefix(data, "ls:pick:"), ":")
		if len(parts) != 2 {
			_ = b.answerCallback(cb, "Не понял выбор", true)
			return
		}
		bookingID, err1 := strconv.ParseInt(parts[0], 10, 64)
		instrID, err2 := strconv.ParseInt(parts[1], 10, 64)
		if err1 != nil || err2 != nil {
			_ = b.answerCallback(cb, "Не понял выбор", true)
			return
		}
		b.createLesson(ctx, chatID, msgID, bookingID, instrID)
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "ev:new:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "ev:new:"), 10, 64)
		if err != nil {
			_ = b.answerCallback(cb, "Не понял, какой букинг", true)
			return
		}
		b.startEventPick(ctx, chatID, msgID, id)
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "ev:lesson:"):
		parts := strings.Split(strings.TrimPrefix(data, "ev:lesson:"), ":")
		if len(parts) != 2 {
			_ = b.answerCallback(cb, "Не понял выбор", true)
			return
		}
		bookingID, err1 := strconv.ParseInt(parts[0], 10, 64)
		lessonID, err2 := strconv.ParseInt(parts[1], 10, 64)
		if err1 != nil || err2 != nil {
			_ = b.answerCallback(cb, "Не понял выбор", true)
			return
		}
		_ = b.states.Set(ctx, chatID, dialog.StateEventDuration,
			dialog.Payload{"booking_id": float64(bookingID), "lesson_id": float64(lessonID)})
		b.editTextAndClear(chatID, msgID, "Длительность события в минутах:")
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "po:pick:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "po:pick:"), 10, 64)
		if err != nil {
			_ = b.answerCallback(cb, "Не понял, кто получатель", true)
			return
		}
		_ = b.states.Set(ctx, chatID, dialog.StatePayoutAmount, dialog.Payload{"instr_id": float64(id)})
		b.editTextAndClear(chatID, msgID, "Сумма выплаты:")
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "ev:mark:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "ev:mark:"), 10, 64)
		if err != nil {
			_ = b.answerCallback(cb, "Не понял, какое событие", true)
			return
		}
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
			fmt.Sprintf("Событие #%d — выберите результат:", id), eventStatusKeyboard(id))
		b.send(edit)
		_ = b.answerCallback(cb, "", false)

	case strings.HasPrefix(data, "ev:set:"):
		parts := strings.Split(strings.TrimPrefix(data, "ev:set:"), ":")
		if len(parts) != 2 {
			_ = b.answerCallback(cb, "Не понял отметку", true)
			return
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			_ = b.answerCallback(cb, "Не понял, какое событие", true)
			return
		}
		status := economics.EventStatus(parts[1])
		if err := b.bookings.SetEventStatus(ctx, id, status); err != nil {
			b.log.Error("set event status", "event_id", id, "err", err)
			_ = b.answerCallback(cb, "Не удалось сохранить", true)
			return
		}
		b.editTextAndClear(chatID, msgID, fmt.Sprintf("Событие #%d: %s", id, statusTitle(status)))
		_ = b.answerCallback(cb, "", false)
	}
}

// requireRole проверяет подтверждённую роль; иначе отвечает отказом.
func (b *Bot) requireRole(ctx context.Context, tgID, chatID int64, role users.Role) bool {
	u, _ := b.users.GetByTelegramID(ctx, tgID)
	if u == nil || u.Status != users.StatusApproved || u.Role != role {
		b.send(tgbotapi.NewMessage(chatID, "Доступ запрещён."))
		return false
	}
	return true
}
