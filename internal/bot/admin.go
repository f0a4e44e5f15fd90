package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/school-bot/internal/dialog"
	"github.com/Spok95/school-bot/internal/domain/bookings"
	"github.com/Spok95/school-bot/internal/domain/economics"
	"github.com/Spok95/school-bot/internal/domain/packages"
	"github.com/Spok95/school-bot/internal/domain/referrals"
)

// parsePositiveInt — целое > 0.
func parsePositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// parseMoney — сумма > 0, запятая как разделитель допустима.
func parseMoney(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// parsePriceSpec — «50» или «50 USD»; валюта по умолчанию RUB.
func parsePriceSpec(s string) (float64, string, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return 0, "", false
	}
	price, ok := parseMoney(fields[0])
	if !ok {
		return 0, "", false
	}
	cur := "RUB"
	if len(fields) == 2 {
		cur = strings.ToUpper(fields[1])
	}
	return price, cur, true
}

// parseRateSpec — «fixed 20» или «percentage 25»; процент в пределах 0..100.
func parseRateSpec(s string) (economics.Rate, bool) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) != 2 {
		return economics.Rate{}, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(fields[1], ",", "."), 64)
	if err != nil || v < 0 {
		return economics.Rate{}, false
	}
	kind := economics.RateKind(fields[0])
	if kind == economics.RatePercentage && v > 100 {
		return economics.Rate{}, false
	}
	if kind != economics.RateFixed && kind != economics.RatePercentage {
		return economics.Rate{}, false
	}
	return economics.Rate{Kind: kind, Value: v}, true
}

// adminFlowState — состояния, текст в которых обрабатывает onAdminText.
func adminFlowState(s dialog.State) bool {
	switch s {
	case dialog.StatePkgName, dialog.StatePkgPrice, dialog.StatePkgTarget,
		dialog.StateBookContact, dialog.StateBookParticipants, dialog.StateBookReferral,
		dialog.StateEventDuration, dialog.StatePayAmount, dialog.StatePayoutAmount,
		dialog.StateRefNew, dialog.StateInstrRate:
		return true
	}
	return false
}

func (b *Bot) startNewPackage(ctx context.Context, chatID int64) {
	_ = b.states.Set(ctx, chatID, dialog.StatePkgName, dialog.Payload{})
	m := tgbotapi.NewMessage(chatID, "Название пакета:")
	m.ReplyMarkup = navKeyboard(false, true)
	b.send(m)
}

func (b *Bot) startNewBooking(ctx context.Context, chatID int64) {
	ps, err := b.packages.ListActive(ctx)
	if err != nil {
		b.log.Error("list packages", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить пакеты."))
		return
	}
	if len(ps) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Активных пакетов нет. Сначала создайте пакет."))
		return
	}
	m := tgbotapi.NewMessage(chatID, "Выберите пакет для новой брони:")
	m.ReplyMarkup = packagePickKeyboard(ps)
	b.send(m)
}

func (b *Bot) startNewReferral(ctx context.Context, chatID int64) {
	_ = b.states.Set(ctx, chatID, dialog.StateRefNew, dialog.Payload{})
	m := tgbotapi.NewMessage(chatID,
		"Код и ставка одной строкой:\n«SEA10 fixed 20» — валюта за час букинга\n«SEA10 percentage 25» — процент выручки букинга")
	m.ReplyMarkup = navKeyboard(false, true)
	b.send(m)
}

func (b *Bot) startPayout(ctx context.Context, chatID int64) {
	ins, err := b.instructors.ListActive(ctx)
	if err != nil {
		b.log.Error("list instructors", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить инструкторов."))
		return
	}
	if len(ins) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Активных инструкторов нет."))
		return
	}
	m := tgbotapi.NewMessage(chatID, "Кому выплата?")
	m.ReplyMarkup = instructorPickKeyboard(ins, "po:pick")
	b.send(m)
}

// openBookingButton — сообщение после текстового шага: карточку редактировать
// нечего, даём кнопку открыть её заново.
func (b *Bot) openBookingButton(chatID int64, text string, bookingID int64) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Открыть бронь", fmt.Sprintf("bk:open:%d", bookingID)),
		),
	)
	b.send(m)
}

// onAdminText — текстовые шаги админских диалогов создания.
// Возвращает false, если состояние не отсюда.
func (b *Bot) onAdminText(ctx context.Context, msg *tgbotapi.Message, st *dialog.Item) bool {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch st.State {
	case dialog.StatePkgName:
		if text == "" {
			b.send(tgbotapi.NewMessage(chatID, "Название не может быть пустым. Введите ещё раз."))
			return true
		}
		_ = b.states.Set(ctx, chatID, dialog.StatePkgPrice, dialog.Payload{"pkg_name": text})
		b.send(tgbotapi.NewMessage(chatID, "Цена за участника: «50» или «50 USD» (по умолчанию RUB)."))

	case dialog.StatePkgPrice:
		price, cur, ok := parsePriceSpec(text)
		if !ok {
			b.send(tgbotapi.NewMessage(chatID, "Не понял цену. Формат: «50» или «50 USD»."))
			return true
		}
		p := st.Payload
		p["pkg_price"] = price
		p["pkg_currency"] = cur
		_ = b.states.Set(ctx, chatID, dialog.StatePkgTarget, p)
		b.send(tgbotapi.NewMessage(chatID, "Плановая длительность пакета в минутах:"))

	case dialog.StatePkgTarget:
		target, ok := parsePositiveInt(text)
		if !ok {
			b.send(tgbotapi.NewMessage(chatID, "Нужно целое число минут больше нуля."))
			return true
		}
		name, _ := dialog.GetString(st.Payload, "pkg_name")
		cur, _ := dialog.GetString(st.Payload, "pkg_currency")
		price, _ := st.Payload["pkg_price"].(float64)
		id, err := b.packages.Create(ctx, packages.SchoolPackage{
			Name: name, PriceUnit: price, Currency: cur,
			DurationTargetMin: target, Active: true,
		})
		if err != nil {
			b.log.Error("create package", "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Ошибка при создании пакета."))
			return true
		}
		_ = b.states.Reset(ctx, chatID)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Пакет «%s» (#%d) создан.", name, id)))

	case dialog.StateBookContact:
		if text == "" {
			b.send(tgbotapi.NewMessage(chatID, "Контакт не может быть пустым. Введите ещё раз."))
			return true
		}
		p := st.Payload
		p["contact"] = text
		_ = b.states.Set(ctx, chatID, dialog.StateBookParticipants, p)
		b.send(tgbotapi.NewMessage(chatID, "Сколько участников?"))

	case dialog.StateBookParticipants:
		n, ok := parsePositiveInt(text)
		if !ok {
			b.send(tgbotapi.NewMessage(chatID, "Нужно целое число участников больше нуля."))
			return true
		}
		p := st.Payload
		p["participants"] = float64(n)
		_ = b.states.Set(ctx, chatID, dialog.StateBookReferral, p)
		b.send(tgbotapi.NewMessage(chatID, "Реферальный код или «-», если без него:"))

	case dialog.StateBookReferral:
		b.finishBookingCreate(ctx, chatID, st.Payload, text)

	case dialog.StateEventDuration:
		dur, ok := parsePositiveInt(text)
		if !ok {
			b.send(tgbotapi.NewMessage(chatID, "Нужно целое число минут больше нуля."))
			return true
		}
		b.finishEventCreate(ctx, chatID, st.Payload, dur)

	case dialog.StatePayAmount:
		amount, ok := parseMoney(text)
		if !ok {
			b.send(tgbotapi.NewMessage(chatID, "Не понял сумму. Пример: «1500» или «1500,50»."))
			return true
		}
		bookingID, _ := dialog.GetInt64(st.Payload, "booking_id")
		if _, err := b.payments.AddBookingPayment(ctx, bookingID, amount); err != nil {
			b.log.Error("add booking payment", "booking_id", bookingID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Не удалось записать оплату."))
			return true
		}
		_ = b.states.Reset(ctx, chatID)
		b.openBookingButton(chatID, fmt.Sprintf("Оплата %.2f записана.", amount), bookingID)

	case dialog.StatePayoutAmount:
		amount, ok := parseMoney(text)
		if !ok {
			b.send(tgbotapi.NewMessage(chatID, "Не понял сумму. Пример: «1500» или «1500,50»."))
			return true
		}
		instrID, _ := dialog.GetInt64(st.Payload, "instr_id")
		if _, err := b.payments.AddInstructorPayout(ctx, instrID, amount); err != nil {
			b.log.Error("add payout", "instructor_id", instrID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Не удалось записать выплату."))
			return true
		}
		_ = b.states.Reset(ctx, chatID)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Выплата %.2f записана.", amount)))

	case dialog.StateRefNew:
		fields := strings.Fields(text)
		if len(fields) != 3 {
			b.send(tgbotapi.NewMessage(chatID, "Формат: «КОД fixed 20» или «КОД percentage 25»."))
			return true
		}
		rate, ok := parseRateSpec(fields[1] + " " + fields[2])
		if !ok {
			b.send(tgbotapi.NewMessage(chatID, "Не понял ставку. «fixed 20» или «percentage 25» (процент 0..100)."))
			return true
		}
		code := strings.ToUpper(fields[0])
		id, err := b.referrals.Create(ctx, referrals.Referral{
			Code: code, Kind: rate.Kind, Value: rate.Value, Active: true,
		})
		if err != nil {
			b.log.Error("create referral", "code", code, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Ошибка при создании кода."))
			return true
		}
		_ = b.states.Reset(ctx, chatID)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Код %s (#%d) создан, ставка %s.", code, id, rate.Label())))

	case dialog.StateInstrRate:
		rate, ok := parseRateSpec(text)
		if !ok {
			b.send(tgbotapi.NewMessage(chatID, "Не понял ставку. «fixed 20» или «percentage 25» (процент 0..100)."))
			return true
		}
		instrID, _ := dialog.GetInt64(st.Payload, "instr_id")
		if err := b.instructors.SetRate(ctx, instrID, rate); err != nil {
			b.log.Error("set instructor rate", "instructor_id", instrID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Не удалось сохранить ставку."))
			return true
		}
		_ = b.states.Reset(ctx, chatID)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("Ставка сохранена: %s. Новые занятия получат её снимком.", rate.Label())))

	default:
		return false
	}
	return true
}

// pickBookingPackage — пакет выбран, дальше контакт клиента текстом.
func (b *Bot) pickBookingPackage(ctx context.Context, chatID int64, msgID int, pkgID int64) {
	p, err := b.packages.GetByID(ctx, pkgID)
	if err != nil || p == nil {
		b.editTextAndClear(chatID, msgID, "Пакет не найден.")
		return
	}
	_ = b.states.Set(ctx, chatID, dialog.StateBookContact, dialog.Payload{"pkg_id": float64(pkgID)})
	b.editTextAndClear(chatID, msgID, fmt.Sprintf("Пакет «%s». Контакт клиента (ФИО):", p.Name))
}

// startLessonPick — выбор инструктора для нового занятия букинга.
func (b *Bot) startLessonPick(ctx context.Context, chatID int64, msgID int, bookingID int64) {
	ins, err := b.instructors.ListActive(ctx)
	if err != nil {
		b.log.Error("list instructors", "err", err)
		b.editTextAndClear(chatID, msgID, "Не удалось загрузить инструкторов.")
		return
	}
	if len(ins) == 0 {
		b.editTextAndClear(chatID, msgID, "Активных инструкторов нет.")
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
		"Кто ведёт занятие?", instructorPickKeyboard(ins, fmt.Sprintf("ls:pick:%d", bookingID)))
	b.send(edit)
}

// createLesson — занятие со снимком текущей ставки инструктора.
func (b *Bot) createLesson(ctx context.Context, chatID int64, msgID int, bookingID, instrID int64) {
	ins, err := b.instructors.GetByID(ctx, instrID)
	if err != nil || ins == nil {
		b.editTextAndClear(chatID, msgID, "Инструктор не найден.")
		return
	}
	if _, err := b.bookings.CreateLesson(ctx, bookingID, ins.ID, ins.Rate()); err != nil {
		b.log.Error("create lesson", "booking_id", bookingID, "err", err)
		b.editTextAndClear(chatID, msgID, "Ошибка при создании занятия.")
		return
	}
	b.showBookingCard(ctx, chatID, msgID, bookingID)
}

// startEventPick — в какое занятие букинга добавить событие.
func (b *Bot) startEventPick(ctx context.Context, chatID int64, msgID int, bookingID int64) {
	tree, err := b.bookings.GetTree(ctx, bookingID)
	if err != nil || tree == nil {
		b.editTextAndClear(chatID, msgID, "Букинг не найден.")
		return
	}
	if len(tree.Lessons) == 0 {
		b.editTextAndClear(chatID, msgID, "В букинге нет занятий. Сначала добавьте занятие.")
		return
	}
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID,
		"В какое занятие добавить событие?", lessonPickKeyboard(bookingID, tree.Lessons))
	b.send(edit)
}

// finishBookingCreate — последний шаг: заявка + букинг из накопленного payload.
func (b *Bot) finishBookingCreate(ctx context.Context, chatID int64, p dialog.Payload, refCode string) {
	var refID *int64
	if refCode != "-" {
		ref, err := b.referrals.GetByCode(ctx, strings.ToUpper(refCode))
		if err != nil || ref == nil {
			b.send(tgbotapi.NewMessage(chatID, "Код не найден. Введите другой или «-»."))
			return
		}
		refID = &ref.ID
	}

	pkgID, _ := dialog.GetInt64(p, "pkg_id")
	contact, _ := dialog.GetString(p, "contact")
	participants, _ := dialog.GetInt64(p, "participants")

	reqID, err := b.packages.CreateRequest(ctx, packages.StudentPackage{
		PackageID: pkgID, ReferralID: refID, ContactName: contact,
		Participants: int(participants), Status: packages.RequestPending,
	})
	if err != nil {
		b.log.Error("create request", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Ошибка при создании заявки."))
		return
	}

	bookingID, err := b.bookings.Create(ctx, reqID, int(participants))
	if err != nil {
		b.log.Error("create booking", "request_id", reqID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Ошибка при создании брони."))
		return
	}
	// заявка считается принятой, когда под неё заведён букинг
	if err := b.packages.SetRequestStatus(ctx, reqID, packages.RequestAccepted); err != nil {
		b.log.Error("accept request", "request_id", reqID, "err", err)
	}

	_ = b.states.Reset(ctx, chatID)
	b.openBookingButton(chatID, fmt.Sprintf("Бронь #%d создана (%s).", bookingID, contact), bookingID)
}

// finishEventCreate — событие планируется «на сейчас»; снаряжение берём
// из пакета букинга: категория пакета, количество по числу участников.
func (b *Bot) finishEventCreate(ctx context.Context, chatID int64, p dialog.Payload, durationMin int) {
	bookingID, _ := dialog.GetInt64(p, "booking_id")
	lessonID, _ := dialog.GetInt64(p, "lesson_id")

	tree, err := b.bookings.GetTree(ctx, bookingID)
	if err != nil || tree == nil {
		b.send(tgbotapi.NewMessage(chatID, "Букинг не найден."))
		return
	}

	e := bookings.Event{
		LessonID:    lessonID,
		StartsAt:    time.Now(),
		DurationMin: durationMin,
		Status:      economics.StatusScheduled,
	}
	if tree.Package != nil && tree.Package.EquipmentCategory != "" {
		e.EquipmentCategory = tree.Package.EquipmentCategory
		e.EquipmentCount = tree.Participants
		if tree.Package.EquipmentCapacity > 0 && e.EquipmentCount > tree.Package.EquipmentCapacity {
			e.EquipmentCount = tree.Package.EquipmentCapacity
		}
	}

	id, err := b.bookings.CreateEvent(ctx, e)
	if err != nil {
		b.log.Error("create event", "lesson_id", lessonID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Ошибка при создании события."))
		return
	}
	_ = b.states.Reset(ctx, chatID)
	b.openBookingButton(chatID,
		fmt.Sprintf("Событие #%d на %s добавлено.", id, economics.FormatMinutes(durationMin)), bookingID)
}
