package bot

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/school-bot/internal/dialog"
	"github.com/Spok95/school-bot/internal/domain/bookings"
	"github.com/Spok95/school-bot/internal/domain/economics"
	"github.com/Spok95/school-bot/internal/infra/metrics"
	"github.com/Spok95/school-bot/internal/reports"
)

var statusEmoji = map[economics.EventStatus]string{
	economics.StatusCompleted:   "🟩",
	economics.StatusScheduled:   "🟦",
	economics.StatusResting:     "🟨",
	economics.StatusUncompleted: "🟥",
	economics.StatusCancelled:   "⬛",
	economics.StatusRemainder:   "⬜",
}

func statusTitle(s economics.EventStatus) string {
	switch s {
	case economics.StatusCompleted:
		return "проведено"
	case economics.StatusScheduled:
		return "запланировано"
	case economics.StatusResting:
		return "перерыв"
	case economics.StatusUncompleted:
		return "сорвано"
	case economics.StatusCancelled:
		return "отменено"
	case economics.StatusRemainder:
		return "остаток"
	}
	return string(s)
}

// renderProgressBar — полоса из 10 клеток по сегментам индикатора.
// Клетки раздаются по долям сегментов, порядок — как в Segments.
func renderProgressBar(p economics.Progress) string {
	const cells = 10
	var bar strings.Builder
	used := 0
	for i, seg := range p.Segments {
		n := int(math.Round(seg.Fraction * cells))
		if i == len(p.Segments)-1 {
			n = cells - used // остаток добирает хвост
		}
		if n <= 0 {
			continue
		}
		if used+n > cells {
			n = cells - used
		}
		bar.WriteString(strings.Repeat(statusEmoji[seg.Status], n))
		used += n
	}
	if used < cells {
		bar.WriteString(strings.Repeat(statusEmoji[economics.StatusRemainder], cells-used))
	}
	return bar.String()
}

// showBookingsList — список букингов для админа.
func (b *Bot) showBookingsList(ctx context.Context, chatID int64) {
	trees, err := b.bookings.ListTrees(ctx)
	if err != nil {
		b.log.Error("list bookings", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить брони."))
		return
	}
	if len(trees) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Броней пока нет."))
		return
	}
	m := tgbotapi.NewMessage(chatID, "Брони:")
	m.ReplyMarkup = bookingsListKeyboard(trees)
	b.send(m)
	_ = b.states.Set(ctx, chatID, dialog.StateBookingsList, dialog.Payload{})
}

// showBookingCard — карточка: деньги + индикатор готовности пакета.
func (b *Bot) showBookingCard(ctx context.Context, chatID int64, msgID int, id int64) {
	tree, err := b.bookings.GetTree(ctx, id)
	if err != nil || tree == nil {
		b.editTextAndClear(chatID, msgID, "Букинг не найден.")
		return
	}

	metrics.Evaluations.Inc()
	f, err := economics.EvaluateBooking(tree.EconomicsInput())
	if err != nil {
		// не молчим и не показываем ноль — у этой брони битая схема ставки
		if errors.Is(err, economics.ErrUnknownRateKind) {
			b.editTextAndClear(chatID, msgID, fmt.Sprintf("Посчитать нельзя: %v", err))
			return
		}
		b.log.Error("evaluate booking", "booking_id", id, "err", err)
		b.editTextAndClear(chatID, msgID, "Ошибка расчёта.")
		return
	}

	paid, err := b.payments.SumForBooking(ctx, id)
	if err != nil {
		b.log.Error("sum payments", "booking_id", id, "err", err)
	}

	cur := ""
	pkgName := "—"
	if tree.Package != nil {
		cur = " " + tree.Package.Currency
		pkgName = tree.Package.Name
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Букинг #%d · %s\n", tree.ID, pkgName)
	fmt.Fprintf(&sb, "Участников: %d\n\n", tree.Participants)

	for i, lf := range f.Lessons {
		name := "инструктор"
		if i < len(tree.Lessons) {
			name = tree.Lessons[i].InstructorName
		}
		fmt.Fprintf(&sb, "· %s — %s, выручка %.2f%s, ставка %s, заработал %.2f%s\n",
			name, economics.FormatMinutes(lf.ConsumedMinutes), lf.Revenue, cur,
			lf.Commission.RateLabel, lf.Commission.Earned, cur)
	}

	fmt.Fprintf(&sb, "\nВыручка: %.2f%s\n", f.Revenue, cur)
	fmt.Fprintf(&sb, "Комиссии инструкторов: %.2f%s\n", f.CommissionTotal, cur)
	if f.Referral != nil && tree.Referral != nil {
		fmt.Fprintf(&sb, "Реферал %s (%s): %.2f%s\n", tree.Referral.Code, f.Referral.RateLabel, f.ReferralEarned, cur)
	}
	fmt.Fprintf(&sb, "Школе: %.2f%s\n", f.Net, cur)
	fmt.Fprintf(&sb, "Оплачено: %.2f%s\n\n", paid, cur)

	p := tree.Progress()
	fmt.Fprintf(&sb, "%s %.0f%%\n", renderProgressBar(p), p.Ratio*100)
	fmt.Fprintf(&sb, "Израсходовано %s из %s\n", economics.FormatMinutes(p.ConsumedMinutes), economics.FormatMinutes(tree.TargetMin()))
	if p.RawRatio > 1 {
		sb.WriteString("⚠️ Проведено больше плана пакета\n")
	}
	for _, seg := range p.Segments {
		c, ok := p.Counts[seg.Status]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s %s: %d соб., %s\n", statusEmoji[seg.Status], statusTitle(seg.Status), c.Count, economics.FormatMinutes(c.Minutes))
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, sb.String(), bookingCardKeyboard(id))
	b.send(edit)
	_ = b.states.Set(ctx, chatID, dialog.StateBookingCard, dialog.Payload{"booking_id": float64(id)})
}

// equipmentStat — сводка из события с привязанным снаряжением.
func equipmentStat(e bookings.Event) economics.StatBundle {
	return economics.StatBundle{
		Count:        e.EquipmentCount,
		EventCount:   1,
		TotalMinutes: e.DurationMin,
	}
}

// showStats — сводка школы: общий итог + подытоги по пакетам.
// Подытоги и итог считаются из одних и тех же строк через Combine.
func (b *Bot) showStats(ctx context.Context, chatID int64) {
	trees, err := b.bookings.ListTrees(ctx)
	if err != nil {
		b.log.Error("list bookings", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить брони."))
		return
	}

	type group struct {
		name string
		figs []economics.BookingFigures
	}
	groups := map[string]*group{}
	var order []string
	failed := 0

	for _, tree := range trees {
		metrics.Evaluations.Inc()
		f, err := economics.EvaluateBooking(tree.EconomicsInput())
		if err != nil {
			// одна битая бронь не валит сводку
			b.log.Warn("booking skipped in stats", "booking_id", tree.ID, "err", err)
			failed++
			continue
		}
		name := "без пакета"
		if tree.Package != nil {
			name = tree.Package.Name
		}
		g, ok := groups[name]
		if !ok {
			g = &group{name: name}
			groups[name] = g
			order = append(order, name)
		}
		g.figs = append(g.figs, f)
	}

	var sb strings.Builder
	sb.WriteString("Статистика школы\n\n")

	total := economics.StatBundle{}
	for _, name := range order {
		sub := economics.Rollup(groups[name].figs, economics.BookingStat)
		total = economics.Combine(total, sub)
		fmt.Fprintf(&sb, "%s: %d брон., %d соб., %s, приход %.2f, расход %.2f, итог %.2f\n",
			name, sub.Count, sub.EventCount, economics.FormatMinutes(sub.TotalMinutes),
			sub.MoneyIn, sub.MoneyOut, sub.Net)
	}

	fmt.Fprintf(&sb, "\nВсего: %d брон., %d соб., %s\nПриход %.2f · Расход %.2f · Итог %.2f\n",
		total.Count, total.EventCount, economics.FormatMinutes(total.TotalMinutes),
		total.MoneyIn, total.MoneyOut, total.Net)

	// снаряжение: тот же fold, путь извлечения — аннотации событий
	byCat := map[string][]bookings.Event{}
	for _, tree := range trees {
		for _, l := range tree.Lessons {
			for _, e := range l.Events {
				if e.EquipmentCategory == "" || e.EquipmentCount == 0 {
					continue
				}
				byCat[e.EquipmentCategory] = append(byCat[e.EquipmentCategory], e)
			}
		}
	}
	if len(byCat) > 0 {
		cats := make([]string, 0, len(byCat))
		for cat := range byCat {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		sb.WriteString("\nСнаряжение:\n")
		for _, cat := range cats {
			s := economics.Rollup(byCat[cat], equipmentStat)
			fmt.Fprintf(&sb, "%s: %d ед., %d соб., %s\n",
				cat, s.Count, s.EventCount, economics.FormatMinutes(s.TotalMinutes))
		}
	}

	if failed > 0 {
		fmt.Fprintf(&sb, "\n⚠️ Не посчитано броней: %d (битая схема ставки)\n", failed)
	}

	b.send(tgbotapi.NewMessage(chatID, sb.String()))
	_ = b.states.Set(ctx, chatID, dialog.StateStatsMenu, dialog.Payload{})
}

// exportExcel — выгрузка сводки по букингам в xlsx.
func (b *Bot) exportExcel(ctx context.Context, chatID int64) {
	trees, err := b.bookings.ListTrees(ctx)
	if err != nil {
		b.log.Error("list bookings", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить брони."))
		return
	}

	var rows []reports.Row
	for _, tree := range trees {
		metrics.Evaluations.Inc()
		f, err := economics.EvaluateBooking(tree.EconomicsInput())
		if err != nil {
			b.log.Warn("booking skipped in export", "booking_id", tree.ID, "err", err)
			continue
		}
		label := fmt.Sprintf("Букинг #%d", tree.ID)
		if tree.Package != nil {
			label = fmt.Sprintf("Букинг #%d · %s", tree.ID, tree.Package.Name)
		}
		rows = append(rows, reports.Row{Label: label, Stats: economics.BookingStat(f)})
	}

	f, err := reports.Workbook("Брони", rows)
	if err != nil {
		b.log.Error("build workbook", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось сформировать файл."))
		return
	}
	defer func() { _ = f.Close() }()

	buf, err := f.WriteToBuffer()
	if err != nil {
		b.log.Error("write workbook", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось сформировать файл."))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02")),
		Bytes: buf.Bytes(),
	})
	b.send(doc)
}

// showMyLessons — события инструктора с кнопками отметки результата.
func (b *Bot) showMyLessons(ctx context.Context, chatID, tgID int64) {
	ins, err := b.instructors.GetByTelegramID(ctx, tgID)
	if err != nil || ins == nil {
		b.send(tgbotapi.NewMessage(chatID, "Профиль инструктора не найден, обратитесь к админу."))
		return
	}

	trees, err := b.bookings.ListTreesByInstructor(ctx, ins.ID)
	if err != nil {
		b.log.Error("list bookings by instructor", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить занятия."))
		return
	}

	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, tree := range trees {
		for _, l := range tree.Lessons {
			if l.InstructorID != ins.ID {
				continue
			}
			for _, e := range l.Events {
				title := fmt.Sprintf("#%d · %s · %s · %s",
					e.ID, e.StartsAt.Format("02.01 15:04"),
					economics.FormatMinutes(e.DurationMin), statusTitle(e.Status))
				rows = append(rows, tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData(title, fmt.Sprintf("ev:mark:%d", e.ID)),
				))
			}
		}
	}
	if len(rows) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "Событий пока нет."))
		return
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])

	m := tgbotapi.NewMessage(chatID, "Ваши события (нажмите, чтобы отметить результат):")
	m.ReplyMarkup = tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
	b.send(m)
	_ = b.states.Set(ctx, chatID, dialog.StateMyLessons, dialog.Payload{})
}

// showMyEarnings — заработок инструктора по снимкам ставок в занятиях.
func (b *Bot) showMyEarnings(ctx context.Context, chatID, tgID int64) {
	ins, err := b.instructors.GetByTelegramID(ctx, tgID)
	if err != nil || ins == nil {
		b.send(tgbotapi.NewMessage(chatID, "Профиль инструктора не найден, обратитесь к админу."))
		return
	}

	trees, err := b.bookings.ListTreesByInstructor(ctx, ins.ID)
	if err != nil {
		b.log.Error("list bookings by instructor", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Не удалось загрузить занятия."))
		return
	}

	var mine []economics.LessonFigures
	failed := 0
	for _, tree := range trees {
		metrics.Evaluations.Inc()
		f, err := economics.EvaluateBooking(tree.EconomicsInput())
		if err != nil {
			failed++
			continue
		}
		// f.Lessons идёт в том же порядке, что tree.Lessons
		for i, lf := range f.Lessons {
			if i < len(tree.Lessons) && tree.Lessons[i].InstructorID == ins.ID {
				mine = append(mine, lf)
			}
		}
	}

	sum := economics.Rollup(mine, economics.LessonStat)
	paidOut, err := b.payments.SumForInstructor(ctx, ins.ID)
	if err != nil {
		b.log.Error("sum payouts", "instructor_id", ins.ID, "err", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Заработок: %s\n\n", ins.Name)
	fmt.Fprintf(&sb, "Занятий: %d, событий: %d\n", sum.Count, sum.EventCount)
	fmt.Fprintf(&sb, "Проведено: %s\n", economics.FormatMinutes(sum.TotalMinutes))
	fmt.Fprintf(&sb, "Начислено: %.2f\n", sum.MoneyOut)
	fmt.Fprintf(&sb, "Выплачено: %.2f\n", paidOut)
	fmt.Fprintf(&sb, "К выплате: %.2f\n", sum.MoneyOut-paidOut)
	if failed > 0 {
		fmt.Fprintf(&sb, "\n⚠️ Не посчитано броней: %d\n", failed)
	}

	b.send(tgbotapi.NewMessage(chatID, sb.String()))
}
