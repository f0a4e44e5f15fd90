package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/school-bot/internal/domain/bookings"
	"github.com/Spok95/school-bot/internal/domain/economics"
	"github.com/Spok95/school-bot/internal/domain/instructors"
	"github.com/Spok95/school-bot/internal/domain/packages"
)

func navKeyboard(back bool, cancel bool) tgbotapi.InlineKeyboardMarkup {
	row := []tgbotapi.InlineKeyboardButton{}
	if back {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "nav:back"))
	}
	if cancel {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("✖️ Отменить", "nav:cancel"))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func confirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📨 Отправить", "rq:send"),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
}

// adminReplyKeyboard Нижняя панель (ReplyKeyboard) для админа школы
func adminReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton("Брони"), tgbotapi.NewKeyboardButton("Новая бронь")},
			{tgbotapi.NewKeyboardButton("Статистика"), tgbotapi.NewKeyboardButton("Выгрузка в Excel")},
			{tgbotapi.NewKeyboardButton("Новый пакет"), tgbotapi.NewKeyboardButton("Новый реферал")},
			{tgbotapi.NewKeyboardButton("Выплата инструктору")},
		},
	}
}

func instructorReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard: true,
		Keyboard: [][]tgbotapi.KeyboardButton{
			{tgbotapi.NewKeyboardButton("Мои занятия")},
			{tgbotapi.NewKeyboardButton("Мой заработок")},
		},
	}
}

func bookingsListKeyboard(bs []*bookings.Booking) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, b := range bs {
		title := fmt.Sprintf("#%d", b.ID)
		if b.Package != nil {
			title = fmt.Sprintf("#%d · %s", b.ID, b.Package.Name)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, fmt.Sprintf("bk:open:%d", b.ID)),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func bookingCardKeyboard(id int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Ссылка на оплату", fmt.Sprintf("bk:pay:%d", id)),
			tgbotapi.NewInlineKeyboardButtonData("💰 Оплата внесена", fmt.Sprintf("bk:paid:%d", id)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Занятие", fmt.Sprintf("ls:new:%d", id)),
			tgbotapi.NewInlineKeyboardButtonData("➕ Событие", fmt.Sprintf("ev:new:%d", id)),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
}

// packagePickKeyboard — выбор пакета для новой брони.
func packagePickKeyboard(ps []packages.SchoolPackage) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, p := range ps {
		title := fmt.Sprintf("%s · %.2f %s · %s",
			p.Name, p.PriceUnit, p.Currency, economics.FormatMinutes(p.DurationTargetMin))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, fmt.Sprintf("pk:pick:%d", p.ID)),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// instructorPickKeyboard — общий пикер инструктора; prefix задаёт действие
// ("ls:pick:<bookingID>" для нового занятия, "po:pick" для выплаты).
func instructorPickKeyboard(ins []instructors.Instructor, prefix string) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, i := range ins {
		title := fmt.Sprintf("%s · %s", i.Name, i.Rate().Label())
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, fmt.Sprintf("%s:%d", prefix, i.ID)),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// lessonPickKeyboard — в какое занятие букинга добавить событие.
func lessonPickKeyboard(bookingID int64, ls []bookings.Lesson) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{}
	for _, l := range ls {
		title := fmt.Sprintf("%s · событий: %d", l.InstructorName, len(l.Events))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(title, fmt.Sprintf("ev:lesson:%d:%d", bookingID, l.ID)),
		))
	}
	rows = append(rows, navKeyboard(false, true).InlineKeyboard[0])
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// eventStatusKeyboard — отметка результата события инструктором.
func eventStatusKeyboard(eventID int64) tgbotapi.InlineKeyboardMarkup {
	mk := func(label string, st economics.EventStatus) tgbotapi.InlineKeyboardButton {
		return tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("ev:set:%d:%s", eventID, st))
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			mk("✅ Проведено", economics.StatusCompleted),
			mk("❌ Сорвано", economics.StatusUncompleted),
		),
		tgbotapi.NewInlineKeyboardRow(
			mk("⏸ Перерыв", economics.StatusResting),
			mk("🚫 Отмена", economics.StatusCancelled),
		),
		navKeyboard(true, true).InlineKeyboard[0],
	)
}
